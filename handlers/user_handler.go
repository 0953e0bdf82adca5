package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"warbler/dto"
	"warbler/models"
	"warbler/monitoring"
	"warbler/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	Users    *repositories.UserRepository
	Messages *repositories.MessageRepository
}

// NewUserHandler initializes a new UserHandler
func NewUserHandler(users *repositories.UserRepository, messages *repositories.MessageRepository) *UserHandler {
	return &UserHandler{Users: users, Messages: messages}
}

func signupForm(errMsg string) string {
	var b strings.Builder
	b.WriteString("<h2>Join Warbler today.</h2>")
	if errMsg != "" {
		b.WriteString(fmt.Sprintf("<div class=\"flash\">%s</div>", escape(errMsg)))
	}
	b.WriteString(`<form method="POST" action="/signup">` +
		`<input name="username" placeholder="Username">` +
		`<input name="email" placeholder="E-mail">` +
		`<input name="password" type="password" placeholder="Password">` +
		`<input name="image_url" placeholder="(Optional) Image URL">` +
		`<button class="btn btn-primary btn-lg btn-block">Sign me up!</button>` +
		`</form>`)
	return b.String()
}

func loginForm(errMsg string) string {
	var b strings.Builder
	b.WriteString("<h2>Welcome back.</h2>")
	if errMsg != "" {
		b.WriteString(fmt.Sprintf("<div class=\"flash\">%s</div>", escape(errMsg)))
	}
	b.WriteString(`<form method="POST" action="/login">` +
		`<input name="username" placeholder="Username">` +
		`<input name="password" type="password" placeholder="Password">` +
		`<button class="btn btn-primary btn-block btn-lg">Log in</button>` +
		`</form>`)
	return b.String()
}

// Signup handles GET (form) and POST (create the user and log them in)
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderPage(w, r, http.StatusOK, signupForm(""))
		return
	}

	form := dto.ParseSignupForm(r)
	user, err := h.Users.Signup(form.Username, form.Email, form.Password, form.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyTaken):
			renderPage(w, r, http.StatusOK, signupForm("Username or email already taken"))
		case errors.Is(err, models.ErrUsernameRequired):
			renderPage(w, r, http.StatusOK, signupForm("You have to enter a username"))
		case errors.Is(err, models.ErrEmailRequired):
			renderPage(w, r, http.StatusOK, signupForm("You have to enter an email address"))
		case errors.Is(err, models.ErrPasswordRequired):
			renderPage(w, r, http.StatusOK, signupForm("You have to enter a password"))
		default:
			logrus.WithError(err).Error("signup failed")
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	monitoring.SignupSuccess.Inc()
	setCurrentUser(w, r, user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Login handles GET (form) and POST (authenticate and set the session)
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := currentUserID(r); ok {
			flash(w, r, "You are already logged in!")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		renderPage(w, r, http.StatusOK, loginForm(""))
		return
	}

	form := dto.ParseLoginForm(r)
	user, err := h.Users.Authenticate(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			monitoring.LoginFailure.WithLabelValues("bad_credentials").Inc()
			renderPage(w, r, http.StatusOK, loginForm("Invalid credentials."))
			return
		}
		logrus.WithError(err).Error("login failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	monitoring.LoginSuccess.Inc()
	setCurrentUser(w, r, user.ID)
	flash(w, r, fmt.Sprintf("Hello, %s!", user.Username))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearCurrentUser(w, r)
	flash(w, r, "Goodbye!")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// List shows all users, optionally filtered by a ?q= substring match on
// username.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	users, err := h.Users.Search(q)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	if len(users) == 0 {
		b.WriteString("<h3>Sorry, no users found</h3>")
	}
	for _, u := range users {
		b.WriteString(fmt.Sprintf("<p><a href=\"/users/%d\">@%s</a></p>", u.ID, escape(u.Username)))
	}
	renderPage(w, r, http.StatusOK, b.String())
}

// Show renders a user's profile and their messages
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user, err := h.Users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	messages, err := h.Messages.GetByUser(user.ID, 100)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<img src=\"%s\" alt=\"header\">", escape(user.HeaderImageURL)))
	b.WriteString(fmt.Sprintf("<img src=\"%s\" alt=\"avatar\">", escape(user.ImageURL)))
	b.WriteString(fmt.Sprintf("<p>@%s</p>", escape(user.Username)))
	if user.Bio != nil {
		b.WriteString(fmt.Sprintf("<p>%s</p>", escape(*user.Bio)))
	}
	if user.Location != nil {
		b.WriteString(fmt.Sprintf("<p>%s</p>", escape(*user.Location)))
	}
	for _, m := range messages {
		b.WriteString(fmt.Sprintf("<p><a href=\"/messages/%d\">%s</a></p>", m.ID, escape(m.Text)))
	}
	renderPage(w, r, http.StatusOK, b.String())
}

func (h *UserHandler) userList(w http.ResponseWriter, r *http.Request, users []models.User, empty string) {
	var b strings.Builder
	if len(users) == 0 {
		b.WriteString(fmt.Sprintf("<p class=\"empty\">%s</p>", escape(empty)))
	}
	for _, u := range users {
		b.WriteString(fmt.Sprintf("<p><a href=\"/users/%d\">@%s</a></p>", u.ID, escape(u.Username)))
	}
	renderPage(w, r, http.StatusOK, b.String())
}

// Followers lists the users following the given user
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	followers, err := h.Users.Followers(user.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.userList(w, r, followers, fmt.Sprintf("@%s has no followers yet.", user.Username))
}

// Following lists the users the given user follows
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	following, err := h.Users.Following(user.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.userList(w, r, following, fmt.Sprintf("@%s is not following anyone yet.", user.Username))
}

// Likes lists the messages the given user has liked
func (h *UserHandler) Likes(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	messages, err := h.Messages.LikedBy(user.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	if len(messages) == 0 {
		b.WriteString(fmt.Sprintf("<p class=\"empty\">@%s has not liked any messages yet.</p>", escape(user.Username)))
	}
	for _, m := range messages {
		b.WriteString(fmt.Sprintf("<p><a href=\"/messages/%d\">%s</a> by @%s</p>",
			m.ID, escape(m.Text), escape(m.User.Username)))
	}
	renderPage(w, r, http.StatusOK, b.String())
}

// Follow creates a follow edge from the logged-in user to {id}
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	target, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.Users.Follow(currID, target.ID); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	monitoring.FollowsCreated.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", currID), http.StatusFound)
}

// StopFollowing removes the follow edge from the logged-in user to {id}
func (h *UserHandler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	target, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.Users.Unfollow(currID, target.ID); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", currID), http.StatusFound)
}

// Profile handles GET (edit form) and POST (apply edits, but only when the
// confirmation password checks out).
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	user, err := h.Users.GetByID(currID)
	if err != nil {
		unauthorized(w, r)
		return
	}

	if r.Method == http.MethodGet {
		bio, location := "", ""
		if user.Bio != nil {
			bio = *user.Bio
		}
		if user.Location != nil {
			location = *user.Location
		}
		body := fmt.Sprintf(`<h2>Edit Your Profile.</h2>`+
			`<form method="POST" action="/users/profile">`+
			`<input name="username" value="%s">`+
			`<input name="email" value="%s">`+
			`<input name="image_url" value="%s">`+
			`<input name="header_image_url" value="%s">`+
			`<textarea name="bio">%s</textarea>`+
			`<input name="location" value="%s">`+
			`<input name="password" type="password" placeholder="Enter your password to confirm">`+
			`<button class="btn btn-success">Edit this user!</button>`+
			`</form>`,
			escape(user.Username), escape(user.Email), escape(user.ImageURL),
			escape(user.HeaderImageURL), escape(bio), escape(location))
		renderPage(w, r, http.StatusOK, body)
		return
	}

	form := dto.ParseProfileForm(r)
	if _, err := h.Users.Authenticate(user.Username, form.Password); err != nil {
		unauthorized(w, r)
		return
	}

	if form.Username != "" {
		user.Username = form.Username
	}
	if form.Email != "" {
		user.Email = form.Email
	}
	if form.ImageURL != "" {
		user.ImageURL = form.ImageURL
	}
	if form.HeaderImageURL != "" {
		user.HeaderImageURL = form.HeaderImageURL
	}
	if form.Bio != "" {
		bio := form.Bio
		user.Bio = &bio
	}
	if form.Location != "" {
		location := form.Location
		user.Location = &location
	}

	if err := h.Users.Update(user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyTaken) {
			renderPage(w, r, http.StatusOK, "<div class=\"flash\">Username or email already taken</div>")
			return
		}
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", user.ID), http.StatusFound)
}

// Delete removes the logged-in user and, through the repository's
// transaction, all of their messages, follows and likes.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	if err := h.Users.Delete(currID); err != nil {
		logrus.WithError(err).Error("user delete failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	clearCurrentUser(w, r)
	http.Redirect(w, r, "/signup", http.StatusFound)
}

// lookup resolves the {id} route variable to a user, writing a 404 when it
// doesn't resolve.
func (h *UserHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	user, err := h.Users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return user, true
}
