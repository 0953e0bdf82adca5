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

// MessageHandler handles message-related endpoints
type MessageHandler struct {
	Messages *repositories.MessageRepository
	Users    *repositories.UserRepository
}

// NewMessageHandler initializes a new MessageHandler
func NewMessageHandler(messages *repositories.MessageRepository, users *repositories.UserRepository) *MessageHandler {
	return &MessageHandler{Messages: messages, Users: users}
}

// Home renders the timeline: messages from followed users plus the user's
// own when logged in, an invitation to sign up otherwise.
func (h *MessageHandler) Home(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		messages, err := h.Messages.Latest(100)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		var b strings.Builder
		b.WriteString(`<h1>What's Happening?</h1><p><a href="/signup">Sign up now to get your own personalized timeline!</a></p>`)
		for _, m := range messages {
			b.WriteString(fmt.Sprintf("<p><a href=\"/messages/%d\">%s</a> by @%s</p>",
				m.ID, escape(m.Text), escape(m.User.Username)))
		}
		renderPage(w, r, http.StatusOK, b.String())
		return
	}

	user, err := h.Users.GetByID(currID)
	if err != nil {
		// Stale session, e.g. the account was deleted.
		clearCurrentUser(w, r)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	messages, err := h.Messages.Timeline(currID, 100)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString(`<aside class="col-md-4 col-lg-3 col-sm-12" id="home-aside">`)
	b.WriteString(fmt.Sprintf("<img src=\"%s\" alt=\"avatar\">", escape(user.ImageURL)))
	b.WriteString(fmt.Sprintf("<p>@%s</p>", escape(user.Username)))
	b.WriteString("</aside>")
	for _, m := range messages {
		b.WriteString(fmt.Sprintf("<p><a href=\"/messages/%d\">%s</a> by @%s</p>",
			m.ID, escape(m.Text), escape(m.User.Username)))
	}
	renderPage(w, r, http.StatusOK, b.String())
}

// New creates a message for the logged-in user
func (h *MessageHandler) New(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}

	form := dto.ParseMessageForm(r)
	message := &models.Message{Text: form.Text, UserID: currID}
	if err := h.Messages.Create(message); err != nil {
		switch {
		case errors.Is(err, models.ErrTextRequired):
			renderPage(w, r, http.StatusOK, "<div class=\"flash\">You have to enter a message</div>")
		case errors.Is(err, models.ErrTextTooLong):
			renderPage(w, r, http.StatusOK, "<div class=\"flash\">Messages are limited to 140 characters</div>")
		default:
			logrus.WithError(err).Error("message create failed")
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	monitoring.MessagesPosted.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d", currID), http.StatusFound)
}

// Show renders a single message
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	message, ok := h.lookup(w, r)
	if !ok {
		return
	}
	likes, err := h.Messages.LikeCount(message.ID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	body := fmt.Sprintf("<blockquote>%s</blockquote><p><a href=\"/users/%d\">@%s</a></p><p>%d likes</p>",
		escape(message.Text), message.User.ID, escape(message.User.Username), likes)
	renderPage(w, r, http.StatusOK, body)
}

// Delete removes a message; only its owner may do that
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	message, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if message.UserID != currID {
		unauthorized(w, r)
		return
	}
	if err := h.Messages.Delete(message.ID); err != nil {
		logrus.WithError(err).Error("message delete failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", currID), http.StatusFound)
}

// Like records a like from the logged-in user. Liking twice is harmless.
func (h *MessageHandler) Like(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	message, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.Messages.Like(currID, message.ID); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	monitoring.LikesCreated.Inc()
	http.Redirect(w, r, fmt.Sprintf("/messages/%d", message.ID), http.StatusFound)
}

// Unlike removes the logged-in user's like; a missing like is a no-op
func (h *MessageHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	currID, ok := currentUserID(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	message, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.Messages.Unlike(currID, message.ID); err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/messages/%d", message.ID), http.StatusFound)
}

func (h *MessageHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Message, bool) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	message, err := h.Messages.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return message, true
}
