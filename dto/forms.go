package dto

import "net/http"

// SignupForm carries the signup request fields
type SignupForm struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

func ParseSignupForm(r *http.Request) SignupForm {
	r.ParseForm()
	return SignupForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		ImageURL: r.PostFormValue("image_url"),
	}
}

// LoginForm carries the login request fields
type LoginForm struct {
	Username string
	Password string
}

func ParseLoginForm(r *http.Request) LoginForm {
	r.ParseForm()
	return LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
}

// MessageForm carries the new-message request fields
type MessageForm struct {
	Text string
}

func ParseMessageForm(r *http.Request) MessageForm {
	r.ParseForm()
	return MessageForm{Text: r.PostFormValue("text")}
}

// ProfileForm carries the profile-edit request fields. Password is the
// confirmation password, not a new one.
type ProfileForm struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

func ParseProfileForm(r *http.Request) ProfileForm {
	r.ParseForm()
	return ProfileForm{
		Username:       r.PostFormValue("username"),
		Email:          r.PostFormValue("email"),
		ImageURL:       r.PostFormValue("image_url"),
		HeaderImageURL: r.PostFormValue("header_image_url"),
		Bio:            r.PostFormValue("bio"),
		Location:       r.PostFormValue("location"),
		Password:       r.PostFormValue("password"),
	}
}
