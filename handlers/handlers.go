package handlers

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie the session rides in.
const SessionName = "warbler-session"

// UserIDKey is the session key holding the logged-in user's id. It is
// absent when logged out.
const UserIDKey = "curr_user"

var store = sessions.NewCookieStore([]byte(sessionSecret()))

func sessionSecret() string {
	if s := os.Getenv("SESSION_KEY"); s != "" {
		return s
	}
	return "development-key"
}

func getSession(r *http.Request) *sessions.Session {
	// CookieStore only errors on a tampered cookie; a fresh session is
	// returned alongside, which is all we need.
	session, _ := store.Get(r, SessionName)
	return session
}

// currentUserID returns the logged-in user's id from the session.
func currentUserID(r *http.Request) (uint, bool) {
	session := getSession(r)
	raw, ok := session.Values[UserIDKey]
	if !ok {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}

func setCurrentUser(w http.ResponseWriter, r *http.Request, id uint) {
	session := getSession(r)
	session.Values[UserIDKey] = id
	session.Save(r, w)
}

func clearCurrentUser(w http.ResponseWriter, r *http.Request) {
	session := getSession(r)
	delete(session.Values, UserIDKey)
	session.Save(r, w)
}

// flash queues a message for the next rendered page.
func flash(w http.ResponseWriter, r *http.Request, msg string) {
	session := getSession(r)
	session.AddFlash(msg)
	session.Save(r, w)
}

// renderPage writes a minimal HTML page: queued flash messages first, then
// the body. Templating is out of scope; pages carry just their content.
func renderPage(w http.ResponseWriter, r *http.Request, status int, body string) {
	session := getSession(r)
	flashes := session.Flashes()
	session.Save(r, w) // consume the flashes

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, "<!DOCTYPE html><html><body>")
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			fmt.Fprintf(w, "<div class=\"flash\">%s</div>", html.EscapeString(msg))
		}
	}
	fmt.Fprint(w, body)
	fmt.Fprint(w, "</body></html>")
}

// unauthorized flashes "Access unauthorized." and sends the user home.
// Authorization failures redirect rather than erroring.
func unauthorized(w http.ResponseWriter, r *http.Request) {
	flash(w, r, "Access unauthorized.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// pathID extracts the numeric {id} route variable.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

func escape(s string) string {
	return html.EscapeString(s)
}
