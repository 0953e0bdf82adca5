package handlers_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"warbler/database"
	"warbler/handlers"
	"warbler/models"
	"warbler/repositories"
	"warbler/routes"
)

type testApp struct {
	ts         *httptest.Server
	client     *http.Client // follows redirects like a browser
	noRedirect *http.Client // stops at the first response, same cookie jar
	users      *repositories.UserRepository
	messages   *repositories.MessageRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "warbler_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	router := routes.SetupRoutes(
		handlers.NewUserHandler(userRepo, messageRepo),
		handlers.NewMessageHandler(messageRepo, userRepo),
	)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	return &testApp{
		ts:     ts,
		client: &http.Client{Jar: jar},
		noRedirect: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		users:    userRepo,
		messages: messageRepo,
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(data)
}

// get performs a GET following redirects, like a browser would.
func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// postForm posts form data and follows redirects.
func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// postFormNoRedirect posts form data and returns the raw first response so
// tests can assert on the 302 itself.
func (a *testApp) postFormNoRedirect(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.ts.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := a.noRedirect.Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func signupForm(username, email, password, imageURL string) url.Values {
	form := url.Values{}
	form.Add("username", username)
	form.Add("email", email)
	form.Add("password", password)
	form.Add("image_url", imageURL)
	return form
}

// login authenticates through the HTTP surface so the cookie jar carries a
// real session for the rest of the test.
func (a *testApp) login(t *testing.T, username, password string) {
	t.Helper()
	form := url.Values{}
	form.Add("username", username)
	form.Add("password", password)
	resp, body := a.postFormNoRedirect(t, "/login", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("Expected login to redirect, got %d. Response: %s", resp.StatusCode, body)
	}
}

// seedUser creates a user straight through the repository.
func (a *testApp) seedUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	user, err := a.users.Signup(username, email, password, "")
	if err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return user
}

// seedMessage creates a message straight through the repository.
func (a *testApp) seedMessage(t *testing.T, userID uint, text string) *models.Message {
	t.Helper()
	message := &models.Message{Text: text, UserID: userID}
	if err := a.messages.Create(message); err != nil {
		t.Fatalf("Failed to seed message: %v", err)
	}
	return message
}
