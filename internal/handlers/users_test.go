package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"userhub-backend/internal/auth"
	"userhub-backend/internal/config"
	"userhub-backend/internal/handlers"
	"userhub-backend/internal/repository"
	"userhub-backend/internal/routes"
)

func newTestServer() *httptest.Server {
	repo := repository.NewMemory()
	tokens := auth.NewTokenIssuer(&config.JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: 30 * time.Minute,
	})
	userHandler := handlers.NewUserHandler(repo, tokens)
	healthHandler := handlers.NewHealthHandler(nil)
	return httptest.NewServer(routes.NewRouter(userHandler, healthHandler))
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, ts.URL+path, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createUser(t *testing.T, ts *httptest.Server, username, email string) map[string]any {
	t.Helper()
	resp := postJSON(t, ts, "/users/", map[string]string{
		"username": username,
		"email":    email,
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)
}

func TestCreateUser(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	body := createUser(t, ts, "alice", "a@x.com")
	require.Equal(t, float64(1), body["id"])
	require.Equal(t, "alice", body["username"])
	require.Equal(t, "a@x.com", body["email"])
	require.NotContains(t, body, "password")
	require.NotContains(t, body, "password_hash")
}

func TestCreateUser_UsernameConflict(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp := postJSON(t, ts, "/users/", map[string]string{
		"username": "alice", "email": "other@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Username already exists", decodeBody(t, resp)["message"])
}

func TestCreateUser_EmailConflict(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp := postJSON(t, ts, "/users/", map[string]string{
		"username": "bob", "email": "a@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Email already exists", decodeBody(t, resp)["message"])
}

func TestCreateUser_BothConflict_UsernameWins(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp := postJSON(t, ts, "/users/", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Username already exists", decodeBody(t, resp)["message"])
}

func TestCreateUser_MissingFields(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts, "/users/", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListUsers_Paging(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for i := 1; i <= 5; i++ {
		createUser(t, ts, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@x.com", i))
	}

	resp, err := http.Get(ts.URL + "/users/?limit=2&offset=0")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	users := body["users"].([]any)
	require.Len(t, users, 2)
	require.Equal(t, "user1", users[0].(map[string]any)["username"])
	require.Equal(t, "user2", users[1].(map[string]any)["username"])

	// Offset past the end is an empty collection, not an error.
	resp, err = http.Get(ts.URL + "/users/?offset=5")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, decodeBody(t, resp)["users"])
}

func TestListUsers_Defaults(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for i := 1; i <= 12; i++ {
		createUser(t, ts, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@x.com", i))
	}

	resp, err := http.Get(ts.URL + "/users/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeBody(t, resp)["users"].([]any), 10)

	// Bad query values fall back to the defaults.
	resp, err = http.Get(ts.URL + "/users/?limit=abc&offset=-3")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeBody(t, resp)["users"].([]any), 10)
}

func TestGetUser(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp, err := http.Get(ts.URL + "/users/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "alice", body["username"])
	require.Equal(t, "a@x.com", body["email"])
	require.NotContains(t, body, "password")
}

func TestGetUser_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/users/42")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "User not found", decodeBody(t, resp)["message"])

	resp, err = http.Get(ts.URL + "/users/abc")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp := putJSON(t, ts, "/users/1", map[string]string{
		"username": "alice2", "email": "a2@x.com", "password": "newsecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "alice2", body["username"])
	require.Equal(t, "a2@x.com", body["email"])

	// The new password is live immediately.
	resp = postForm(t, ts, "a2@x.com", "newsecret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateUser_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := putJSON(t, ts, "/users/42", map[string]string{
		"username": "ghost", "email": "g@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateUser_Conflict(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")
	createUser(t, ts, "bob", "b@x.com")

	resp := putJSON(t, ts, "/users/2", map[string]string{
		"username": "alice", "email": "b@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Username or Email already exists", decodeBody(t, resp)["message"])
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/users/1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "User deleted", decodeBody(t, resp)["message"])

	// Reading the deleted user is a 404.
	resp, err = http.Get(ts.URL + "/users/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteUser_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/users/42", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func postForm(t *testing.T, ts *httptest.Server, email, password string) *http.Response {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	resp, err := http.Post(ts.URL+"/token", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func TestToken(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp := postForm(t, ts, "a@x.com", "secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.NotEmpty(t, body["access_token"])
	require.Equal(t, "Bearer", body["token_type"])
}

func TestToken_WrongPassword(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	createUser(t, ts, "alice", "a@x.com")

	resp := postForm(t, ts, "a@x.com", "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Incorrect email or password", decodeBody(t, resp)["message"])
}

func TestToken_UnknownEmail(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postForm(t, ts, "ghost@x.com", "secret")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Incorrect email or password", decodeBody(t, resp)["message"])
}

func TestRoot(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, decodeBody(t, resp)["message"])
}
