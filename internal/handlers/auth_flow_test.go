// auth_flow_test.go contains handler integration tests for Auth.Login.
// Tests exercise a real database connection and are skipped when
// PostgreSQL is unavailable.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func loginReq(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestLogin_MissingCredentials verifies that blank email or password
// returns 400 before any database lookup happens.
func TestLogin_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{}`,
		`{"email":"someone@example.com"}`,
		`{"password":"secret123"}`,
	} {
		rec := httptest.NewRecorder()
		env.Auth.Login(rec, loginReq(body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status got %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

// TestLogin_MalformedBody verifies that invalid JSON returns 400.
func TestLogin_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Auth.Login(rec, loginReq(`{"email":`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestLogin_UnknownEmailAndWrongPassword verifies both failure modes
// produce the same 401 message so responses do not reveal which
// accounts exist.
func TestLogin_UnknownEmailAndWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	testUser(t, env, "login-wrong@example.com", "correct-password", "user")

	cases := []struct {
		name string
		body string
	}{
		{"unknown email", `{"email":"login-missing@example.com","password":"whatever1"}`},
		{"wrong password", `{"email":"login-wrong@example.com","password":"not-the-one"}`},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		env.Auth.Login(rec, loginReq(tc.body))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status got %d, want %d", tc.name, rec.Code, http.StatusUnauthorized)
			continue
		}
		var resp struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("%s: decode body: %v", tc.name, err)
		}
		if resp.Message != "Credenciales inválidas" {
			t.Errorf("%s: message got %q", tc.name, resp.Message)
		}
	}
}

// TestLogin_ValidCredentials verifies a successful login returns the
// user payload and a token the manager itself accepts.
func TestLogin_ValidCredentials(t *testing.T) {
	env := newTestEnv(t)
	user := testUser(t, env, "login-ok@example.com", "correct-password", "admin")

	rec := httptest.NewRecorder()
	env.Auth.Login(rec, loginReq(`{"email":"login-ok@example.com","password":"correct-password"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.User.Email != user.Email {
		t.Errorf("user email: got %q, want %q", resp.User.Email, user.Email)
	}
	if resp.User.Role != "admin" {
		t.Errorf("user role: got %q, want admin", resp.User.Role)
	}

	claims, err := env.Tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token user ID: got %s, want %s", claims.UserID, user.ID)
	}
}

// TestLogin_EmailIsCaseInsensitive verifies login matches the stored
// account regardless of email casing.
func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	testUser(t, env, "login-case@example.com", "correct-password", "user")

	rec := httptest.NewRecorder()
	env.Auth.Login(rec, loginReq(`{"email":"LOGIN-CASE@Example.COM","password":"correct-password"}`))
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
}
