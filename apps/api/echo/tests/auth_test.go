package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/unidigital/academia/core/user"
	testutil "github.com/unidigital/academia/tests"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "Student One", "student@test.edu", "s3cretPass!", []string{user.RoleStudent}, true)
	testutil.CreateUser(t, usrRepo, "Gone Guy", "gone@test.edu", "s3cretPass!", []string{user.RoleStudent}, false)

	body := func(email, pwd string) []byte {
		return []byte(`{"email": "` + email + `", "password": "` + pwd + `"}`)
	}

	tests := []httpTest{
		{
			name: "Unknown email", body: body("nobody@test.edu", "s3cretPass!"),
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "Wrong password", body: body("student@test.edu", "wrong"),
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "Inactive account", body: body("gone@test.edu", "s3cretPass!"),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "Missing fields", body: []byte(`{}`), wantCode: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Login succeeds", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body("student@test.edu", "s3cretPass!"))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("expected an access token")
		}
		if resp.TokenType != "bearer" {
			t.Errorf("token_type = %q; want %q", resp.TokenType, "bearer")
		}

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == conf.Server.CookieName {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("expected the auth cookie to be set")
		}
		if cookie.Value != resp.AccessToken {
			t.Error("cookie does not carry the issued token")
		}
		if !cookie.HttpOnly {
			t.Error("auth cookie must be HttpOnly")
		}
	})
}

func Test_authApi_me(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Student One", "student@test.edu", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/auth/me")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errNotAuthenticated)}, rec)
	})

	t.Run("Bearer token works", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/me", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, student)}, rec)
	})

	t.Run("Lowercase bearer scheme works", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/auth/me")
		req.Header.Set("Authorization", "bearer "+token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, student)}, rec)
	})

	t.Run("Cookie token works", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/auth/me")
		req.AddCookie(&http.Cookie{Name: conf.Server.CookieName, Value: token})
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, student)}, rec)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/me", "garbage.token.value")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "invalid token"})}, rec)
	})
}

func Test_authApi_logout(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Student One", "student@test.edu", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	t.Run("No cookie still logs out", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/logout")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}
	})

	t.Run("Garbage cookie still logs out", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/logout")
		req.AddCookie(&http.Cookie{Name: conf.Server.CookieName, Value: "not.a.token"})
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}
	})

	t.Run("Revocation beats a still-valid token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/logout")
		req.AddCookie(&http.Cookie{Name: conf.Server.CookieName, Value: token})
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}

		// cookie is deleted
		var cleared bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == conf.Server.CookieName && c.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Error("expected the auth cookie to be deleted")
		}

		// the token no longer authenticates even though it has not expired
		req, rec = newAuthRequest(http.MethodGet, "/v1/auth/me", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "token revoked"})}, rec)
	})

	t.Run("Duplicate logout is a no-op", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/logout")
		req.AddCookie(&http.Cookie{Name: conf.Server.CookieName, Value: token})
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}
	})
}
