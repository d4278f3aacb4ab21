package handler

import (
	"net/http"
	"testing"
)

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON("/api/v1/auth/login", map[string]string{
		"email":    "admin@sdi.es",
		"password": "admin123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var user UserResponse
	decodeData(t, resp, &user)

	if user.Email != "admin@sdi.es" {
		t.Errorf("email = %q", user.Email)
	}
	if user.Role != "admin" {
		t.Errorf("role = %q, want admin (derived from @sdi.es)", user.Role)
	}
	if user.City != "Madrid" {
		t.Errorf("city = %q", user.City)
	}
}

func TestLoginNonAdminRole(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON("/api/v1/auth/login", map[string]string{
		"email":    "usuario@gmail.com",
		"password": "user123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var user UserResponse
	decodeData(t, resp, &user)
	if user.Role != "user" {
		t.Errorf("role = %q, want user for non-sdi.es email", user.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON("/api/v1/auth/login", map[string]string{
		"email":    "admin@sdi.es",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	errDetail := decodeError(t, resp)
	if errDetail.Message != "Invalid email or password" {
		t.Errorf("message = %q, want generic credentials message", errDetail.Message)
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON("/api/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	// Unknown email and wrong password must be indistinguishable
	errDetail := decodeError(t, resp)
	if errDetail.Message != "Invalid email or password" {
		t.Errorf("message = %q, want generic credentials message", errDetail.Message)
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON("/api/v1/auth/login", map[string]string{})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	errDetail := decodeError(t, resp)
	if errDetail.Details["email"] == "" || errDetail.Details["password"] == "" {
		t.Errorf("details = %v, want field errors for email and password", errDetail.Details)
	}
}

func TestMeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get("/api/v1/auth/me")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMeAfterLogin(t *testing.T) {
	env := newTestEnv(t)
	env.login("maria@sdi.es", "admin123")

	resp := env.get("/api/v1/auth/me")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var user UserResponse
	decodeData(t, resp, &user)
	if user.Email != "maria@sdi.es" {
		t.Errorf("email = %q", user.Email)
	}
	if user.City != "Barcelona" {
		t.Errorf("city = %q", user.City)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.postJSON("/api/v1/auth/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", resp.StatusCode)
	}

	resp = env.get("/api/v1/auth/me")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me after logout = %d, want 401", resp.StatusCode)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get("/api/v1/nothing-here")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	errDetail := decodeError(t, resp)
	if errDetail.Code != "not_found" {
		t.Errorf("code = %q, want not_found JSON error", errDetail.Code)
	}
}
