package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamtrack/project-management/internal/core/domain"
	"github.com/teamtrack/project-management/internal/core/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubResolver struct {
	users map[string]*domain.User
}

func (r *stubResolver) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func newGateContext(t *testing.T, e *echo.Echo, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d (%s)", code, rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["message"] != message {
		t.Fatalf("expected message %q, got %q", message, body["message"])
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager(testSecret, time.Hour)
	alice := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin}
	resolver := &stubResolver{users: map[string]*domain.User{"u1": alice}}

	signed, err := tokens.Issue(alice)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := newGateContext(t, e, signed)

	called := false
	handler := Authenticate(tokens, resolver)(func(c echo.Context) error {
		called = true
		user, ok := UserFromContext(c)
		if !ok {
			t.Fatalf("user not attached to context")
		}
		if user.Username != "alice" {
			t.Fatalf("unexpected user: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_MissingCookie(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager(testSecret, time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{}}

	c, rec := newGateContext(t, e, "")

	handler := Authenticate(tokens, resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assertMessage(t, rec, http.StatusUnauthorized, "No token provided")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager(testSecret, time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{}}

	c, rec := newGateContext(t, e, "not-a-token")

	handler := Authenticate(tokens, resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assertMessage(t, rec, http.StatusUnauthorized, "Invalid token")
}

func TestAuthenticate_TamperedToken(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager(testSecret, time.Hour)
	alice := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin}
	resolver := &stubResolver{users: map[string]*domain.User{"u1": alice}}

	signed, err := tokens.Issue(alice)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	tampered := []byte(signed)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	c, rec := newGateContext(t, e, string(tampered))

	handler := Authenticate(tokens, resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assertMessage(t, rec, http.StatusUnauthorized, "Invalid token")
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	e := echo.New()
	expired := token.NewManager(testSecret, -time.Minute)
	alice := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin}
	resolver := &stubResolver{users: map[string]*domain.User{"u1": alice}}

	signed, err := expired.Issue(alice)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := newGateContext(t, e, signed)

	handler := Authenticate(token.NewManager(testSecret, time.Hour), resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assertMessage(t, rec, http.StatusUnauthorized, "Invalid token")
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager(testSecret, time.Hour)
	ghost := &domain.User{ID: "gone", Username: "ghost", Role: domain.RoleManager}
	resolver := &stubResolver{users: map[string]*domain.User{}}

	// Token is valid, but the subject no longer exists in the store.
	signed, err := tokens.Issue(ghost)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := newGateContext(t, e, signed)

	handler := Authenticate(tokens, resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assertMessage(t, rec, http.StatusUnauthorized, "User not found")
}

func TestGate_RoleChangeTakesEffectImmediately(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager(testSecret, time.Hour)

	// Token minted while the user was an Admin; the store now says Employee.
	wasAdmin := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin}
	signed, err := tokens.Issue(wasAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	resolver := &stubResolver{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice", Role: domain.RoleEmployee},
	}}

	c, rec := newGateContext(t, e, signed)

	gate := Authenticate(tokens, resolver)(RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("demoted user must not pass an Admin gate")
		return nil
	}))

	if err := gate(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	assertMessage(t, rec, http.StatusForbidden, "Access denied")
}
