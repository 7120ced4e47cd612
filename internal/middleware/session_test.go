package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/cfbdemic/allies/internal/auth"
	"github.com/cfbdemic/allies/internal/models"
	"github.com/cfbdemic/allies/internal/request"
)

func sessionTestSigner() *auth.Signer {
	return auth.NewSigner([]byte("0123456789abcdef0123456789abcdef"), "allies.example.com")
}

func TestSession_MissingCookieIsUnauthenticated(t *testing.T) {
	t.Parallel()

	var gotSession *models.SessionClaims
	called := false
	handler := Session(sessionTestSigner(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotSession = request.SessionFromContext(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	if !called {
		t.Fatal("Expected the request to reach the handler")
	}
	if gotSession != nil {
		t.Errorf("Expected no session, got %+v", gotSession)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestSession_ValidCookieAttachesClaims(t *testing.T) {
	t.Parallel()

	signer := sessionTestSigner()
	signed, err := signer.Issue(&models.Player{ID: 42, Name: "alice"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var gotSession *models.SessionClaims
	handler := Session(signer, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = request.SessionFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotSession == nil {
		t.Fatal("Expected session claims to be attached")
	}
	if gotSession.ID != 42 || gotSession.Username != "alice" {
		t.Errorf("Unexpected claims: %+v", gotSession)
	}
}

func TestSession_InvalidCookieRedirectsToRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "garbage token", cookie: "not-a-token"},
		{name: "foreign signature", cookie: foreignToken(t)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			handler := Session(sessionTestSigner(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookie})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called {
				t.Error("Expected the request to be intercepted")
			}
			if rec.Code != http.StatusFound {
				t.Fatalf("Expected status 302, got %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/" {
				t.Errorf("Expected redirect to '/', got %q", loc)
			}
		})
	}
}

func TestLoginSession_ValidCookieAttachesClaims(t *testing.T) {
	t.Parallel()

	signer := sessionTestSigner()
	signed, err := signer.Issue(&models.Player{ID: 42, Name: "alice"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var gotSession *models.SessionClaims
	handler := LoginSession(signer, "allies.example.com", false, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = request.SessionFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/reddit", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: signed})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotSession == nil {
		t.Fatal("Expected session claims to be attached")
	}
	if gotSession.ID != 42 || gotSession.Username != "alice" {
		t.Errorf("Unexpected claims: %+v", gotSession)
	}
}

func TestLoginSession_InvalidCookieClearsAndProceeds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "garbage token", cookie: "not-a-token"},
		{name: "foreign signature", cookie: foreignToken(t)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			var gotSession *models.SessionClaims
			handler := LoginSession(sessionTestSigner(), "allies.example.com", false, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotSession = request.SessionFromContext(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/auth/reddit", nil)
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookie})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if !called {
				t.Fatal("Expected the request to proceed into the handler")
			}
			if gotSession != nil {
				t.Errorf("Expected no session, got %+v", gotSession)
			}

			var cleared *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == auth.CookieName {
					cleared = c
				}
			}
			if cleared == nil {
				t.Fatal("Expected the stale cookie to be cleared")
			}
			if cleared.MaxAge >= 0 {
				t.Errorf("Expected a negative max-age clearing the cookie, got %d", cleared.MaxAge)
			}
		})
	}
}

// foreignToken returns a structurally valid token signed with a different secret.
func foreignToken(t *testing.T) string {
	t.Helper()
	other := auth.NewSigner([]byte("ffffffffffffffffffffffffffffffff"), "allies.example.com")
	signed, err := other.Issue(&models.Player{ID: 1, Name: "mallory"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return signed
}
