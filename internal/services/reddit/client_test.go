package reddit

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestNewState(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 16; i++ {
		state, err := NewState()
		if err != nil {
			t.Fatalf("NewState failed: %v", err)
		}
		if len(state) != stateLength*2 {
			t.Fatalf("Expected %d hex characters, got %d", stateLength*2, len(state))
		}
		if _, err := hex.DecodeString(state); err != nil {
			t.Fatalf("State is not valid hex: %v", err)
		}
		if _, ok := seen[state]; ok {
			t.Fatal("Generated a duplicate state value")
		}
		seen[state] = struct{}{}
	}
}

func TestAuthCodeURL(t *testing.T) {
	t.Parallel()

	client := New("client-id", "client-secret", "allies.example.com")

	raw := client.AuthCodeURL("deadbeef")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthCodeURL returned an unparseable URL: %v", err)
	}

	if !strings.HasPrefix(raw, authURL) {
		t.Errorf("Expected URL to start with %q, got %q", authURL, raw)
	}

	query := parsed.Query()
	if got := query.Get("state"); got != "deadbeef" {
		t.Errorf("Expected state 'deadbeef', got %q", got)
	}
	if got := query.Get("duration"); got != "permanent" {
		t.Errorf("Expected duration 'permanent', got %q", got)
	}
	if got := query.Get("client_id"); got != "client-id" {
		t.Errorf("Expected client_id 'client-id', got %q", got)
	}
	if got := query.Get("scope"); got != "identity" {
		t.Errorf("Expected scope 'identity', got %q", got)
	}
	if got := query.Get("redirect_uri"); got != "http://allies.example.com/auth/reddit/callback" {
		t.Errorf("Unexpected redirect_uri %q", got)
	}
}

func TestFetchIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		expectError bool
		expectName  string
	}{
		{
			name:       "valid profile",
			status:     http.StatusOK,
			body:       `{"name":"alice","link_karma":10}`,
			expectName: "alice",
		},
		{
			name:        "provider error status",
			status:      http.StatusUnauthorized,
			body:        `{"message":"Unauthorized"}`,
			expectError: true,
		},
		{
			name:        "missing name",
			status:      http.StatusOK,
			body:        `{"link_karma":10}`,
			expectError: true,
		},
		{
			name:        "malformed body",
			status:      http.StatusOK,
			body:        `not json`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); ua != userAgent {
					t.Errorf("Expected user agent %q, got %q", userAgent, ua)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer token123" {
					t.Errorf("Expected bearer token, got %q", got)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New("client-id", "client-secret", "allies.example.com")
			client.identityURL = srv.URL

			token := &oauth2.Token{AccessToken: "token123", TokenType: "Bearer"}
			profile, err := client.FetchIdentity(context.Background(), token)
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchIdentity failed: %v", err)
			}
			if profile.Name != tt.expectName {
				t.Errorf("Expected name %q, got %q", tt.expectName, profile.Name)
			}
		})
	}
}

func TestExchange_ProviderFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	client := New("client-id", "client-secret", "allies.example.com")
	client.config.Endpoint.TokenURL = srv.URL

	if _, err := client.Exchange(context.Background(), "bad-code"); err == nil {
		t.Fatal("Expected exchange to fail")
	}
}

func TestExchange_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token123","token_type":"bearer"}`))
	}))
	defer srv.Close()

	client := New("client-id", "client-secret", "allies.example.com")
	client.config.Endpoint.TokenURL = srv.URL

	token, err := client.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if token.AccessToken != "token123" {
		t.Errorf("Expected access token 'token123', got %q", token.AccessToken)
	}
}
