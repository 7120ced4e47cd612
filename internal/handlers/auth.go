package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/cfbdemic/allies/internal/auth"
	"github.com/cfbdemic/allies/internal/database"
	"github.com/cfbdemic/allies/internal/models"
	"github.com/cfbdemic/allies/internal/request"
	"github.com/cfbdemic/allies/internal/services/reddit"
)

// stateCookieName carries the anti-forgery state between the redirect to
// Reddit and the callback. Short-lived and scoped to the auth routes.
const stateCookieName = "oauth_state"

const stateCookieMaxAge = 600

// OAuthDelegate is the slice of the Reddit client the auth handler uses.
type OAuthDelegate interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*reddit.Profile, error)
}

var _ OAuthDelegate = (*reddit.Client)(nil)

// AuthHandler handles the login flow and session cookie management
type AuthHandler struct {
	delegate     OAuthDelegate
	players      database.PlayerRepositoryInterface
	signer       *auth.Signer
	cookieDomain string
	frontendURL  string
	devMode      bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(delegate OAuthDelegate, players database.PlayerRepositoryInterface, signer *auth.Signer, cookieDomain, frontendURL string, devMode bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		delegate:     delegate,
		players:      players,
		signer:       signer,
		cookieDomain: cookieDomain,
		frontendURL:  frontendURL,
		devMode:      devMode,
		logger:       logger,
	}
}

// RegisterRoutes registers auth routes on the given router.
// The router should already have the /auth prefix.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Auth).Methods("GET")
	r.HandleFunc("/reddit", h.RedditLogin).Methods("GET")
	r.HandleFunc("/reddit/callback", h.RedditCallback).Methods("GET")
}

// Auth is the post-login landing route. Authenticated sessions are sent into
// the app; everyone else goes back to the root.
func (h *AuthHandler) Auth(w http.ResponseWriter, r *http.Request) {
	if request.SessionFromContext(r) != nil {
		http.Redirect(w, r, h.frontendURL, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// RedditLogin starts the OAuth flow. An existing session is discarded first:
// hitting this route always restarts the flow, it never short-circuits.
func (h *AuthHandler) RedditLogin(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)

	state, err := reddit.NewState()
	if err != nil {
		h.logger.Error("failed_to_generate_oauth_state", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to start login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   !h.devMode,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.delegate.AuthCodeURL(state), http.StatusFound)
}

// RedditCallback completes the OAuth flow: verify the anti-forgery state,
// exchange the code, fetch the Reddit profile, resolve the local player, and
// establish the session cookie. Provider-side failures degrade to a redirect
// to the root; only store and signing failures surface as 5xx.
func (h *AuthHandler) RedditCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("oauth_denied_by_provider", zap.String("error", errParam))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" ||
		subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(state)) != 1 {
		h.logger.Warn("oauth_state_mismatch")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.clearStateCookie(w)

	token, err := h.delegate.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn("oauth_code_exchange_failed", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	profile, err := h.delegate.FetchIdentity(ctx, token)
	if err != nil {
		h.logger.Warn("oauth_identity_fetch_failed", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// An already-authenticated caller keeps their identity; the fresh OAuth
	// grant just re-establishes the session for it.
	var player *models.Player
	if sess := request.SessionFromContext(r); sess != nil {
		player = sess.Player()
	} else {
		player, err = h.players.ResolveOrCreate(ctx, profile.Name)
		if err != nil {
			h.logger.Error("failed_to_resolve_player",
				zap.String("name", profile.Name),
				zap.Error(err),
			)
			respondError(w, http.StatusInternalServerError, "failed to resolve player")
			return
		}
	}

	signed, err := h.signer.Issue(player)
	if err != nil {
		h.logger.Error("failed_to_issue_token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	h.attachCookie(w, signed)
	http.Redirect(w, r, "/auth", http.StatusFound)
}

func (h *AuthHandler) attachCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   int(auth.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   !h.devMode,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.devMode,
	})
}

func (h *AuthHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.devMode,
	})
}
