// Package reddit drives the three-legged OAuth2 flow against Reddit and
// fetches the authorizing user's identity.
package reddit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	authURL     = "https://www.reddit.com/api/v1/authorize"
	tokenURL    = "https://www.reddit.com/api/v1/access_token"
	identityURL = "https://oauth.reddit.com/api/v1/me"

	// Reddit rejects requests carrying generic client user agents.
	userAgent = "web:cfbdemic-allies:v1.0.0"

	stateLength = 32
)

// Profile is the slice of the Reddit identity response the app cares about.
// The name is the stable display name used as the local player name.
type Profile struct {
	Name string `json:"name"`
}

// Client wraps the OAuth2 code flow for Reddit
type Client struct {
	config      *oauth2.Config
	identityURL string
}

// New creates a Reddit OAuth2 client. The callback URL is derived from the
// configured web host, matching the route registered by the auth handler.
func New(clientID, clientSecret, webHost string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  fmt.Sprintf("http://%s/auth/reddit/callback", webHost),
			Scopes:       []string{"identity"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		identityURL: identityURL,
	}
}

// NewState generates a random anti-forgery state value (32 bytes, hex)
func NewState() (string, error) {
	buf := make([]byte, stateLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// AuthCodeURL returns the Reddit authorization URL for the given state. The
// grant is requested with permanent duration, mirroring the session model of
// a long-lived cookie rather than a short-lived access token.
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.SetAuthURLParam("duration", "permanent"))
}

// Exchange trades the callback's authorization code for an access token
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// FetchIdentity retrieves the authorizing user's profile
func (c *Client) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.identityURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity endpoint returned status %d", resp.StatusCode)
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}

	if profile.Name == "" {
		return nil, fmt.Errorf("identity response missing name")
	}

	return profile, nil
}
