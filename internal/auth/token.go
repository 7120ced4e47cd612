// Package auth issues and verifies the signed session tokens carried by the
// jwt cookie. Tokens assert a player identity and deliberately carry no
// expiration claim: the cookie max-age is the only client-side expiry, and
// rotating the signing secret invalidates everything server-side.
package auth

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/cfbdemic/allies/internal/models"
)

const (
	// TokenIssuer is the iss claim stamped on every session token.
	TokenIssuer = "CFBDemic Allies"

	// CookieName is the cookie carrying the session token.
	CookieName = "jwt"

	// CookieMaxAge is the session cookie lifetime (7 days).
	CookieMaxAge = 7 * 24 * time.Hour
)

// Signer issues and verifies session tokens with a shared HMAC secret.
type Signer struct {
	secret   []byte
	audience string
}

// NewSigner creates a signer for the given secret and trust domain. The
// audience doubles as the cookie domain in the HTTP layer.
func NewSigner(secret []byte, audience string) *Signer {
	return &Signer{secret: secret, audience: audience}
}

// Issue signs a token asserting the player's identity. Tokens are
// deterministic for identical inputs within the same second; callers must
// not rely on uniqueness across repeated issuance.
func (s *Signer) Issue(player *models.Player) (string, error) {
	token, err := jwt.NewBuilder().
		Issuer(TokenIssuer).
		Subject(player.Name).
		Audience([]string{s.audience}).
		IssuedAt(time.Now()).
		Claim("id", player.ID).
		Claim("username", player.Name).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

// Verify checks the token's signature, issuer, and audience, and returns the
// decoded session claims. Any failure means the bearer is unauthenticated;
// callers decide how to recover.
func (s *Signer) Verify(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	claims := &models.SessionClaims{
		IssuedAt: token.IssuedAt().Unix(),
	}

	id, ok := token.Get("id")
	if !ok {
		return nil, fmt.Errorf("token missing id claim")
	}
	switch v := id.(type) {
	case float64:
		claims.ID = int64(v)
	case int64:
		claims.ID = v
	default:
		return nil, fmt.Errorf("token id claim has unexpected type %T", id)
	}

	username, ok := token.Get("username")
	if !ok {
		return nil, fmt.Errorf("token missing username claim")
	}
	name, ok := username.(string)
	if !ok {
		return nil, fmt.Errorf("token username claim has unexpected type %T", username)
	}
	claims.Username = name

	return claims, nil
}
