package models

// SessionClaims is the decoded payload of a verified session token. It is
// reconstructed per request from the signed cookie and never persisted.
type SessionClaims struct {
	IssuedAt int64  `json:"iat"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Player returns the player identity asserted by the claims.
func (c *SessionClaims) Player() *Player {
	return &Player{ID: c.ID, Name: c.Username}
}
