package models

// Player represents a registered player in the system. Rows are created on
// first Reddit login and never updated or deleted by the auth service.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
