package chat

import "time"

// Session captures a transient anonymous conversation. Its ID doubles as the
// opaque user identifier handed to the responder.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
