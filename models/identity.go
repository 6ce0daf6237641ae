package models

// Identity is derived from the access token payload, never stored on its
// own. It identifies the user for display and request addressing only; the
// token signature is not verified client-side.
type Identity struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}
