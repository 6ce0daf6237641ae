package models

// Session is a point-in-time snapshot of the authentication state.
// Invariants: LoggedIn == (Credential != nil), and Identity != nil implies
// Credential != nil.
type Session struct {
	LoggedIn   bool        `json:"logged_in"`
	Credential *Credential `json:"credential,omitempty"`
	Identity   *Identity   `json:"identity,omitempty"`
}
