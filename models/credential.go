package models

// Credential is the bearer token pair issued by the platform API on login
// or refresh. Both values are opaque to the client except for the access
// token payload, which token.Decode reads for display purposes.
type Credential struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
