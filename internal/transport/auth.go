package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// KeyAuth sends the user API key as "Authorization: Key <key>", the scheme
// Redash expects.
type KeyAuth struct{}

// Apply implements the Authenticator interface for KeyAuth.
func (a *KeyAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Key "+apiKey)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}

	query := req.URL.Query()
	query.Set(a.Param, apiKey)
	req.URL.RawQuery = query.Encode()
}

// Auth schemes accepted by ForScheme.
const (
	SchemeKey   = "key"
	SchemeQuery = "query"
	SchemeNone  = "none"
)

// ForScheme returns the authenticator for a configured scheme name.
// Unknown or empty names use the header scheme.
func ForScheme(scheme string) Authenticator {
	switch scheme {
	case SchemeQuery:
		return &QueryAuth{Param: "api_key"}
	case SchemeNone:
		return &NoAuth{}
	}
	return &KeyAuth{}
}
