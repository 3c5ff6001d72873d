// Package session holds the client side of the authentication flow: a
// persisted, client-held session with proactive refresh, an explicit
// status state machine, and a pure route-guard derivation. There is no
// server-side copy of any of this state.
package session

import "time"

// Storage keys. The full session lives under SessionKey; the raw access
// token is duplicated under TokenKey for convenience lookups.
const (
	SessionKey = "dietcare.auth.session"
	TokenKey   = "dietcare.auth.token"
)

// Status is the authentication state exposed to the rest of the UI.
// Transitions happen only through Manager operations.
type Status int

const (
	StatusLoading Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// User is the denormalized projection embedded in the session. It is a
// possibly-stale copy as of token issuance and is never authoritative
// for ownership decisions; the server always re-checks against its own
// records.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Image string `json:"image,omitempty"`
}

// Session is the client-held composite of tokens, expiry, and the user
// projection. Expires gates whether a refresh is attempted; it is
// independent of the access token's own shorter expiry.
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Expires      time.Time `json:"expires"`
}

// Expired reports whether the session's expiry timestamp is in the past.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expires.After(now)
}
