package domain

import "time"

// TokenClassRefresh marks a refresh-class token. Access tokens carry no
// class discriminator; refresh tokens must carry this one so that an
// access token can never be replayed against the refresh endpoint.
const TokenClassRefresh = "refresh"

// Projection is the denormalized user view embedded in auth responses
// and in the client-held session. It never carries the password hash.
type Projection struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Image string `json:"image,omitempty"`
}

// TokenPair is a freshly minted access/refresh token set.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
