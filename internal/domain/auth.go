package domain

// Principal is the authenticated proposer behind a bearer token.
type Principal struct {
	UserID string
	Email  string
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}
