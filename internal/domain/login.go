package domain

import (
	"context"
	"time"
)

// LoginCodeRepository stores hashed one-time sign-in codes.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	// Consume deletes a matching unexpired code; consumed is false if none matched.
	Consume(ctx context.Context, email, codeHash string, now time.Time) (consumed bool, err error)
}

// TokenIssuer issues bearer tokens for a signed-in proposer.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// LoginCodeEmailData is the template data for the sign-in code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// LoginCodeMailer sends sign-in codes.
type LoginCodeMailer interface {
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
}

// LoginResult is a freshly issued bearer token.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// LoginService is the passwordless proposer sign-in: a code is mailed to the
// address and exchanged for a token whose email claim identifies the proposer.
type LoginService interface {
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (*LoginResult, error)
}
