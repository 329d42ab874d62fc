package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coffeemeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedCode struct {
	email     string
	hash      string
	expiresAt time.Time
}

type fakeLoginCodes struct {
	mu        sync.Mutex
	codes     []storedCode
	createErr error
}

func (f *fakeLoginCodes) Create(_ context.Context, email, codeHash string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, storedCode{email: email, hash: codeHash, expiresAt: expiresAt})
	return nil
}

func (f *fakeLoginCodes) Consume(_ context.Context, email, codeHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.codes {
		if c.email == email && c.hash == codeHash && c.expiresAt.After(now) {
			f.codes = append(f.codes[:i], f.codes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "jwt-for-" + email, nil
}

type fakeLoginMailer struct {
	last *domain.LoginCodeEmailData
	err  error
}

func (f *fakeLoginMailer) SendLoginCode(_ context.Context, data *domain.LoginCodeEmailData) error {
	f.last = data
	return f.err
}

func newTestLoginService(codes *fakeLoginCodes, mailer *fakeLoginMailer, now time.Time) *loginService {
	svc := NewLoginService(codes, fakeIssuer{}, mailer, quietLogger).(*loginService)
	svc.now = fixedClock(now)
	return svc
}

func TestLoginService_RoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	codes := &fakeLoginCodes{}
	mailer := &fakeLoginMailer{}
	svc := newTestLoginService(codes, mailer, now)

	require.NoError(t, svc.RequestLoginCode(context.Background(), " Pat@Example.com "))
	require.NotNil(t, mailer.last)
	assert.Equal(t, "pat@example.com", mailer.last.Email)
	assert.Len(t, mailer.last.Code, 6)
	assert.Equal(t, 15, mailer.last.ExpiresInMinutes)
	require.Len(t, codes.codes, 1)
	assert.NotEqual(t, mailer.last.Code, codes.codes[0].hash)
	assert.Equal(t, now.Add(15*time.Minute), codes.codes[0].expiresAt)

	res, err := svc.VerifyLoginCode(context.Background(), "pat@example.com", mailer.last.Code)
	require.NoError(t, err)
	assert.Equal(t, "jwt-for-pat@example.com", res.Token)
	assert.Equal(t, "pat@example.com", res.Email)

	_, err = svc.VerifyLoginCode(context.Background(), "pat@example.com", mailer.last.Code)
	assert.ErrorIs(t, err, domain.ErrValidation, "a code is single use")
}

func TestLoginService_VerifyRejects(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	codes := &fakeLoginCodes{}
	mailer := &fakeLoginMailer{}
	svc := newTestLoginService(codes, mailer, now)
	require.NoError(t, svc.RequestLoginCode(context.Background(), "pat@example.com"))
	code := mailer.last.Code

	tests := []struct {
		name  string
		email string
		code  string
		at    time.Time
	}{
		{name: "bad email", email: "pat", code: code, at: now},
		{name: "malformed code", email: "pat@example.com", code: "12ab", at: now},
		{name: "other address", email: "sam@example.com", code: code, at: now},
		{name: "expired", email: "pat@example.com", code: code, at: now.Add(16 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.now = fixedClock(tt.at)
			_, err := svc.VerifyLoginCode(context.Background(), tt.email, tt.code)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLoginService_RequestErrors(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	svc := newTestLoginService(&fakeLoginCodes{}, &fakeLoginMailer{}, now)
	assert.ErrorIs(t, svc.RequestLoginCode(context.Background(), "not-an-email"), domain.ErrValidation)

	svc = newTestLoginService(&fakeLoginCodes{createErr: domain.DependencyError("store login code", errors.New("down"))}, &fakeLoginMailer{}, now)
	assert.ErrorIs(t, svc.RequestLoginCode(context.Background(), "pat@example.com"), domain.ErrDependency)

	svc = newTestLoginService(&fakeLoginCodes{}, &fakeLoginMailer{err: errors.New("throttled")}, now)
	assert.ErrorIs(t, svc.RequestLoginCode(context.Background(), "pat@example.com"), domain.ErrDependency)
}

func TestGenerateLoginCode(t *testing.T) {
	code, err := generateLoginCode(6)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)
	assert.Equal(t, hashLoginCode(code), hashLoginCode(code))
	assert.Len(t, hashLoginCode(code), 64)
}
