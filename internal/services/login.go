package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"coffeemeet/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	loginCodeDigits = 6
	loginCodeExpiry = 15 * time.Minute
)

var loginCodeRegex = regexp.MustCompile(`^\d{6}$`)

type loginService struct {
	codes    domain.LoginCodeRepository
	issuer   domain.TokenIssuer
	mailer   domain.LoginCodeMailer
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewLoginService creates a LoginService backed by codes, issuer and mailer.
func NewLoginService(codes domain.LoginCodeRepository, issuer domain.TokenIssuer, mailer domain.LoginCodeMailer, logger *slog.Logger) domain.LoginService {
	if logger == nil {
		logger = slog.Default()
	}
	return &loginService{
		codes:    codes,
		issuer:   issuer,
		mailer:   mailer,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *loginService) normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", domain.ValidationError("invalid email format")
	}
	return email, nil
}

func (s *loginService) RequestLoginCode(ctx context.Context, email string) error {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return domain.DependencyError("generate login code", err)
	}
	if err := s.codes.Create(ctx, email, hashLoginCode(code), s.now().Add(loginCodeExpiry)); err != nil {
		return err
	}
	data := &domain.LoginCodeEmailData{
		Email:            email,
		Code:             code,
		ExpiresInMinutes: int(loginCodeExpiry / time.Minute),
	}
	if err := s.mailer.SendLoginCode(ctx, data); err != nil {
		return domain.DependencyError("send login code", err)
	}
	return nil
}

func (s *loginService) VerifyLoginCode(ctx context.Context, email, code string) (*domain.LoginResult, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return nil, domain.ValidationError("invalid or expired code")
	}
	consumed, err := s.codes.Consume(ctx, email, hashLoginCode(code), s.now())
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, domain.ValidationError("invalid or expired code")
	}
	token, err := s.issuer.Issue(email, email)
	if err != nil {
		return nil, domain.DependencyError("sign token", err)
	}
	s.logger.Info("proposer signed in", "email", email)
	return &domain.LoginResult{Token: token, Email: email}, nil
}

func generateLoginCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
