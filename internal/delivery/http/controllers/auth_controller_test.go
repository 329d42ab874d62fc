package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coffeemeet/internal/delivery/http/helpers"
	"coffeemeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoginService implements domain.LoginService for handler tests.
type fakeLoginService struct {
	requestErr error
	verifyErr  error
	lastEmail  string
	lastCode   string
}

func (f *fakeLoginService) RequestLoginCode(_ context.Context, email string) error {
	f.lastEmail = email
	return f.requestErr
}

func (f *fakeLoginService) VerifyLoginCode(_ context.Context, email, code string) (*domain.LoginResult, error) {
	f.lastEmail, f.lastCode = email, code
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &domain.LoginResult{Token: "jwt", Email: email}, nil
}

func TestAuthController_RequestLoginCode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "sent", body: `{"email":"pat@example.com"}`, wantStatus: http.StatusAccepted},
		{name: "invalid email", body: `{"email":"pat"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeValidation},
		{
			name:       "mail down",
			body:       `{"email":"pat@example.com"}`,
			serviceErr: domain.DependencyError("send login code", errors.New("throttled")),
			wantStatus: http.StatusBadGateway,
			wantCode:   "dependency_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLoginService{requestErr: tt.serviceErr}
			ctrl := NewAuthController(testLogger, svc)

			rr := httptest.NewRecorder()
			ctrl.RequestLoginCode(rr, httptest.NewRequest(http.MethodPost, "/auth/login-code", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			apiErr := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			assert.Nil(t, apiErr)
			assert.Equal(t, "pat@example.com", svc.lastEmail)
		})
	}
}

func TestAuthController_VerifyLoginCode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "token issued", body: `{"email":"pat@example.com","code":"123456"}`, wantStatus: http.StatusOK},
		{name: "short code", body: `{"email":"pat@example.com","code":"123"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeValidation},
		{
			name:       "wrong code",
			body:       `{"email":"pat@example.com","code":"654321"}`,
			serviceErr: domain.ValidationError("invalid or expired code"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLoginService{verifyErr: tt.serviceErr}
			ctrl := NewAuthController(testLogger, svc)

			rr := httptest.NewRecorder()
			ctrl.VerifyLoginCode(rr, httptest.NewRequest(http.MethodPost, "/auth/verify", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			var got LoginResponse
			apiErr := decodeEnvelope(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "jwt", got.Token)
			assert.Equal(t, "Bearer", got.TokenType)
			assert.Equal(t, "123456", svc.lastCode)
		})
	}
}
