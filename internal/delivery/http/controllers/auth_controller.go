package controllers

import (
	"log/slog"
	"net/http"

	h "coffeemeet/internal/delivery/http/helpers"
	"coffeemeet/internal/domain"
)

// RequestLoginCodeRequest is the request body for POST /auth/login-code
type RequestLoginCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate implements Validator.
func (r *RequestLoginCodeRequest) Validate() []string {
	return h.ValidateStruct(r)
}

// VerifyLoginCodeRequest is the request body for POST /auth/verify
type VerifyLoginCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Validate implements Validator.
func (r *VerifyLoginCodeRequest) Validate() []string {
	return h.ValidateStruct(r)
}

// LoginResponse is the response body for POST /auth/verify
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Email     string `json:"email"`
}

// LoginSuccessResponse is the success response envelope for POST /auth/verify (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.LoginService
}

func NewAuthController(logger *slog.Logger, svc domain.LoginService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestLoginCode godoc
// @Summary Request a sign-in code
// @Description Emails a 6-digit one-time code to the address. The code expires after 15 minutes.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RequestLoginCodeRequest true "Proposer email"
// @Success 202 {object} helpers.APIResponse "data.status: sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 502 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /auth/login-code [post]
func (c *AuthController) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginCodeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestLoginCode(r.Context(), req.Email); err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// VerifyLoginCode godoc
// @Summary Exchange a sign-in code for a token
// @Description Consumes the code and returns a JWT whose email claim identifies the proposer.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyLoginCodeRequest true "Email and code"
// @Success 200 {object} controllers.LoginSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 502 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /auth/verify [post]
func (c *AuthController) VerifyLoginCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyLoginCodeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: res.Token, TokenType: "Bearer", Email: res.Email})
}
