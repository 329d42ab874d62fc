package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coffeemeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{domain.NotFoundError("invitation not found"), http.StatusNotFound, "not_found", "invitation not found"},
		{domain.ValidationError("identity mismatch"), http.StatusBadRequest, "validation_error", "identity mismatch"},
		{domain.ConflictError("invitation already responded"), http.StatusConflict, "conflict", "invitation already responded"},
		{domain.DataIntegrityError("invitation has no venue"), http.StatusInternalServerError, "data_integrity_error", "invitation has no venue"},
		{domain.DependencyError("load invitation", errors.New("pq: password authentication failed")), http.StatusBadGateway, "dependency_error", "load invitation"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteDomainError(rr, nil, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			var resp APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Slot  string `json:"slot" validate:"required,oneof=morning afternoon evening"`
}

func (r *sampleRequest) Validate() []string { return ValidateStruct(r) }

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode string
		wantMsg  string
	}{
		{"valid", `{"email":"a@b.co","slot":"morning"}`, true, "", ""},
		{"malformed json", `{"email":`, false, ErrCodeBadRequest, ""},
		{"unknown field", `{"email":"a@b.co","slot":"morning","extra":1}`, false, ErrCodeBadRequest, ""},
		{"bad email", `{"email":"nope","slot":"morning"}`, false, ErrCodeValidation, "email must be a valid email"},
		{"bad slot", `{"email":"a@b.co","slot":"noon"}`, false, ErrCodeValidation, "slot must be one of morning, afternoon, evening"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest sampleRequest

			ok := DecodeAndValidate(rr, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var resp APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/invitations?page=3&page_size=500", nil)
	p := ParsePagination(req)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)

	req = httptest.NewRequest(http.MethodGet, "/invitations?page=-1&page_size=x", nil)
	p = ParsePagination(req)
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse[string](nil, 2, 10, 25)
	assert.NotNil(t, resp.Items)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}
