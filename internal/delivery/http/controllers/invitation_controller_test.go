package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/delivery/http/helpers"
	"coffeemeet/internal/delivery/http/middleware"
	"coffeemeet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	proposeErr    error
	getErr        error
	listErr       error
	view          *domain.InvitationView
	page          *domain.InvitationPage
	lastProposer  string
	lastPropose   domain.ProposeRequest
	lastGetToken  string
	lastListOwner string
	lastListPage  domain.PaginationParams
}

func (f *fakeInvitationService) Propose(_ context.Context, proposer string, req domain.ProposeRequest) (*domain.Invitation, error) {
	f.lastProposer = proposer
	f.lastPropose = req
	if f.proposeErr != nil {
		return nil, f.proposeErr
	}
	return &domain.Invitation{
		Token:            "tok-new",
		ProposerContact:  proposer,
		ResponderContact: req.ResponderContact,
		VenueID:          req.VenueID,
		OfferedOptions:   req.Options,
		Status:           domain.InvitationStatusPending,
	}, nil
}

func (f *fakeInvitationService) Get(_ context.Context, token string) (*domain.InvitationView, error) {
	f.lastGetToken = token
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.view, nil
}

func (f *fakeInvitationService) ListMine(_ context.Context, proposer string, page domain.PaginationParams) (*domain.InvitationPage, error) {
	f.lastListOwner = proposer
	f.lastListPage = page
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.page, nil
}

// fakeConfirmationService implements domain.ConfirmationService for handler tests.
type fakeConfirmationService struct {
	result      *domain.ConfirmResult
	err         error
	lastRequest domain.ConfirmRequest
}

func (f *fakeConfirmationService) Confirm(_ context.Context, req domain.ConfirmRequest) (*domain.ConfirmResult, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeConfirmationService) ResendConfirmation(_ context.Context, _ string) error { return nil }

func withPrincipal(r *http.Request, email string) *http.Request {
	return r.WithContext(middleware.SetPrincipal(r.Context(), &domain.Principal{UserID: "u-1", Email: email}))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

func TestInvitationController_Propose(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		principal  string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			body:       `{"venue_id":"v-1","responder_contact":"sam@example.com","options":[{"date":"2026-10-20","slot":"morning"},{"date":"2026-10-21","slot":"evening"}]}`,
			principal:  "pat@example.com",
			wantStatus: http.StatusCreated,
		},
		{
			name:       "no principal",
			body:       `{"venue_id":"v-1","options":[{"date":"2026-10-20","slot":"morning"}]}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "no options",
			body:       `{"venue_id":"v-1","options":[]}`,
			principal:  "pat@example.com",
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidation,
		},
		{
			name:       "bad slot name",
			body:       `{"venue_id":"v-1","options":[{"date":"2026-10-20","slot":"noon"}]}`,
			principal:  "pat@example.com",
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidation,
		},
		{
			name:       "bad date",
			body:       `{"venue_id":"v-1","options":[{"date":"20/10/2026","slot":"morning"}]}`,
			principal:  "pat@example.com",
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidation,
		},
		{
			name:       "malformed json",
			body:       `{"venue_id":`,
			principal:  "pat@example.com",
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "venue missing",
			body:       `{"venue_id":"v-9","options":[{"date":"2026-10-20","slot":"morning"}]}`,
			principal:  "pat@example.com",
			serviceErr: domain.DataIntegrityError("venue not found"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(domain.KindDataIntegrity),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeInvitationService{proposeErr: tt.serviceErr}
			ctrl := NewInvitationController(testLogger, svc, &fakeConfirmationService{})

			req := httptest.NewRequest(http.MethodPost, "/invitations", strings.NewReader(tt.body))
			if tt.principal != "" {
				req = withPrincipal(req, tt.principal)
			}
			rr := httptest.NewRecorder()
			ctrl.Propose(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var inv domain.Invitation
			apiErr := decodeEnvelope(t, rr, &inv)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "tok-new", inv.Token)
			assert.Equal(t, "pat@example.com", svc.lastProposer)
			assert.Equal(t, "v-1", svc.lastPropose.VenueID)
			require.Len(t, svc.lastPropose.Options, 2)
			assert.Equal(t, calendar.SlotEvening, svc.lastPropose.Options[1].Slot)
			assert.Equal(t, "2026-10-21", calendar.FormatDate(svc.lastPropose.Options[1].Date))
		})
	}
}

func TestInvitationController_ListMine(t *testing.T) {
	svc := &fakeInvitationService{page: &domain.InvitationPage{
		Items:    []*domain.Invitation{{Token: "a"}, {Token: "b"}},
		Total:    7,
		Page:     2,
		PageSize: 2,
	}}
	ctrl := NewInvitationController(testLogger, svc, &fakeConfirmationService{})

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/invitations?page=2&page_size=2", nil), "pat@example.com")
	rr := httptest.NewRecorder()
	ctrl.ListMine(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var list helpers.ListResponse[domain.Invitation]
	require.Nil(t, decodeEnvelope(t, rr, &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, 7, list.Pagination.Total)
	assert.Equal(t, "pat@example.com", svc.lastListOwner)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, svc.lastListPage)
}

func TestInvitationController_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeInvitationService{view: &domain.InvitationView{
			Invitation: &domain.Invitation{Token: "tok-1", Status: domain.InvitationStatusPending},
			Venue:      &domain.Venue{ID: "v-1", Name: "Bean There"},
			Expired:    true,
		}}
		ctrl := NewInvitationController(testLogger, svc, &fakeConfirmationService{})

		req := httptest.NewRequest(http.MethodGet, "/invitations/tok-1", nil)
		req.SetPathValue("token", "tok-1")
		rr := httptest.NewRecorder()
		ctrl.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var view struct {
			Invitation struct {
				Token string `json:"token"`
			} `json:"invitation"`
			Expired bool `json:"expired"`
		}
		require.Nil(t, decodeEnvelope(t, rr, &view))
		assert.Equal(t, "tok-1", view.Invitation.Token)
		assert.True(t, view.Expired)
		assert.Equal(t, "tok-1", svc.lastGetToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := &fakeInvitationService{getErr: domain.NotFoundError("invitation not found")}
		ctrl := NewInvitationController(testLogger, svc, &fakeConfirmationService{})

		req := httptest.NewRequest(http.MethodGet, "/invitations/nope", nil)
		req.SetPathValue("token", "nope")
		rr := httptest.NewRecorder()
		ctrl.Get(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		apiErr := decodeEnvelope(t, rr, nil)
		require.NotNil(t, apiErr)
		assert.Equal(t, "not_found", apiErr.Code)
	})
}

func TestInvitationController_Confirm(t *testing.T) {
	start := time.Date(2026, 10, 20, 7, 0, 0, 0, time.UTC)
	accepted := &domain.ConfirmResult{
		Invitation: &domain.Invitation{
			Token:        "tok-1",
			Status:       domain.InvitationStatusAccepted,
			SelectedDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
			SelectedSlot: calendar.SlotMorning,
		},
		Venue:              &domain.Venue{ID: "v-1", Name: "Bean There", Address: "1 Main St"},
		Start:              start,
		End:                start.Add(5 * time.Hour),
		CalendarArtifact:   []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		NotificationStatus: domain.NotificationSent,
	}
	validBody := `{"responder_contact":"sam@example.com","selected_date":"2026-10-20","selected_slot":"morning"}`

	tests := []struct {
		name       string
		body       string
		result     *domain.ConfirmResult
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "accepted", body: validBody, result: accepted, wantStatus: http.StatusOK},
		{
			name:       "accepted with failed notification",
			body:       validBody,
			result:     withNotification(accepted, domain.NotificationRetryScheduled),
			wantStatus: http.StatusOK,
		},
		{
			name:       "already responded",
			body:       validBody,
			serviceErr: domain.ConflictError("invitation already responded"),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "identity mismatch",
			body:       validBody,
			serviceErr: domain.ValidationError("identity mismatch"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
		{
			name:       "unknown token",
			body:       validBody,
			serviceErr: domain.NotFoundError("invitation not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "store down",
			body:       validBody,
			serviceErr: domain.DependencyError("load invitation", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
			wantCode:   "dependency_error",
		},
		{
			name:       "missing slot",
			body:       `{"responder_contact":"sam@example.com","selected_date":"2026-10-20"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmations := &fakeConfirmationService{result: tt.result, err: tt.serviceErr}
			ctrl := NewInvitationController(testLogger, &fakeInvitationService{}, confirmations)

			req := httptest.NewRequest(http.MethodPost, "/invitations/tok-1/confirm", strings.NewReader(tt.body))
			req.SetPathValue("token", "tok-1")
			rr := httptest.NewRecorder()
			ctrl.Confirm(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var got ConfirmInvitationResponse
			apiErr := decodeEnvelope(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, "tok-1", confirmations.lastRequest.Token)
			assert.Equal(t, "sam@example.com", confirmations.lastRequest.ResponderContact)
			assert.Equal(t, domain.InvitationStatusAccepted, got.Status)
			assert.Equal(t, "Bean There", got.VenueName)
			assert.Equal(t, "1 Main St", got.VenueAddress)
			assert.Equal(t, "2026-10-20", got.SelectedDate)
			assert.Equal(t, calendar.SlotMorning, got.SelectedSlot)
			assert.True(t, got.StartsAt.Equal(start))
			assert.Contains(t, got.CalendarArtifact, "BEGIN:VCALENDAR")
			assert.Equal(t, tt.result.NotificationStatus, got.NotificationStatus)
		})
	}
}

func withNotification(res *domain.ConfirmResult, status domain.NotificationStatus) *domain.ConfirmResult {
	cp := *res
	cp.NotificationStatus = status
	cp.NotificationError = errors.New("smtp timeout")
	return &cp
}
