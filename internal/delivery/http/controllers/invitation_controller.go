package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/delivery/http/helpers"
	"coffeemeet/internal/delivery/http/middleware"
	"coffeemeet/internal/domain"
)

// SlotOptionRequest is one offered date/slot pair.
type SlotOptionRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot string `json:"slot" validate:"required,oneof=morning afternoon evening"`
}

// ProposeInvitationRequest is the request body for POST /invitations.
type ProposeInvitationRequest struct {
	VenueID          string              `json:"venue_id" validate:"required"`
	ResponderContact string              `json:"responder_contact" validate:"omitempty,email"`
	Options          []SlotOptionRequest `json:"options" validate:"required,min=1,max=5,dive"`
}

// Validate implements helpers.Validator.
func (p *ProposeInvitationRequest) Validate() []string {
	return helpers.ValidateStruct(p)
}

func (p *ProposeInvitationRequest) toDomain() (domain.ProposeRequest, error) {
	req := domain.ProposeRequest{
		VenueID:          strings.TrimSpace(p.VenueID),
		ResponderContact: p.ResponderContact,
		Options:          make([]domain.SlotOption, 0, len(p.Options)),
	}
	for _, o := range p.Options {
		d, err := calendar.ParseDate(o.Date)
		if err != nil {
			return domain.ProposeRequest{}, domain.ValidationError("options date must be YYYY-MM-DD")
		}
		req.Options = append(req.Options, domain.SlotOption{Date: d, Slot: calendar.Slot(o.Slot)})
	}
	return req, nil
}

// ConfirmInvitationRequest is the request body for POST /invitations/{token}/confirm.
type ConfirmInvitationRequest struct {
	ResponderContact string `json:"responder_contact" validate:"required,email"`
	SelectedDate     string `json:"selected_date" validate:"required,datetime=2006-01-02"`
	SelectedSlot     string `json:"selected_slot" validate:"required,oneof=morning afternoon evening"`
}

// Validate implements helpers.Validator.
func (c *ConfirmInvitationRequest) Validate() []string {
	return helpers.ValidateStruct(c)
}

// ConfirmInvitationResponse is the data payload of a successful confirmation.
// calendar_artifact is the iCalendar document as text.
type ConfirmInvitationResponse struct {
	Status             domain.InvitationStatus   `json:"status"`
	VenueName          string                    `json:"venue_name"`
	VenueAddress       string                    `json:"venue_address"`
	SelectedDate       string                    `json:"selected_date"`
	SelectedSlot       calendar.Slot             `json:"selected_slot"`
	StartsAt           time.Time                 `json:"starts_at"`
	EndsAt             time.Time                 `json:"ends_at"`
	CalendarArtifact   string                    `json:"calendar_artifact"`
	NotificationStatus domain.NotificationStatus `json:"notification_status"`
}

// ConfirmInvitationSuccessResponse is the success envelope for POST /invitations/{token}/confirm (200).
type ConfirmInvitationSuccessResponse struct {
	Data  ConfirmInvitationResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// InvitationSuccessResponse is the success envelope for POST /invitations (201).
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// InvitationViewSuccessResponse is the success envelope for GET /invitations/{token} (200).
type InvitationViewSuccessResponse struct {
	Data  *domain.InvitationView `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// InvitationListSuccessResponse is the success envelope for GET /invitations (200).
type InvitationListSuccessResponse struct {
	Data  helpers.ListResponse[*domain.Invitation] `json:"data"`
	Error *helpers.APIError                        `json:"error"`
}

type InvitationController struct {
	Logger        *slog.Logger
	Invitations   domain.InvitationService
	Confirmations domain.ConfirmationService
}

func NewInvitationController(logger *slog.Logger, invitations domain.InvitationService, confirmations domain.ConfirmationService) *InvitationController {
	return &InvitationController{
		Logger:        logger,
		Invitations:   invitations,
		Confirmations: confirmations,
	}
}

// Propose godoc
// @Summary Propose a coffee meetup
// @Description Creates a pending invitation for a venue with 1 to 5 offered date/slot options. The authenticated user is the proposer. The returned token is the responder's link.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitation body ProposeInvitationRequest true "Venue and offered options"
// @Success 201 {object} controllers.InvitationSuccessResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: data_integrity_error"
// @Failure 502 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /invitations [post]
func (c *InvitationController) Propose(w http.ResponseWriter, r *http.Request) {
	var req ProposeInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	in, err := req.toDomain()
	if err != nil {
		helpers.WriteDomainError(w, c.Logger, err)
		return
	}
	inv, err := c.Invitations.Propose(r.Context(), principal.Email, in)
	if err != nil {
		helpers.WriteDomainError(w, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// ListMine godoc
// @Summary List my invitations
// @Description Returns the authenticated proposer's invitations, newest first.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Success 200 {object} controllers.InvitationListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 502 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /invitations [get]
func (c *InvitationController) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	page, err := c.Invitations.ListMine(r.Context(), principal.Email, helpers.ParsePagination(r))
	if err != nil {
		helpers.WriteDomainError(w, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewListResponse(page.Items, page.Page, page.PageSize, page.Total))
}

// Get godoc
// @Summary Get an invitation by token
// @Description Responder-facing view of an invitation with venue details and the derived expired flag.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} controllers.InvitationViewSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /invitations/{token} [get]
func (c *InvitationController) Get(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	view, err := c.Invitations.Get(r.Context(), token)
	if err != nil {
		helpers.WriteDomainError(w, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Confirm godoc
// @Summary Confirm an invitation
// @Description Accepts a pending invitation for one offered date/slot. Exactly one concurrent caller succeeds. The confirmation email is best effort: notification_status is sent, retry_scheduled or failed, and the invitation stays accepted either way.
// @Tags invitations
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param confirmation body ConfirmInvitationRequest true "Responder identity and chosen slot"
// @Success 200 {object} controllers.ConfirmInvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: data_integrity_error"
// @Failure 502 {object} helpers.APIResponse "error.code: dependency_error"
// @Router /invitations/{token}/confirm [post]
func (c *InvitationController) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	var req ConfirmInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Confirmations.Confirm(r.Context(), domain.ConfirmRequest{
		Token:            token,
		ResponderContact: req.ResponderContact,
		SelectedDate:     req.SelectedDate,
		SelectedSlot:     req.SelectedSlot,
	})
	if err != nil {
		helpers.WriteDomainError(w, c.Logger, err)
		return
	}
	if res.NotificationError != nil {
		c.Logger.WarnContext(r.Context(), "invitation confirmed without notification",
			"notification_status", res.NotificationStatus, "err", res.NotificationError)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConfirmInvitationResponse{
		Status:             res.Invitation.Status,
		VenueName:          res.Venue.Name,
		VenueAddress:       res.Venue.Address,
		SelectedDate:       calendar.FormatDate(res.Invitation.SelectedDate),
		SelectedSlot:       res.Invitation.SelectedSlot,
		StartsAt:           res.Start,
		EndsAt:             res.End,
		CalendarArtifact:   string(res.CalendarArtifact),
		NotificationStatus: res.NotificationStatus,
	})
}
