package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
	"coffeemeet/internal/metrics"

	"github.com/go-playground/validator/v10"
)

type confirmationService struct {
	invitations domain.InvitationRepository
	venues      domain.VenueRepository
	email       domain.EmailService
	retries     domain.NotificationRetryQueue
	cal         *calendar.Calendar
	metrics     *metrics.Confirmations
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
}

// NewConfirmationService wires the responder confirmation flow. retries and
// m may be nil.
func NewConfirmationService(
	invitations domain.InvitationRepository,
	venues domain.VenueRepository,
	email domain.EmailService,
	retries domain.NotificationRetryQueue,
	cal *calendar.Calendar,
	m *metrics.Confirmations,
	logger *slog.Logger,
) domain.ConfirmationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &confirmationService{
		invitations: invitations,
		venues:      venues,
		email:       email,
		retries:     retries,
		cal:         cal,
		metrics:     m,
		validate:    validator.New(),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *confirmationService) Confirm(ctx context.Context, req domain.ConfirmRequest) (*domain.ConfirmResult, error) {
	res, err := s.confirm(ctx, req)
	s.observe(res, err)
	return res, err
}

func (s *confirmationService) confirm(ctx context.Context, req domain.ConfirmRequest) (*domain.ConfirmResult, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, domain.ValidationError("token is required")
	}
	responder := strings.ToLower(strings.TrimSpace(req.ResponderContact))
	if err := s.validate.Var(responder, "required,email"); err != nil {
		return nil, domain.ValidationError("responder_contact must be a valid email")
	}
	date, err := calendar.ParseDate(req.SelectedDate)
	if err != nil {
		return nil, domain.ValidationError("selected_date must be YYYY-MM-DD")
	}
	slot, err := calendar.ParseSlot(req.SelectedSlot)
	if err != nil {
		return nil, domain.ValidationError("selected_slot must be one of morning, afternoon, evening")
	}
	start, end, err := s.cal.ResolveSlot(date, slot)
	if err != nil {
		return nil, domain.ValidationError(err.Error())
	}

	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if inv.Status != domain.InvitationStatusPending {
		return nil, domain.ConflictError("invitation already responded")
	}
	if inv.Expired(s.cal, now) {
		return nil, domain.ConflictError("invitation expired")
	}
	if inv.ResponderContact != "" && !strings.EqualFold(inv.ResponderContact, responder) {
		return nil, domain.ValidationError("identity mismatch")
	}
	if !inv.Offers(date, slot) {
		return nil, domain.ValidationError("selected slot was not offered")
	}
	if !start.After(now) {
		return nil, domain.ValidationError("selected slot has already started")
	}
	if inv.VenueID == "" {
		return nil, domain.DataIntegrityError("invitation has no venue")
	}
	venue, err := s.venues.GetByID(ctx, inv.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.DataIntegrityError("invitation venue is missing")
		}
		return nil, err
	}

	updated, err := s.invitations.ConditionalUpdate(ctx, token, domain.InvitationStatusPending, domain.InvitationPatch{
		Status:           domain.InvitationStatusAccepted,
		ResponderContact: &responder,
		SelectedDate:     &date,
		SelectedSlot:     &slot,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, err
	}

	res := &domain.ConfirmResult{
		Invitation:         updated,
		Venue:              venue,
		Start:              start,
		End:                end,
		NotificationStatus: domain.NotificationSent,
	}
	// From here on the invitation is accepted; failures only degrade the
	// notification status.
	data, err := meetupEmail(s.cal, updated, venue, now)
	if err == nil {
		res.CalendarArtifact = data.CalendarArtifact
		err = s.email.SendConfirmation(ctx, data)
	}
	if err != nil {
		res.NotificationError = err
		res.NotificationStatus = s.scheduleRetry(ctx, token, err)
	}
	return res, nil
}

func (s *confirmationService) scheduleRetry(ctx context.Context, token string, cause error) domain.NotificationStatus {
	s.logger.Warn("confirmation notice failed", "token", token, "err", cause)
	if s.retries == nil {
		return domain.NotificationFailed
	}
	if err := s.retries.EnqueueConfirmationNotice(ctx, token); err != nil {
		s.logger.Error("enqueue confirmation notice retry", "token", token, "err", err)
		return domain.NotificationFailed
	}
	return domain.NotificationRetryScheduled
}

func (s *confirmationService) observe(res *domain.ConfirmResult, err error) {
	if s.metrics == nil {
		return
	}
	outcome := string(domain.KindOf(err))
	if err == nil {
		outcome = "accepted_" + string(res.NotificationStatus)
	}
	s.metrics.Outcomes.WithLabelValues(outcome).Inc()
}

// ResendConfirmation re-sends the confirmation notice of an accepted
// invitation. It never changes invitation state.
func (s *confirmationService) ResendConfirmation(ctx context.Context, token string) error {
	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if inv.Status != domain.InvitationStatusAccepted {
		return domain.ConflictError("invitation is not accepted")
	}
	if !inv.HasSchedule() {
		return domain.DataIntegrityError("accepted invitation has no schedule")
	}
	venue, err := s.venues.GetByID(ctx, inv.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DataIntegrityError("invitation venue is missing")
		}
		return err
	}
	data, err := meetupEmail(s.cal, inv, venue, s.now())
	if err != nil {
		return domain.DataIntegrityError(err.Error())
	}
	if err := s.email.SendConfirmation(ctx, data); err != nil {
		return domain.DependencyError("send confirmation", err)
	}
	return nil
}
