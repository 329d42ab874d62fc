package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	tokenAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	tokenLength     = 32
	tokenAttempts   = 3
	maxOptions      = 5
	defaultPageSize = 20
	maxPageSize     = 100
)

type invitationService struct {
	invitations    domain.InvitationRepository
	venues         domain.VenueRepository
	cal            *calendar.Calendar
	validate       *validator.Validate
	contextTimeout time.Duration
	now            func() time.Time
	newToken       func() (string, error)
}

func NewInvitationService(invitations domain.InvitationRepository, venues domain.VenueRepository, cal *calendar.Calendar, timeout time.Duration) domain.InvitationService {
	return &invitationService{
		invitations:    invitations,
		venues:         venues,
		cal:            cal,
		validate:       validator.New(),
		contextTimeout: timeout,
		now:            time.Now,
		newToken:       generateToken,
	}
}

func generateToken() (string, error) {
	return gonanoid.Generate(tokenAlphabet, tokenLength)
}

func (s *invitationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *invitationService) Propose(ctx context.Context, proposerContact string, req domain.ProposeRequest) (*domain.Invitation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	proposer := strings.ToLower(strings.TrimSpace(proposerContact))
	if err := s.validate.Var(proposer, "required,email"); err != nil {
		return nil, domain.ValidationError("proposer must have a valid email")
	}
	responder := strings.ToLower(strings.TrimSpace(req.ResponderContact))
	if responder != "" {
		if err := s.validate.Var(responder, "email"); err != nil {
			return nil, domain.ValidationError("responder_contact must be a valid email")
		}
		if responder == proposer {
			return nil, domain.ValidationError("responder_contact must differ from the proposer")
		}
	}
	if strings.TrimSpace(req.VenueID) == "" {
		return nil, domain.ValidationError("venue_id is required")
	}
	now := s.now()
	options, err := s.checkOptions(req.Options, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.venues.GetByID(ctx, req.VenueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.DataIntegrityError("venue does not exist")
		}
		return nil, err
	}

	inv := &domain.Invitation{
		ProposerContact:  proposer,
		ResponderContact: responder,
		VenueID:          req.VenueID,
		OfferedOptions:   options,
		Status:           domain.InvitationStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for attempt := 1; ; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, domain.DependencyError("generate token", err)
		}
		inv.ID = ""
		inv.Token = token
		err = s.invitations.Create(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt == tokenAttempts {
			return nil, err
		}
	}
}

func (s *invitationService) checkOptions(opts []domain.SlotOption, now time.Time) (domain.SlotOptions, error) {
	if len(opts) == 0 || len(opts) > maxOptions {
		return nil, domain.ValidationError(fmt.Sprintf("between 1 and %d options are required", maxOptions))
	}
	seen := make(map[string]struct{}, len(opts))
	out := make(domain.SlotOptions, 0, len(opts))
	for i, o := range opts {
		if o.Date.IsZero() {
			return nil, domain.ValidationError(fmt.Sprintf("options[%d].date is required", i))
		}
		if !o.Slot.Valid() {
			return nil, domain.ValidationError(fmt.Sprintf("options[%d].slot must be one of morning, afternoon, evening", i))
		}
		start, _, err := s.cal.ResolveSlot(o.Date, o.Slot)
		if err != nil {
			return nil, domain.ValidationError(err.Error())
		}
		if !start.After(now) {
			return nil, domain.ValidationError(fmt.Sprintf("options[%d] is in the past", i))
		}
		key := calendar.FormatDate(o.Date) + "/" + string(o.Slot)
		if _, dup := seen[key]; dup {
			return nil, domain.ValidationError(fmt.Sprintf("options[%d] is a duplicate", i))
		}
		seen[key] = struct{}{}
		out = append(out, o)
	}
	return out, nil
}

func (s *invitationService) Get(ctx context.Context, token string) (*domain.InvitationView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if strings.TrimSpace(token) == "" {
		return nil, domain.ValidationError("token is required")
	}
	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	view := &domain.InvitationView{
		Invitation: inv,
		Expired:    inv.Expired(s.cal, s.now()),
	}
	if inv.VenueID != "" {
		venue, err := s.venues.GetByID(ctx, inv.VenueID)
		switch {
		case err == nil:
			view.Venue = venue
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return view, nil
}

func (s *invitationService) ListMine(ctx context.Context, proposerContact string, page domain.PaginationParams) (*domain.InvitationPage, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	proposer := strings.ToLower(strings.TrimSpace(proposerContact))
	if proposer == "" {
		return nil, domain.ValidationError("proposer is required")
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = defaultPageSize
	}
	if page.PageSize > maxPageSize {
		page.PageSize = maxPageSize
	}
	items, total, err := s.invitations.ListByProposer(ctx, proposer, page)
	if err != nil {
		return nil, err
	}
	return &domain.InvitationPage{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}
