package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func cloneInvitation(inv *domain.Invitation) *domain.Invitation {
	c := *inv
	c.OfferedOptions = append(domain.SlotOptions(nil), inv.OfferedOptions...)
	if inv.RemindedAt24h != nil {
		t := *inv.RemindedAt24h
		c.RemindedAt24h = &t
	}
	if inv.RemindedAt1h != nil {
		t := *inv.RemindedAt1h
		c.RemindedAt1h = &t
	}
	return &c
}

// fakeInvitationRepo is an in-memory InvitationRepository. Its conditional
// operations are atomic under mu, like the SQL they stand in for.
type fakeInvitationRepo struct {
	mu        sync.Mutex
	byToken   map[string]*domain.Invitation
	cal       *calendar.Calendar
	scanErr   error
	findErr   error
	createErr []error
	updates   int
	flagSets  int
	// beforeFlag runs under mu ahead of the flag check, standing in for a
	// concurrent writer.
	beforeFlag func(inv *domain.Invitation, tier domain.ReminderTier)
}

func newFakeInvitationRepo(invs ...*domain.Invitation) *fakeInvitationRepo {
	f := &fakeInvitationRepo{byToken: map[string]*domain.Invitation{}, cal: calendar.New(time.UTC)}
	for _, inv := range invs {
		f.byToken[inv.Token] = cloneInvitation(inv)
	}
	return f
}

func (f *fakeInvitationRepo) stored(token string) *domain.Invitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv, ok := f.byToken[token]; ok {
		return cloneInvitation(inv)
	}
	return nil
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := f.byToken[inv.Token]; ok {
		return domain.ConflictError("invitation token already exists")
	}
	inv.ID = "id-" + inv.Token
	f.byToken[inv.Token] = cloneInvitation(inv)
	return nil
}

func (f *fakeInvitationRepo) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if inv := f.stored(token); inv != nil {
		return inv, nil
	}
	return nil, domain.NotFoundError("invitation not found")
}

func (f *fakeInvitationRepo) ListByProposer(ctx context.Context, proposer string, page domain.PaginationParams) ([]*domain.Invitation, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*domain.Invitation
	for _, inv := range f.byToken {
		if inv.ProposerContact == proposer {
			all = append(all, cloneInvitation(inv))
		}
	}
	total := len(all)
	from := min(page.Offset(), total)
	to := min(from+page.PageSize, total)
	return all[from:to], total, nil
}

func (f *fakeInvitationRepo) ConditionalUpdate(ctx context.Context, token string, expected domain.InvitationStatus, patch domain.InvitationPatch) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byToken[token]
	if !ok || inv.Status != expected {
		return nil, domain.ConflictError("invitation already responded")
	}
	f.updates++
	inv.Status = patch.Status
	if patch.ResponderContact != nil {
		inv.ResponderContact = *patch.ResponderContact
	}
	if patch.SelectedDate != nil {
		inv.SelectedDate = *patch.SelectedDate
	}
	if patch.SelectedSlot != nil {
		inv.SelectedSlot = *patch.SelectedSlot
	}
	inv.UpdatedAt = patch.UpdatedAt
	return cloneInvitation(inv), nil
}

func (f *fakeInvitationRepo) SetReminderFlagIfUnset(ctx context.Context, token string, tier domain.ReminderTier, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byToken[token]
	if !ok {
		return false, nil
	}
	if f.beforeFlag != nil {
		f.beforeFlag(inv, tier)
	}
	flag := &inv.RemindedAt24h
	if tier == domain.Reminder1h {
		flag = &inv.RemindedAt1h
	}
	if *flag != nil {
		return false, nil
	}
	t := now
	*flag = &t
	f.flagSets++
	return true, nil
}

func (f *fakeInvitationRepo) ScanAccepted(ctx context.Context, now time.Time, horizon time.Duration) ([]*domain.Invitation, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Invitation
	for _, inv := range f.byToken {
		if inv.Status != domain.InvitationStatusAccepted || (inv.RemindedAt24h != nil && inv.RemindedAt1h != nil) {
			continue
		}
		start, _, err := f.cal.ResolveSlot(inv.SelectedDate, inv.SelectedSlot)
		if err != nil {
			continue
		}
		if start.After(now) && !start.After(now.Add(horizon)) {
			out = append(out, cloneInvitation(inv))
		}
	}
	return out, nil
}

type fakeVenueRepo struct {
	venues map[string]*domain.Venue
	errFor map[string]error
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	if err, ok := f.errFor[id]; ok {
		return nil, err
	}
	if v, ok := f.venues[id]; ok {
		return v, nil
	}
	return nil, domain.NotFoundError("venue not found")
}

type fakePreferences struct {
	optedOut map[string]bool
	err      error
}

func (f *fakePreferences) WantsReminders(ctx context.Context, contact string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.optedOut[contact], nil
}

type fakeEmailService struct {
	mu            sync.Mutex
	confirmations []*domain.MeetupEmailData
	reminders     []*domain.MeetupEmailData
	confirmErr    error
	reminderErr   map[string]error
}

func (f *fakeEmailService) SendConfirmation(ctx context.Context, data *domain.MeetupEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmations = append(f.confirmations, data)
	return nil
}

func (f *fakeEmailService) SendReminder(ctx context.Context, data *domain.MeetupEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reminderErr[data.Token]; err != nil {
		return err
	}
	f.reminders = append(f.reminders, data)
	return nil
}

func (f *fakeEmailService) reminderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reminders)
}

type fakeRetryQueue struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (f *fakeRetryQueue) EnqueueConfirmationNotice(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, token)
	return nil
}

// everyDay is open 07:00-21:00 all week.
func everyDay() domain.OpeningHours {
	h := domain.OpeningHours{}
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		h[d] = domain.DayHours{Open: "07:00", Close: "21:00"}
	}
	return h
}

func testVenue() *domain.Venue {
	return &domain.Venue{ID: "venue-1", Name: "Bean There", Address: "1 Main St", OpeningHours: everyDay()}
}
