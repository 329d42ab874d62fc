package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"coffeemeet/internal/availability"
	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
	"coffeemeet/internal/metrics"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	reminderHorizon = 24 * time.Hour
	finalWindow     = time.Hour
)

// ReminderOptions tunes one dispatcher tick.
type ReminderOptions struct {
	TickTimeout time.Duration
	Concurrency int
	// SendRate caps outbound reminder emails per second; <= 0 means unlimited.
	SendRate float64
}

type reminderDispatcher struct {
	invitations domain.InvitationRepository
	venues      domain.VenueRepository
	prefs       domain.PreferenceLookup
	email       domain.EmailService
	cal         *calendar.Calendar
	opts        ReminderOptions
	limiter     *rate.Limiter
	metrics     *metrics.Reminders
	logger      *slog.Logger
	now         func() time.Time
}

func NewReminderDispatcher(
	invitations domain.InvitationRepository,
	venues domain.VenueRepository,
	prefs domain.PreferenceLookup,
	email domain.EmailService,
	cal *calendar.Calendar,
	opts ReminderOptions,
	m *metrics.Reminders,
	logger *slog.Logger,
) domain.ReminderDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	limit := rate.Inf
	if opts.SendRate > 0 {
		limit = rate.Limit(opts.SendRate)
	}
	return &reminderDispatcher{
		invitations: invitations,
		venues:      venues,
		prefs:       prefs,
		email:       email,
		cal:         cal,
		opts:        opts,
		limiter:     rate.NewLimiter(limit, 1),
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// itemOutcome is what handling one candidate produced.
type itemOutcome struct {
	tier    domain.ReminderTier
	sent    bool
	skipped bool
	err     error
}

// Dispatch runs one tick. Candidates not started before the tick deadline
// are left for the next tick; their flags are still unset.
func (d *reminderDispatcher) Dispatch(ctx context.Context) (*domain.DispatchSummary, error) {
	began := time.Now()
	if d.opts.TickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.TickTimeout)
		defer cancel()
	}
	if d.metrics != nil {
		d.metrics.Ticks.Inc()
		defer func() { d.metrics.TickDuration.Observe(time.Since(began).Seconds()) }()
	}

	now := d.now()
	candidates, err := d.invitations.ScanAccepted(ctx, now, reminderHorizon)
	if err != nil {
		if d.metrics != nil {
			d.metrics.TickFailures.Inc()
		}
		d.logger.Error("reminder scan failed", "err", err)
		return nil, err
	}

	summary := &domain.DispatchSummary{Failures: []domain.DispatchFailure{}}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(d.opts.Concurrency)

	for _, inv := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			out := d.handle(ctx, inv, now)
			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			d.record(summary, inv, out)
			return nil
		})
	}
	_ = g.Wait()
	if left := len(candidates) - summary.Processed; left > 0 {
		d.logger.Warn("reminder tick deadline reached", "left_for_next_tick", left)
	}

	d.logger.Info("reminder tick finished",
		"candidates", len(candidates),
		"processed", summary.Processed,
		"sent", summary.Sent,
		"skipped", summary.Skipped,
		"failures", len(summary.Failures),
	)
	return summary, nil
}

func (d *reminderDispatcher) record(summary *domain.DispatchSummary, inv *domain.Invitation, out itemOutcome) {
	switch {
	case out.err != nil:
		kind := domain.KindOf(out.err)
		summary.Failures = append(summary.Failures, domain.DispatchFailure{
			Token:   inv.Token,
			Tier:    out.tier,
			Kind:    kind,
			Message: out.err.Error(),
		})
		if d.metrics != nil {
			d.metrics.Failures.WithLabelValues(string(kind)).Inc()
		}
		d.logger.Error("reminder failed", "token", inv.Token, "tier", out.tier, "kind", kind, "err", out.err)
	case out.sent:
		summary.Sent++
		if d.metrics != nil {
			d.metrics.Sent.WithLabelValues(string(out.tier)).Inc()
		}
	case out.skipped:
		summary.Skipped++
	}
}

// dueTier picks the single window this pass handles. The final window wins
// over the day-ahead one.
func dueTier(inv *domain.Invitation, diff time.Duration) (domain.ReminderTier, bool) {
	switch {
	case diff <= 0 || diff > reminderHorizon:
		return "", false
	case diff <= finalWindow:
		return domain.Reminder1h, !inv.ReminderSent(domain.Reminder1h)
	default:
		return domain.Reminder24h, !inv.ReminderSent(domain.Reminder24h)
	}
}

func (d *reminderDispatcher) handle(ctx context.Context, inv *domain.Invitation, now time.Time) itemOutcome {
	start, _, err := d.cal.ResolveSlot(inv.SelectedDate, inv.SelectedSlot)
	if err != nil {
		return itemOutcome{err: domain.DataIntegrityError("invitation schedule: " + err.Error())}
	}
	tier, due := dueTier(inv, start.Sub(now))
	if !due {
		return itemOutcome{tier: tier, skipped: true}
	}

	if inv.VenueID == "" {
		return itemOutcome{tier: tier, err: domain.DataIntegrityError("invitation has no venue")}
	}
	venue, err := d.venues.GetByID(ctx, inv.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.DataIntegrityError("invitation venue is missing")
		}
		return itemOutcome{tier: tier, err: err}
	}
	if !availability.IsOpenDuring(venue.OpeningHours, inv.SelectedDate, inv.SelectedSlot) {
		d.logger.Debug("venue closed during slot, skipping reminder", "token", inv.Token, "venue_id", venue.ID)
		return itemOutcome{tier: tier, skipped: true}
	}

	recipients, err := d.recipients(ctx, inv)
	if err != nil {
		return itemOutcome{tier: tier, err: err}
	}
	if len(recipients) == 0 {
		if err := d.markHandled(ctx, inv, tier, now); err != nil {
			return itemOutcome{tier: tier, err: err}
		}
		if d.metrics != nil {
			d.metrics.NoRecipients.WithLabelValues(string(tier)).Inc()
		}
		return itemOutcome{tier: tier, skipped: true}
	}

	data, err := meetupEmail(d.cal, inv, venue, now)
	if err != nil {
		return itemOutcome{tier: tier, err: domain.DataIntegrityError(err.Error())}
	}
	data.Recipients = recipients
	data.Tier = tier

	if err := d.limiter.Wait(ctx); err != nil {
		return itemOutcome{tier: tier, err: domain.DependencyError("send pacing", err)}
	}
	if err := d.email.SendReminder(ctx, data); err != nil {
		return itemOutcome{tier: tier, err: domain.DependencyError("send reminder", err)}
	}
	if err := d.markHandled(ctx, inv, tier, now); err != nil {
		return itemOutcome{tier: tier, err: err}
	}
	return itemOutcome{tier: tier, sent: true}
}

func (d *reminderDispatcher) recipients(ctx context.Context, inv *domain.Invitation) ([]string, error) {
	var out []string
	for _, contact := range parties(inv) {
		wants, err := d.prefs.WantsReminders(ctx, contact)
		if err != nil {
			return nil, err
		}
		if wants {
			out = append(out, contact)
		}
	}
	return out, nil
}

func (d *reminderDispatcher) markHandled(ctx context.Context, inv *domain.Invitation, tier domain.ReminderTier, now time.Time) error {
	applied, err := d.invitations.SetReminderFlagIfUnset(ctx, inv.Token, tier, now)
	if err != nil {
		return err
	}
	if !applied {
		d.logger.Info("reminder flag already set by another tick", "token", inv.Token, "tier", tier)
	}
	return nil
}
