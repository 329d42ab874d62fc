package worker

import (
	"context"
	"fmt"
	"log/slog"

	"coffeemeet/internal/domain"

	"github.com/hibiken/asynq"
)

// Handlers serves the coffeemeet task types.
type Handlers struct {
	Dispatcher    domain.ReminderDispatcher
	Confirmations domain.ConfirmationService
	Logger        *slog.Logger
}

// Register mounts every handler on mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReminderDispatch, h.HandleReminderDispatch)
	mux.HandleFunc(TypeConfirmationNotice, h.HandleConfirmationNotice)
}

// HandleReminderDispatch runs one dispatcher tick. A failed scan is not
// retried; the next scheduled tick covers the same window.
func (h *Handlers) HandleReminderDispatch(ctx context.Context, _ *asynq.Task) error {
	summary, err := h.Dispatcher.Dispatch(ctx)
	if err != nil {
		return fmt.Errorf("reminder tick: %v: %w", err, asynq.SkipRetry)
	}
	if len(summary.Failures) > 0 {
		h.Logger.WarnContext(ctx, "reminder tick finished with failures", "failures", len(summary.Failures))
	}
	return nil
}

// HandleConfirmationNotice resends a confirmation notice. Only dependency
// failures are retried.
func (h *Handlers) HandleConfirmationNotice(ctx context.Context, t *asynq.Task) error {
	token, err := parseConfirmationNotice(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	err = h.Confirmations.ResendConfirmation(ctx, token)
	switch {
	case err == nil:
		h.Logger.InfoContext(ctx, "confirmation notice resent", "token", token)
		return nil
	case domain.KindOf(err) == domain.KindDependency:
		return err
	default:
		h.Logger.ErrorContext(ctx, "confirmation notice dropped", "token", token, "kind", domain.KindOf(err), "err", err)
		return fmt.Errorf("resend confirmation: %v: %w", err, asynq.SkipRetry)
	}
}
