package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coffeemeet/internal/domain"

	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RetryOptions controls how failed confirmation notices are rescheduled.
type RetryOptions struct {
	Delay    time.Duration
	MaxRetry int
}

type retryQueue struct {
	client enqueuer
	opts   RetryOptions
	logger *slog.Logger
}

// NewRetryQueue returns a domain.NotificationRetryQueue backed by an asynq client.
func NewRetryQueue(client enqueuer, opts RetryOptions, logger *slog.Logger) domain.NotificationRetryQueue {
	if opts.Delay <= 0 {
		opts.Delay = time.Minute
	}
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 5
	}
	return &retryQueue{client: client, opts: opts, logger: logger}
}

// EnqueueConfirmationNotice schedules one resend per token; a resend that is
// already queued counts as scheduled.
func (q *retryQueue) EnqueueConfirmationNotice(ctx context.Context, token string) error {
	task, err := NewConfirmationNoticeTask(token)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueNotifications),
		asynq.TaskID(TypeConfirmationNotice+":"+token),
		asynq.MaxRetry(q.opts.MaxRetry),
		asynq.ProcessIn(q.opts.Delay),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		q.logger.InfoContext(ctx, "confirmation notice already queued", "token", token)
		return nil
	}
	if err != nil {
		return domain.DependencyError("enqueue confirmation notice", err)
	}
	q.logger.InfoContext(ctx, "confirmation notice queued", "token", token, "task_id", info.ID, "process_at", info.NextProcessAt)
	return nil
}
