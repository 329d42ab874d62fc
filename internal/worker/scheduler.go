package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

type registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// RegisterReminderTick schedules the dispatcher every interval. Each tick
// may run for at most timeout and is never retried.
func RegisterReminderTick(s registrar, interval, timeout time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("reminder interval must be positive, got %s", interval)
	}
	opts := []asynq.Option{
		asynq.Queue(QueueReminders),
		asynq.MaxRetry(0),
	}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return s.Register("@every "+interval.String(), NewReminderDispatchTask(), opts...)
}
