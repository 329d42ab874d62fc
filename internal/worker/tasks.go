// Package worker runs the background side of coffeemeet on asynq: the
// periodic reminder tick and confirmation notice retries.
package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types.
const (
	TypeReminderDispatch   = "reminders:dispatch"
	TypeConfirmationNotice = "confirmation:notify"
)

// Queue names and their weights on the worker server.
const (
	QueueReminders     = "reminders"
	QueueNotifications = "notifications"
)

// Queues is the asynq.Config.Queues value used by cmd/worker.
var Queues = map[string]int{
	QueueReminders:     6,
	QueueNotifications: 4,
}

type confirmationNoticePayload struct {
	Token string `json:"token"`
}

// NewReminderDispatchTask builds the payload-less tick task.
func NewReminderDispatchTask() *asynq.Task {
	return asynq.NewTask(TypeReminderDispatch, nil)
}

// NewConfirmationNoticeTask builds a resend task for an accepted invitation.
func NewConfirmationNoticeTask(token string) (*asynq.Task, error) {
	if token == "" {
		return nil, fmt.Errorf("confirmation notice: empty token")
	}
	payload, err := json.Marshal(confirmationNoticePayload{Token: token})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeConfirmationNotice, payload), nil
}

func parseConfirmationNotice(t *asynq.Task) (string, error) {
	var p confirmationNoticePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return "", fmt.Errorf("decode %s payload: %w", t.Type(), err)
	}
	if p.Token == "" {
		return "", fmt.Errorf("%s payload has no token", t.Type())
	}
	return p.Token, nil
}
