package domain

import "context"

// DispatchFailure describes one invitation the tick could not handle.
type DispatchFailure struct {
	Token   string       `json:"token"`
	Tier    ReminderTier `json:"tier,omitempty"`
	Kind    ErrorKind    `json:"kind"`
	Message string       `json:"message"`
}

// DispatchSummary is the result of one dispatcher tick.
// swagger:model DispatchSummary
type DispatchSummary struct {
	Processed int               `json:"processed"`
	Sent      int               `json:"sent"`
	Skipped   int               `json:"skipped"`
	Failures  []DispatchFailure `json:"failures"`
}

// ReminderDispatcher runs one reminder tick. Only the initial scan can fail
// the whole tick; per-invitation failures are collected in the summary.
type ReminderDispatcher interface {
	Dispatch(ctx context.Context) (*DispatchSummary, error)
}
