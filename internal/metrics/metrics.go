// Package metrics holds the Prometheus collectors of the reminder pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reminders counts dispatcher activity.
type Reminders struct {
	Ticks        prometheus.Counter
	TickFailures prometheus.Counter
	Sent         *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	NoRecipients *prometheus.CounterVec
	TickDuration prometheus.Histogram
}

// NewReminders registers the reminder collectors on reg.
func NewReminders(reg prometheus.Registerer) *Reminders {
	f := promauto.With(reg)
	return &Reminders{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_ticks_total",
			Help: "Total number of reminder dispatcher ticks.",
		}),
		TickFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "reminder_tick_failures_total",
			Help: "Total number of ticks aborted by a failed scan.",
		}),
		Sent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Total number of reminder emails sent.",
		}, []string{"tier"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_failures_total",
			Help: "Total number of invitations a tick failed to handle.",
		}, []string{"kind"}),
		NoRecipients: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_windows_without_recipients_total",
			Help: "Reminder windows marked handled with nobody opted in.",
		}, []string{"tier"}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reminder_tick_duration_seconds",
			Help:    "Wall time of one reminder dispatcher tick.",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 3, 10, 30, 60, 120, 240},
		}),
	}
}

// Confirmations counts confirmation outcomes.
type Confirmations struct {
	Outcomes *prometheus.CounterVec
}

// NewConfirmations registers the confirmation collectors on reg.
func NewConfirmations(reg prometheus.Registerer) *Confirmations {
	return &Confirmations{
		Outcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "confirmations_total",
			Help: "Confirmation attempts by outcome.",
		}, []string{"outcome"}),
	}
}
