// Package metrics exposes prometheus instrumentation for the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts invoice lifecycle events.
type Metrics struct {
	InvoicesCreated   prometheus.Counter
	PaymentsApplied   prometheus.Counter
	OverdueCandidates prometheus.Counter
	OverdueRollovers  prometheus.Counter
	OverdueFailures   prometheus.Counter
}

var (
	once     sync.Once
	instance *Metrics
)

// Default returns the process-wide lifecycle metrics, registering them on
// first use.
func Default() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			InvoicesCreated: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ledgerline_invoices_created_total",
				Help: "Invoices created.",
			}),
			PaymentsApplied: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ledgerline_payments_applied_total",
				Help: "Payments applied to invoices.",
			}),
			OverdueCandidates: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ledgerline_overdue_candidates_total",
				Help: "Invoices selected by overdue sweeps.",
			}),
			OverdueRollovers: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ledgerline_overdue_rollovers_total",
				Help: "Overdue invoices rolled over into successors.",
			}),
			OverdueFailures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ledgerline_overdue_failures_total",
				Help: "Overdue candidates whose rollover failed.",
			}),
		}
	})
	return instance
}
