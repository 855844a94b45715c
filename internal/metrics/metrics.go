package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	movementsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "movetrack_movements_created_total",
		Help: "Total number of movement records admitted",
	})
	movementsDuplicateTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "movetrack_movements_duplicate_total",
		Help: "Total number of movement submissions rejected as duplicates",
	})
	statusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "movetrack_status_transitions_total",
		Help: "Total number of movement status transitions by target status",
	}, []string{"status"})
)

var registerOnce sync.Once

// Register registers the collectors with the default Prometheus registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(movementsCreatedTotal, movementsDuplicateTotal, statusTransitionsTotal)
	})
}

// IncMovementCreated increments the admitted movements counter.
func IncMovementCreated() { movementsCreatedTotal.Inc() }

// IncMovementDuplicate increments the duplicate rejections counter.
func IncMovementDuplicate() { movementsDuplicateTotal.Inc() }

// IncStatusTransition increments the transition counter for a target status.
func IncStatusTransition(status string) {
	statusTransitionsTotal.WithLabelValues(status).Inc()
}
