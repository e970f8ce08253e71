package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	liftsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_backend",
		Subsystem: "lifts",
		Name:      "created_total",
		Help:      "Number of lift records created.",
	})
	liftsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_backend",
		Subsystem: "lifts",
		Name:      "deleted_total",
		Help:      "Number of lift records deleted.",
	})
	liftsListed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_backend",
		Subsystem: "lifts",
		Name:      "list_requests_total",
		Help:      "Number of lift list and session queries served.",
	})
)

func init() {
	prometheus.MustRegister(liftsCreated, liftsDeleted, liftsListed)
}

func RecordLiftCreated() {
	liftsCreated.Inc()
}

func RecordLiftDeleted() {
	liftsDeleted.Inc()
}

func RecordLiftListed() {
	liftsListed.Inc()
}
