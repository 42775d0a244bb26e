package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewDispatchAPIRequestsTotal counts calls to the AI dispatch API by endpoint and outcome
func NewDispatchAPIRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_api_requests_total",
		Help: "Total number of requests sent to the AI dispatch API",
	}, []string{"endpoint", "outcome"})
}

// NewLoadStatusChangesTotal counts committed load status updates
func NewLoadStatusChangesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "load_status_changes_total",
		Help: "Total number of committed load status changes",
	}, []string{"from", "to"})
}

// NewLoadEventsPublishFailuresTotal counts status change events that could not be published
func NewLoadEventsPublishFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "load_events_publish_failures_total",
		Help: "Total number of load status events that failed to publish",
	})
}

// NewInvoicesCreatedTotal counts invoices created by the invoicer
func NewInvoicesCreatedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoices_created_total",
		Help: "Total number of invoices created from load status events",
	})
}

// Domain groups the business counters shared by services.
type Domain struct {
	DispatchAPIRequests  *prometheus.CounterVec
	LoadStatusChanges    *prometheus.CounterVec
	EventPublishFailures prometheus.Counter
	InvoicesCreated      prometheus.Counter
}

// NewDomain creates the business counters and registers them on reg.
// A nil reg leaves them unregistered.
func NewDomain(reg prometheus.Registerer) *Domain {
	d := &Domain{
		DispatchAPIRequests:  NewDispatchAPIRequestsTotal(),
		LoadStatusChanges:    NewLoadStatusChangesTotal(),
		EventPublishFailures: NewLoadEventsPublishFailuresTotal(),
		InvoicesCreated:      NewInvoicesCreatedTotal(),
	}
	if reg != nil {
		reg.MustRegister(d.DispatchAPIRequests, d.LoadStatusChanges, d.EventPublishFailures, d.InvoicesCreated)
	}
	return d
}
