package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the lifecycle engine.
type Metrics struct {
	ApplicationsCreated  prometheus.Counter
	AnonymousOnboardings prometheus.Counter
	StatusTransitions    *prometheus.CounterVec
	SideEffectFailures   *prometheus.CounterVec
	AnalysisCallbacks    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentgate_applications_created_total",
			Help: "Total number of job applications created",
		}),
		AnonymousOnboardings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentgate_anonymous_onboardings_total",
			Help: "Total number of identities provisioned through anonymous applications",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentgate_status_transitions_total",
			Help: "Total number of committed application status transitions",
		}, []string{"target"}),
		SideEffectFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentgate_side_effect_failures_total",
			Help: "Total number of post-commit side effects that failed",
		}, []string{"task"}),
		AnalysisCallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentgate_analysis_callbacks_total",
			Help: "Total number of analysis callback results applied",
		}),
	}
}

// NewForTest creates metrics on a private registry so parallel tests do not
// collide on the default registerer.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "talentgate_applications_created_total",
			Help: "Total number of job applications created",
		}),
		AnonymousOnboardings: factory.NewCounter(prometheus.CounterOpts{
			Name: "talentgate_anonymous_onboardings_total",
			Help: "Total number of identities provisioned through anonymous applications",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "talentgate_status_transitions_total",
			Help: "Total number of committed application status transitions",
		}, []string{"target"}),
		SideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "talentgate_side_effect_failures_total",
			Help: "Total number of post-commit side effects that failed",
		}, []string{"task"}),
		AnalysisCallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "talentgate_analysis_callbacks_total",
			Help: "Total number of analysis callback results applied",
		}),
	}
}
