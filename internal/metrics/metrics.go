// Package metrics holds the prometheus collectors recorded around plan generation.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/chrisdamba/mealplanner/internal/planner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mealplanner"

// failure reasons
const (
	ReasonInsufficientRecipes = "insufficient_recipes"
	ReasonInvalidPreferences  = "invalid_preferences"
	ReasonInvalidWeekCount    = "invalid_week_count"
	ReasonLockHeld            = "lock_held"
	ReasonStorage             = "storage"
	ReasonOutput              = "output"
)

type Metrics struct {
	Registry *prometheus.Registry

	generationDuration prometheus.Histogram
	plansGenerated     prometheus.Counter
	emptySlots         *prometheus.CounterVec
	failures           *prometheus.CounterVec
}

// New registers the collectors on a fresh registry so several instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating a multi-week plan for one user",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
		}),
		plansGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_generated_total",
			Help:      "Total number of multi-week plans generated",
		}),
		emptySlots: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_slots_total",
			Help:      "Meal slots left empty because no recipe satisfied the constraints",
		}, []string{"slot"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Plan generations that returned an error",
		}, []string{"reason"}),
	}
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObservePlan(plan *models.MultiWeekPlan, took time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(took.Seconds())
	m.plansGenerated.Inc()
	for _, week := range plan.Weeks {
		for slot, n := range week.EmptySlots() {
			m.emptySlots.WithLabelValues(string(slot)).Add(float64(n))
		}
	}
}

func (m *Metrics) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// FailureReason maps engine and validation errors onto a failure label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, planner.ErrInsufficientRecipes):
		return ReasonInsufficientRecipes
	case errors.Is(err, models.ErrInvalidPreferences):
		return ReasonInvalidPreferences
	case errors.Is(err, planner.ErrInvalidWeekCount):
		return ReasonInvalidWeekCount
	default:
		return ReasonStorage
	}
}
