package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lg/nutrition-go-api/nutrition"
)

// metrics holds the Prometheus collectors for the API.
type metrics struct {
	calculations    *prometheus.CounterVec
	issues          *prometheus.CounterVec
	projectionWeeks prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

// newMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_calculations_total",
			Help: "Nutrition calculations by resting energy formula used",
		}, []string{"formula"}),

		issues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nutrition_issues_total",
			Help: "Issues attached to calculation results, by code",
		}, []string{"code"}),

		projectionWeeks: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nutrition_projection_weeks",
			Help:    "Estimated weeks of computed projections",
			Buckets: []float64{0, 4, 8, 12, 16, 20, 26, 39, 52},
		}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// observeResult counts one calculation and its issues.
func (m *metrics) observeResult(res nutrition.NutritionResult) {
	formula := res.RestingEnergyFormulaUsed
	if formula == "" {
		formula = "none"
	}
	m.calculations.WithLabelValues(formula).Inc()
	for _, is := range res.Issues {
		m.issues.WithLabelValues(string(is.Code)).Inc()
	}
}

func (m *metrics) observeProjection(p nutrition.Projection) {
	m.projectionWeeks.Observe(float64(p.EstimatedWeeks))
}

// middleware records request latency labelled by the matched route pattern,
// so /api/history/:id is one series regardless of the id.
func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
