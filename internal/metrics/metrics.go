package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"filmcatalog/internal/catalog"
)

var (
	SeededFilms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_seeded_films",
		Help: "Films written by the last catalog load",
	})

	SeededComments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_seeded_comments",
		Help: "Comments written by the last catalog load",
	})

	MalformedRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_malformed_fixture_records",
		Help: "Fixture entries that were not JSON objects in the last load",
	})

	CoercionMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_coercion_misses_total",
		Help: "Fixture values that could not be coerced to their field type",
	}, []string{"field"})

	FilmsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_films_added_total",
		Help: "Films inserted through the add-film form",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

func ObserveLoad(sum catalog.Summary) {
	SeededFilms.Set(float64(sum.Films))
	SeededComments.Set(float64(sum.Comments))
	MalformedRecords.Set(float64(sum.Malformed))
	for field, n := range sum.CoercionMisses {
		CoercionMisses.WithLabelValues(field).Add(float64(n))
	}
}

// Middleware records request latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
