package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "nursecall_http_request_duration_seconds",
	Help:    "HTTP request latency",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "status"})

// Metrics middleware records request latency per method and status
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		httpDuration.
			WithLabelValues(r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
