package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"wasata/internal/http/metrics"
)

// Metrics must be installed with mux.Router.Use so the matched route template
// is available as the label.
func Metrics(collector *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			collector.ObserveRequest(r.Method, routeLabel(r), rec.statusCode(), time.Since(start))
		})
	}
}

func routeLabel(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return template
}
