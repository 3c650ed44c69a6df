package middleware

import (
	"campsite/pkg/metrics"
	"net/http"
	"strings"
	"time"
)

// Metrics records request count and latency per method and route template.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recordStatus(w)

			next.ServeHTTP(rec, r)

			m.ObserveHTTP(r.Method, routeTemplate(r.URL.Path), rec.status, time.Since(start))
		})
	}
}

// routeTemplate replaces numeric path segments with ":id" to bound label cardinality.
func routeTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
