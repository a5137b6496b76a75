package middleware

import (
	"net/http"
	"time"

	"github.com/vfg2006/retail-dashboard-api/internal/metrics"
)

// Metrics registra contagem e latência por rota. O path é o padrão da rota
// (ex.: /v1/users/:id) para não explodir a cardinalidade.
func Metrics(m *metrics.Metrics, path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			sw := captureStatus(w)

			next.ServeHTTP(sw, r)

			m.RecordHTTPRequest(r.Method, path, sw.status, time.Since(startTime))
		})
	}
}
