package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

// slowRequestThreshold eleva para warn requisições bem-sucedidas mais lentas que isso
const slowRequestThreshold = 500 * time.Millisecond

// LoggingMiddleware gera o correlation_id da requisição e emite um único log
// de conclusão, com os campos anotados pelos handlers via Annotate.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)

			sw := captureStatus(w)
			started := time.Now()

			log.ForContext(ctx).WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"query":       r.URL.RawQuery,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
			}).Debug("http: requisição recebida")

			next.ServeHTTP(sw, r)

			elapsed := time.Since(started)
			fields := log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": sw.status,
				"duration_ms": elapsed.Milliseconds(),
				"bytes":       sw.bytes,
			}
			for key, value := range sw.annotations {
				fields[key] = value
			}

			logger := log.ForContext(ctx).WithFields(fields)
			message := fmt.Sprintf("http: %s %s -> %d", r.Method, r.URL.Path, sw.status)

			switch {
			case sw.status >= http.StatusInternalServerError:
				logger.Error(message)
			case sw.status >= http.StatusBadRequest:
				logger.Warn(message)
			case elapsed > slowRequestThreshold:
				logger.Warn(message + " (lenta)")
			default:
				logger.Info(message)
			}
		})
	}
}

// LogPanicMiddleware converte panics em 500 padronizado. Precisa ficar dentro
// do LoggingMiddleware para herdar o correlation_id e ter o status registrado.
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				log.ForContext(r.Context()).WithFields(log.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"error":       fmt.Sprint(recovered),
					"stack_trace": string(debug.Stack()),
				}).Error("http: panic ao atender requisição")

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
