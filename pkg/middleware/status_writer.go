package middleware

import (
	"net/http"

	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

// statusWriter guarda o status e o tamanho da resposta. Uma única instância
// atravessa logging, métricas e handlers da mesma requisição.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
	annotations log.Fields
}

// captureStatus reaproveita o statusWriter quando w já é um
func captureStatus(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.wroteHeader {
		return
	}
	sw.status = code
	sw.wroteHeader = true
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.WriteHeader(http.StatusOK)
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}

// Unwrap permite que http.ResponseController alcance o writer original
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// Annotate acrescenta um campo ao log de conclusão da requisição.
// Fora do LoggingMiddleware não faz nada.
func Annotate(w http.ResponseWriter, key string, value any) {
	sw, ok := w.(*statusWriter)
	if !ok {
		return
	}
	if sw.annotations == nil {
		sw.annotations = log.Fields{}
	}
	sw.annotations[key] = value
}
