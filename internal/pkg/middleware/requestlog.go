package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gohotel/internal/pkg/logger"
)

// ContextKey evita colisão com chaves de contexto de outros pacotes.
type ContextKey int

const (
	RequestIDKey ContextKey = iota
)

// RequestIDHeader é o cabeçalho lido e devolvido com o id da requisição.
const RequestIDHeader = "X-Request-ID"

// RequestIDFromContext devolve o id anexado por RequestLogger.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger anexa um id a cada requisição (reaproveitando X-Request-ID
// quando enviado) e registra método, caminho, status e duração.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			ctx := context.WithValue(r.Context(), RequestIDKey, id)
			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Info("Requisição processada.", map[string]interface{}{
				"request_id":  id,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
