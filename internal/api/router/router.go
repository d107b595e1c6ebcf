package router

import (
	"net/http"

	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/middleware"
)

// Registrar é implementado por cada Handler de módulo (person, client, staff,
// room, reservation) para associar suas rotas ao mux.
type Registrar interface {
	Register(mux *http.ServeMux)
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências. limiter pode
// ser nil quando o Redis não está configurado.
func NewRouter(log logger.Logger, limiter func(http.Handler) http.Handler, handlers ...Registrar) http.Handler {
	mux := http.NewServeMux()

	// --- Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- Rotas v1 ---
	for _, h := range handlers {
		h.Register(mux)
	}

	var handler http.Handler = mux
	if limiter != nil {
		handler = limiter(handler)
	}
	return middleware.RequestLogger(log)(handler)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
