package server

import (
	"fmt"
	"net/http"
	"time"

	"freebies/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource отдаёт итог последней проверки.
type StatusSource interface {
	Last() (res worker.Result, at time.Time, ok bool)
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	status StatusSource
}

// NewServer создаёт новый экземпляр Server.
func NewServer(status StatusSource) *Server {
	return &Server{status: status}
}

// Handler возвращает маршруты /health и /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// HealthCheck отвечает 200 OK, если последняя проверка прошла успешно, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	res, at, ok := s.status.Last()
	if !ok {
		http.Error(w, "no check finished yet", http.StatusServiceUnavailable)
		return
	}
	if res.Status != worker.StatusOK {
		http.Error(w, fmt.Sprintf("last check %s at %s: %v", res.Status, at.Format(time.RFC3339), res.Err),
			http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}
