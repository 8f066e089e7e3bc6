package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskchat/internal/metrics"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Chat page.
	mux.HandleFunc("GET /{$}", s.handleUIIndex)
	mux.Handle("GET /ui/", s.uiAssetHandler())

	// Health and snapshot info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	// Chat.
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/chat/export", s.handleChatExport)

	// Snapshot refresh.
	mux.HandleFunc("GET /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	// Export.
	mux.HandleFunc("GET /api/export/{format}", s.handleExport)

	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return s.withRequestLogging(mux)
}
