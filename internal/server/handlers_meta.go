package server

import (
	"net/http"

	"taskchat/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()
	resp := api.StatsResponse{
		Loaded: !snap.Empty(),
		Count:  snap.Len(),
	}
	if snap != nil {
		fetchedAt := snap.FetchedAt()
		resp.FetchedAt = &fetchedAt
		resp.Fingerprint = snap.Fingerprint()
	}
	s.writeJSON(w, http.StatusOK, resp)
}
