package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskchat/internal/api"
	"taskchat/internal/metrics"
	"taskchat/internal/query"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	snap := s.cache.Snapshot()
	intent, err := s.interpreter.Interpret(req.Message, snap.FolderNames())
	if err != nil {
		s.writeServiceError(w, r, classifyInterpretError(err))
		return
	}
	metrics.RecordChatIntent(intent.Kind.String())

	payload := s.formatter.Respond(intent, snap)
	s.log().Debug("chat", "intent", intent.Kind.String(), "payload", payload.Type, "request_id", requestIDFrom(r.Context()))
	s.writeJSON(w, http.StatusOK, payload)
}

// handleRefresh replaces the snapshot. The fetch is detached from the request
// so a disconnecting client does not abort a refresh others may share.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Refresh(context.WithoutCancel(r.Context()))
	if err != nil {
		s.log().Error("refresh failed", "error", err, "request_id", requestIDFrom(r.Context()))
		s.writeJSON(w, http.StatusBadGateway, api.RefreshResponse{
			Success: false,
			Message: fmt.Sprintf("Refresh failed: %v", err),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, api.RefreshResponse{
		Success: true,
		Message: fmt.Sprintf("Data refreshed. Loaded %d tasks.", snap.Len()),
		Count:   snap.Len(),
	})
}

func classifyInterpretError(err error) error {
	if errors.Is(err, query.ErrEmptyMessage) {
		return badRequestCode(err, ErrCodeMissingRequired)
	}
	return badRequest(err)
}
