package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"taskchat/internal/api"
	"taskchat/internal/export"
	"taskchat/internal/metrics"
	"taskchat/internal/models"
)

var errNoData = errors.New("no data to export; refresh the data first")

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidFormat))
		return
	}

	snap := s.cache.Snapshot()
	if snap.Empty() {
		s.writeErrorReq(w, r, http.StatusConflict, conflictCode(errNoData, ErrCodeNoData))
		return
	}

	s.withLimiter(w, r, s.exportLimiter, "export", func() {
		s.writeExport(w, r, format, snap.Tasks())
	})
}

// handleChatExport exports the rows a chat message selects. Messages that do
// not select rows export the whole snapshot.
func (s *Server) handleChatExport(w http.ResponseWriter, r *http.Request) {
	var req api.ChatExportRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	snap := s.cache.Snapshot()
	intent, err := s.interpreter.Interpret(req.Message, snap.FolderNames())
	if err != nil {
		s.writeServiceError(w, r, classifyInterpretError(err))
		return
	}

	rawFormat := strings.TrimSpace(req.Format)
	if rawFormat == "" {
		rawFormat = string(export.CSV)
		if intent.Format != "" {
			rawFormat = intent.Format
		}
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidFormat))
		return
	}

	if snap.Empty() {
		s.writeErrorReq(w, r, http.StatusConflict, conflictCode(errNoData, ErrCodeNoData))
		return
	}

	s.withLimiter(w, r, s.exportLimiter, "export", func() {
		s.writeExport(w, r, format, s.formatter.Rows(intent, snap))
	})
}

// writeExport renders into memory first so a failure can still be reported
// as a JSON error.
func (s *Server) writeExport(w http.ResponseWriter, r *http.Request, format export.Format, tasks []models.Task) {
	var buf bytes.Buffer
	rows, err := export.Write(&buf, format, tasks)
	if err != nil {
		metrics.RecordExport(string(format), false)
		s.writeErrorReq(w, r, http.StatusInternalServerError, internalErrorCode(fmt.Errorf("export %s: %w", format, err), ErrCodeExportFailed))
		return
	}
	metrics.RecordExport(string(format), true)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Export-Rows", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log().Error("write export", "format", format, "error", err, "request_id", requestIDFrom(r.Context()))
	}
}
