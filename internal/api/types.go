package api

import "time"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatExportRequest is the body of POST /api/chat/export.
type ChatExportRequest struct {
	Message string `json:"message"`
	Format  string `json:"format"`
}

// StatsResponse describes the loaded snapshot.
type StatsResponse struct {
	Loaded      bool       `json:"loaded"`
	Count       int        `json:"count"`
	FetchedAt   *time.Time `json:"fetched_at,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
}

// RefreshResponse reports the outcome of a refresh.
type RefreshResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
