package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPayloadMarshalOnlyActiveFields(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "empty table keeps data array",
			payload: Payload{Type: PayloadTable, Title: "Overdue Tasks", Summary: "Found 0 overdue tasks"},
			want:    `{"type":"table","title":"Overdue Tasks","columns":[],"data":[],"summary":"Found 0 overdue tasks","total":0,"truncated":false}`,
		},
		{
			name:    "export",
			payload: Payload{Type: PayloadExport, Message: "ready", Format: "csv", URL: "/api/export/csv", Title: "ignored"},
			want:    `{"type":"export","message":"ready","format":"csv","url":"/api/export/csv"}`,
		},
		{
			name:    "help",
			payload: Payload{Type: PayloadHelp, Message: "I can help you with:"},
			want:    `{"type":"help","message":"I can help you with:","suggestions":[]}`,
		},
		{
			name:    "error",
			payload: ErrorPayload("No data available. Please refresh the data first."),
			want:    `{"type":"error","message":"No data available. Please refresh the data first."}`,
		},
		{
			name:    "summary without stats",
			payload: Payload{Type: PayloadSummary, Title: "Workspace Overview"},
			want:    `{"type":"summary","title":"Workspace Overview","stats":{"total_tasks":0,"folders":0,"overdue":0,"unassigned":0,"statuses":{},"priorities":{}}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, data)
			}
		})
	}
}

func TestPayloadUnknownTypeEncodesAsError(t *testing.T) {
	data, err := json.Marshal(Payload{Type: "bogus", Message: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"type":"error"`) {
		t.Fatalf("expected error payload, got %s", data)
	}
}

func TestPayloadDecodeTable(t *testing.T) {
	var p Payload
	raw := `{"type":"table","title":"T","columns":["Status","Count"],"data":[{"Status":"open","Count":2}],"total":1}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Type != PayloadTable || p.Total != 1 || len(p.Data) != 1 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if p.Data[0]["Status"] != "open" {
		t.Fatalf("unexpected row: %v", p.Data[0])
	}
}
