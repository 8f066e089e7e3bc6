package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"taskchat/internal/config"
)

func TestServerURL(t *testing.T) {
	tests := []struct {
		name   string
		listen string
		want   string
	}{
		{name: "loopback", listen: "127.0.0.1:5000", want: "http://127.0.0.1:5000"},
		{name: "wildcard host", listen: "0.0.0.0:8080", want: "http://127.0.0.1:8080"},
		{name: "empty host", listen: ":9000", want: "http://127.0.0.1:9000"},
		{name: "ipv6 loopback", listen: "[::1]:5000", want: "http://[::1]:5000"},
		{name: "default", listen: "", want: "http://127.0.0.1:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(serverURLEnvKey, "")
			cfg := config.Default()
			cfg.ListenAddr = tt.listen
			if got := serverURL(&cfg); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestServerURLEnvOverride(t *testing.T) {
	t.Setenv(serverURLEnvKey, "http://tasks.internal:7000/")
	cfg := config.Default()
	if got := serverURL(&cfg); got != "http://tasks.internal:7000" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Task ID,Task Name\n1,Write docs\n"))
	}))
	t.Cleanup(srv.Close)
	t.Setenv(serverURLEnvKey, srv.URL)
	t.Setenv(logLevelEnvKey, "")

	out := filepath.Join(t.TempDir(), "tasks.csv")
	cfg := config.Default()
	cmd := newRootCmd(&cfg)
	cmd.SetArgs([]string{"export", "--format", "csv", "-o", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	if gotPath != "/api/export/csv" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "Task ID,Task Name\n1,Write docs\n" {
		t.Fatalf("unexpected export content %q", data)
	}
}

func TestExportCommandRejectsUnknownFormat(t *testing.T) {
	t.Setenv(logLevelEnvKey, "")
	cfg := config.Default()
	cmd := newRootCmd(&cfg)
	cmd.SetArgs([]string{"export", "--format", "pdf", "-o", filepath.Join(t.TempDir(), "x")})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFetchRequiresCredentials(t *testing.T) {
	t.Setenv(logLevelEnvKey, "")
	cfg := config.Default()
	cmd := newRootCmd(&cfg)
	cmd.SetArgs([]string{"fetch"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected missing token error")
	}
}
