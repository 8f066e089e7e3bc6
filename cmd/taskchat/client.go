package main

import (
	"net"
	"os"
	"strings"

	"taskchat/internal/api"
	"taskchat/internal/config"
)

const serverURLEnvKey = "TASKCHAT_SERVER_URL"

func withClient(cfg *config.Config, fn func(*api.Client) error) error {
	return fn(api.NewClient(serverURL(cfg)))
}

// serverURL points at TASKCHAT_SERVER_URL, else at the local listen address.
// Wildcard hosts are dialed on loopback.
func serverURL(cfg *config.Config) string {
	if raw := strings.TrimSpace(os.Getenv(serverURLEnvKey)); raw != "" {
		return strings.TrimRight(raw, "/")
	}

	addr := config.DefaultListenAddr
	if cfg != nil && strings.TrimSpace(cfg.ListenAddr) != "" {
		addr = strings.TrimSpace(cfg.ListenAddr)
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
