package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"taskchat/internal/api"
	"taskchat/internal/clickup"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "resource_exhausted":
			lines = append(lines, "hint: retry shortly; another export is still running.")
		case "conflict":
			lines = append(lines, "hint: no snapshot is loaded yet; run: taskchat refresh")
		}
		if apiErr.Code == "" && strings.HasPrefix(apiErr.Message, "api error") {
			lines = append(lines, "hint: verify "+serverURLEnvKey+" points to a taskchat server.")
		}
		if apiErr.Status == http.StatusBadGateway {
			lines = append(lines, "hint: the server could not reach ClickUp; check CLICKUP_ACCESS_TOKEN and CLICKUP_SPACE_ID.")
		} else if apiErr.Status >= 500 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	var cuErr *clickup.Error
	if errors.As(err, &cuErr) {
		if cuErr.IsAuth() {
			lines = append(lines, "hint: ClickUp rejected the token; check CLICKUP_ACCESS_TOKEN.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase TASKCHAT_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a taskchat server is running at listen_addr or "+serverURLEnvKey+".",
			"hint: start the server with: taskchat srv",
			"hint: you can increase TASKCHAT_HTTP_TIMEOUT for slower environments.",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
