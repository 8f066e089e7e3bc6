package clickup

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Error is a non-2xx response from the ClickUp API.
type Error struct {
	Status  int
	Path    string
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("clickup %s: %d %s (%s)", e.Path, e.Status, msg, e.Code)
	}
	return fmt.Sprintf("clickup %s: %d %s", e.Path, e.Status, msg)
}

// IsAuth reports whether the provider rejected the credentials.
func (e *Error) IsAuth() bool {
	return e != nil && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

func decodeError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	apiErr := &Error{Status: resp.StatusCode, Path: path}
	if gjson.ValidBytes(body) {
		apiErr.Message = gjson.GetBytes(body, "err").String()
		apiErr.Code = gjson.GetBytes(body, "ECODE").String()
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
