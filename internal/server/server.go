package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"taskchat/internal/dataset"
	"taskchat/internal/query"
	"taskchat/internal/respond"
)

const (
	allowRemoteEnvKey      = "TASKCHAT_ALLOW_REMOTE"
	readHeaderTimeout      = 5 * time.Second
	readTimeout            = 30 * time.Second
	writeTimeout           = 3 * time.Minute
	idleTimeout            = 60 * time.Second
	shutdownTimeout        = 10 * time.Second
	exportConcurrencyLimit = 2
)

// Server wraps HTTP handlers for the taskchat API and chat page.
type Server struct {
	addr          string
	cache         *dataset.Cache
	interpreter   *query.Interpreter
	formatter     *respond.Formatter
	logger        *slog.Logger
	exportLimiter chan struct{}
}

// New creates a new server instance. A nil interpreter or formatter falls
// back to the defaults.
func New(addr string, cache *dataset.Cache, interpreter *query.Interpreter, formatter *respond.Formatter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if interpreter == nil {
		interpreter = query.New(query.DefaultVocabulary())
	}
	if formatter == nil {
		formatter = respond.New(respond.Options{})
	}

	return &Server{
		addr:          addr,
		cache:         cache,
		interpreter:   interpreter,
		formatter:     formatter,
		logger:        logger,
		exportLimiter: make(chan struct{}, exportConcurrencyLimit),
	}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAddr validates a listen address. Non-loopback hosts require
// TASKCHAT_ALLOW_REMOTE=true.
func ListenAddr(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("listen address is required")
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}
	return addr, nil
}

// isAllowedListenHost treats an empty host as remote: it binds every interface.
func isAllowedListenHost(host string) bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}
