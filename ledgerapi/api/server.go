package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the server routes requests to. Pings
// and History may be nil; their routes then answer with a CONFIG error.
// Without Health, /health always reports OK.
type Dependencies struct {
	Ledger  Ledger
	Pings   PingScheduler
	History PingHistory
	Health  HealthChecker
}

// Server provides HTTP endpoints
type Server struct {
	logger  zerolog.Logger
	ledger  Ledger
	pings   PingScheduler
	history PingHistory
	health  HealthChecker
	server  *http.Server
}

// NewServer creates a new Server instance
func NewServer(logger zerolog.Logger, port int, deps Dependencies) *Server {
	s := &Server{
		logger:  logger.With().Str("component", "api").Logger(),
		ledger:  deps.Ledger,
		pings:   deps.Pings,
		history: deps.History,
		health:  deps.Health,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("api server is nil")
	}

	startupChan := make(chan error, 1)

	go func() {
		// Probe the port so a bind failure is reported to the caller
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			startupChan <- fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
			return
		}
		ln.Close()

		startupChan <- nil

		err = s.server.ListenAndServe()
		switch err {
		case nil:
			s.logger.Info().Msg("API server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("API server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	select {
	case err := <-startupChan:
		if err != nil {
			return err
		}
		s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("server startup timeout")
	}
}

// Stop gracefully shuts down the HTTP server, waiting up to timeout for
// in-flight requests.
func (s *Server) Stop(timeout time.Duration) error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return s.server.Close()
	}
	return nil
}
