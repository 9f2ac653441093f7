package debug

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server is the localhost debug HTTP server. It should never be exposed
// to external networks.
type Server struct {
	addr         string
	introspector Introspector
	log          zerolog.Logger

	srv *http.Server
}

// NewServer builds a debug server bound to addr. The introspector
// provides the snapshots served under /_debug/.
func NewServer(addr string, introspector Introspector, log zerolog.Logger) *Server {
	return &Server{addr: addr, introspector: introspector, log: log}
}

// Handler returns the debug routes. Split out so tests and embedders can
// mount them without a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/_debug/bootstrap", s.handleBootstrap)
	r.Get("/_debug/connections", s.handleConnections)
	return r
}

// Start begins serving in the background. Serve errors other than a
// graceful close are logged, not returned: losing the debug surface must
// never take the host down.
func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 2 * time.Second, // Prevent Slowloris attacks
	}
	go func() {
		s.log.Debug().Str("addr", s.addr).Msg("debug server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn().Err(err).Msg("debug server stopped")
		}
	}()
}

// Shutdown stops the listener. Safe to call when Start was never called.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	snap := s.introspector.SnapshotData(r.Context())
	// The bootstrap view omits per-connection detail.
	snap.Connections = nil
	s.writeJSON(w, snap)
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	snap := s.introspector.SnapshotData(r.Context())
	views := snap.Connections
	if views == nil {
		views = []ConnectionView{}
	}
	s.writeJSON(w, views)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("debug response write failed")
	}
}
