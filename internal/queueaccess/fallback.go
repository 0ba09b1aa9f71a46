package queueaccess

import (
	"context"
	"fmt"
	"log/slog"

	"searchtube/internal/api"
	"searchtube/internal/config"
	"searchtube/internal/ingest"
	"searchtube/internal/queue"
)

// Session represents a queue access handle and its cleanup function.
type Session struct {
	Access Access
	close  func() error
}

// Close releases resources associated with the session.
func (s Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open tries the daemon's HTTP API first, then falls back to opening the
// store directly. The fallback path serves queue inspection while the daemon
// is down; a running daemon must stay the sole writer, which the probe
// ensures in practice.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Session, error) {
	client := api.NewClient(cfg.Paths.APIBind)
	if client.Ping(ctx) {
		return Session{Access: NewHTTPAccess(client)}, nil
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return Session{}, fmt.Errorf("open queue store: %w", err)
	}
	gate := ingest.NewGate(store, logger)
	return Session{
		Access: NewStoreAccess(store, gate),
		close:  store.Close,
	}, nil
}
