// Package store provides the persistent key-value backends behind core.Store.
//
// Only two keys are ever written (the saved template and the sent list), so
// every backend is a single two-column table holding JSON strings.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/MailMerge/internal/config"
	"github.com/JonMunkholm/MailMerge/internal/core"
)

// KV is a core.Store that owns a connection and must be closed.
type KV interface {
	core.Store
	Close() error
}

// Open returns the backend selected by cfg.Driver, matched case-insensitively.
func Open(ctx context.Context, cfg config.StoreConfig) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case config.DriverMemory:
		slog.Info("using in-memory store; templates and sent status are lost on exit")
		return memory{core.NewMemoryStore()}, nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

type memory struct {
	*core.MemoryStore
}

func (memory) Close() error { return nil }
