package storage

import (
	"context"
	"errors"
	"strings"

	logx "epicbot/pkg/logx"
)

// Store is the whole-document persistence API used by the services.
//
// Load returns (nil, nil) when the document has never been saved; callers
// fall back to their empty default. Save overwrites the full document.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, body []byte) error
	Close() error
}

// Open initializes the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "", "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
