package storage

import (
	"errors"
	"time"
)

var ErrClosed = errors.New("storage closed")

// Config configures storage.
//
// Driver values:
//   - "file": one human-inspectable <name>.json per document under Path
//   - "sqlite": single SQLite database file (optional build tag)
//
// If Driver is empty, "file" is assumed.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Well-known document names.
const (
	DocSubscriptions = "subscriptions"
	DocSchedule      = "scheduler"
	DocPushHistory   = "push_history"
)
