package config

// Config is the bot's top-level configuration.
//
// The file may be JSON or YAML; both go through the same strict decoder
// (unknown fields are rejected). All durations are Go duration strings
// (e.g. "500ms", "15s", "1m").
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Storage  StorageConfig  `json:"storage"`
	Provider ProviderConfig `json:"provider"`
	Push     PushConfig     `json:"push"`
}

type TelegramConfig struct {
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids,omitempty"`

	// PollTimeout is the long-poll timeout (default "10s").
	PollTimeout string `json:"poll_timeout,omitempty"`

	// RatePerSec caps outbound sends (default 20, roughly Telegram's
	// global bot limit).
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type LoggingConfig struct {
	Level   string        `json:"level,omitempty"` // trace..error, default info
	Console *bool         `json:"console,omitempty"`
	File    FileLogConfig `json:"file,omitempty"`
}

type FileLogConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig selects the state backend.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./data" }
type StorageConfig struct {
	Driver      string `json:"driver,omitempty"` // "file" (default) or "sqlite"
	Path        string `json:"path,omitempty"`   // data dir (file) or db file (sqlite)
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// ProviderConfig controls the Epic Games Store fetch.
type ProviderConfig struct {
	Locale  string `json:"locale,omitempty"`  // default "en-US"
	Country string `json:"country,omitempty"` // default "US"
	Timeout string `json:"timeout,omitempty"` // default "15s"
}

// PushConfig controls the delivery engine.
type PushConfig struct {
	// TickInterval is the per-job check cadence. The matching window is one
	// clock minute wide, so anything other than the default "1m" is only
	// useful in tests.
	TickInterval string `json:"tick_interval,omitempty"`
}

// ConsoleEnabled reports the console sink flag, defaulting to on.
func (l LoggingConfig) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}
