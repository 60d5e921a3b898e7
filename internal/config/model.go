// internal/config/model.go
//
// Typed configuration model for the Harmony client.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • built-in defaults                          – see defaults.go,
//   • optional `.env`                            – dotenv values,
//   • `conf/harmony.yaml`                        – optional static file,
//   • `HARMONY_`-prefixed environment overrides  – highest precedence.
//
// Validation happens immediately after unmarshal; the client refuses to
// start with a malformed backend URL or a non-positive timeout.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

// API holds backend connection settings.  BaseURL is the origin every
// `/api/*` path is resolved against, the role the dev proxy played for the
// browser build.
type API struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"  validate:"gt=0"`
}

// Log holds logger settings.
type Log struct {
	Dir string `koanf:"dir" validate:"required"`
	Tee bool   `koanf:"tee"`
}

// Metrics holds the optional Prometheus listener.  Empty disables it.
type Metrics struct {
	ListenAddr string `koanf:"listen_addr" validate:"omitempty,hostname_port"`
}

// Forms points at an optional directory of YAML form overrides.
type Forms struct {
	Dir string `koanf:"dir"`
}

// Paths is resolved at runtime.
type Paths struct {
	Root string // HARMONY_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	API     API     `koanf:"api"`
	Log     Log     `koanf:"log"`
	Metrics Metrics `koanf:"metrics"`
	Forms   Forms   `koanf:"forms"`
	Paths   Paths   `koanf:"-"`
}
