package types

import "errors"

// Config holds backend selection and parameters for HostStorage.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LimitBytes is the storage quota reported by Usage. Zero selects
	// the default quota.
	LimitBytes int64 `json:"limit_bytes" yaml:"limit_bytes"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultLimitBytes mirrors the 10 MB quota of the host storage the
// client originally ran against.
const DefaultLimitBytes int64 = 10 << 20

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrLimitNegative   = errors.New("storage limit must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.LimitBytes < 0 {
		return ErrLimitNegative
	}
	return nil
}
