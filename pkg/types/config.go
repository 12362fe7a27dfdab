package types

import "errors"

// Config holds the parameters for constructing the wallet store.
type Config struct {
	// DataDir is the directory holding the database file.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// AlwaysOpen converts close requests into self-heal reopen cycles while
	// the restart-attempt budget lasts. The store is a shared, always-on
	// resource for the whole process, so this defaults to true.
	AlwaysOpen bool `json:"always_open" yaml:"always_open"`

	// ReportURL is the endpoint the error reporting sink posts to.
	// Empty disables reporting.
	ReportURL string `json:"report_url" yaml:"report_url"`
}

// Config validation errors.
var ErrDataDirEmpty = errors.New("data dir must not be empty")

// DefaultConfig returns a Config with the always-open policy enabled.
func DefaultConfig(dataDir string) Config {
	return Config{DataDir: dataDir, AlwaysOpen: true}
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}
