// Package paths resolves configuration and data directory locations for the
// wallet store.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the per-application directory appended to every platform
// base directory.
const appDirName = "fuels-wallet"

// DefaultDataDirName is the CWD-relative directory used when no data
// directory override is active.
const DefaultDataDirName = ".fuels-wallet"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "FUELS_WALLET_CONFIG_DIR"
	EnvDataDir   = "FUELS_WALLET_DATA_DIR"
)

// DefaultConfigDir returns the platform default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/fuels-wallet (fallback ~/.config/fuels-wallet)
// macOS:   ~/Library/Application Support/fuels-wallet
// Windows: %APPDATA%/fuels-wallet
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return linuxDir("XDG_CONFIG_HOME", ".config")
	}
	return platformDir()
}

// DefaultDataDir returns the platform default data directory. Outside Linux
// it coincides with the config directory.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return linuxDir("XDG_DATA_HOME", ".local", "share")
	}
	return platformDir()
}

// linuxDir follows the XDG base directory convention: the env var when set,
// otherwise the given path under the home directory.
func linuxDir(envVar string, fallback ...string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	parts = append(parts, appDirName)
	return filepath.Join(parts...), nil
}

// platformDir maps to ~/Library/Application Support on macOS and %APPDATA%
// on Windows.
func platformDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// ResolveConfigDir picks the configuration directory. Precedence: the flag,
// then FUELS_WALLET_CONFIG_DIR, then the platform default. Explicit choices
// are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	for _, candidate := range []string{flag, os.Getenv(EnvConfigDir)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory. Precedence: the flag, then the
// config file value, then FUELS_WALLET_DATA_DIR, then .fuels-wallet under
// the working directory. Explicit choices are made absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
