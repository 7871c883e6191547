package config

import "sync"

var (
	current   *Config
	currentMu sync.RWMutex
)

// Initialize loads the configuration at path, applying defaults and
// environment overrides, and installs it as the process-wide configuration.
// A missing file installs the defaults; the returned bool reports whether the
// file existed. On error the previous configuration stays in place.
func Initialize(path string) (bool, error) {
	cfg, found, err := LoadConfigOrDefault(path)
	if err != nil {
		return false, err
	}

	SetConfig(cfg)
	return found, nil
}

// GetConfig returns the process-wide configuration, or nil before Initialize.
// Library code should take a *Config argument instead.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the process-wide configuration.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}
