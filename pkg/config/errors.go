package config

import "fmt"

// ConfigError reports a missing or malformed tunable, corresponding to
// spec.md §7's ConfigurationMissing class: fatal at startup, the caller
// should refuse to construct the scoring layer.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

func newConfigError(key, reason string) error {
	return &ConfigError{Key: key, Reason: reason}
}
