package config

import "errors"

// Sentinel error kinds for this package, matched by callers via errors.Is.
// ErrLoadConfig covers source failures (file, env, unmarshal); ErrInvalidConfig
// covers values the engine cannot run with.
var (
	ErrLoadConfig    = errors.New("load config failed")
	ErrInvalidConfig = errors.New("invalid config")
)
