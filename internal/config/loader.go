package config

import (
	"fmt"
	"os"
	"runtime"
)

// LoadFrom reads the config file at path, applies environment overrides and
// validates the result. An empty path loads defaults plus environment only.
func LoadFrom(path string) (*Config, error) {
	v := newViper()
	bindEnv(v)

	if path != "" {
		if err := checkReadable(path); err != nil {
			return nil, err
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &InvalidConfigError{
				Path:    path,
				Message: fmt.Sprintf("parse error: %v", err),
				Hint:    "The file must be YAML (or JSON/TOML with a matching extension)",
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("decode error: %v", err),
		}
	}
	cfg.source = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkReadable turns a missing or unreadable config file into a typed error
// with a hint before viper gets to report it.
func checkReadable(path string) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return &ConfigNotFoundError{
			Path: path,
			Hint: "Create it or drop --config to use the built-in defaults",
		}
	case err != nil:
		return fmt.Errorf("failed to access config: %w", err)
	case info.IsDir():
		return &InvalidConfigError{Path: path, Message: "path is a directory"}
	}

	f, err := os.Open(path)
	if os.IsPermission(err) {
		perm := &PermissionError{Path: path, Op: "read", Fix: fmt.Sprintf("Run: chmod 644 %s", path)}
		if runtime.GOOS == "windows" {
			perm.Fix = fmt.Sprintf("Grant your user read access to %s in its Security properties", path)
		} else {
			perm.Details = fmt.Sprintf("Current permissions: %04o", info.Mode().Perm())
		}
		return perm
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return f.Close()
}
