package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid_config")

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	if err := serverCfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}

// Validate checks the cross-field rules env tags cannot express.
func (c ServerConfig) Validate() error {
	switch c.StorageDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: POSTGRES_DSN is required for the postgres driver", ErrInvalidConfig)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for the sqlite driver", ErrInvalidConfig)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.LoginMaxAttempts < 1 {
		return fmt.Errorf("%w: LOGIN_MAX_ATTEMPTS must be >= 1", ErrInvalidConfig)
	}
	return nil
}
