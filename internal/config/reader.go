package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverFile, StoreDriverMongo:
	case StoreDriverPostgres:
		if c.Postgres.Username == "" || c.Postgres.Database == "" {
			return fmt.Errorf("postgres store requires POSTGRES_USERNAME and POSTGRES_DATABASE")
		}
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	if c.Store.Key == "" {
		return fmt.Errorf("store key must not be empty")
	}
	return nil
}
