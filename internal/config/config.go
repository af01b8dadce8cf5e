package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	Store    StoreConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	HTTP     HTTPConfig
	Token    TokenConfig
}

type StoreConfig struct {
	Driver  string `env:"STORE_DRIVER" env-default:"file"`
	Key     string `env:"STORE_KEY" env-default:"tasks"`
	FileDir string `env:"STORE_FILE_DIR" env-default:"./data"`
}

// PostgresConfig is only read when STORE_DRIVER is postgres.
type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	Table          string        `env:"POSTGRES_KV_TABLE" env-default:"kv_store"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

// MongoConfig is only read when STORE_DRIVER is mongo.
type MongoConfig struct {
	URI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" env-default:"tasklist"`
	Collection     string        `env:"MONGO_COLLECTION" env-default:"kv_store"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"MONGO_PING_TIMEOUT" env-default:"10s"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"localhost"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// TokenConfig protects the HTTP API with bearer tokens when
// SigningKey is set. An empty key leaves the API open.
type TokenConfig struct {
	Issuer     string        `env:"TOKEN_ISSUER" env-default:"tasklist"`
	SigningKey string        `env:"TOKEN_SIGNING_KEY"`
	TTL        time.Duration `env:"TOKEN_TTL" env-default:"720h"`
}
