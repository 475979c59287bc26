package config

import (
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	// Environment overrides. Secrets and DSNs should come from the
	// environment in real deployments; the yaml values are for local use.
	EnvJWTSecret   = "JWT_SECRET"
	EnvMongoURI    = "MONGODB_URI"
	EnvPostgresDSN = "DATABASE_URL"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName string   `yaml:"service_name" validate:"required"`
	LogLevel    string   `yaml:"loglevel" validate:"required"`
	Host        string   `yaml:"host" validate:"required"`
	Port        string   `yaml:"port" validate:"required"`
	PingMessage string   `yaml:"ping_message"`
	Auth        Auth     `yaml:"auth" validate:"required"`
	Database    Database `yaml:"database" validate:"required"`
}

// Auth configures the token issuer. Secret may be empty in the file when the
// JWT_SECRET environment variable is set; an empty resolved secret is a
// startup error unless AllowDemoSecret is set for demo environments.
type Auth struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	AllowDemoSecret bool          `yaml:"allow_demo_secret"`
}

// Database selects and configures the persistence backend. Type "memory"
// needs no further configuration; "mongo" and "postgres" fall back to the
// seeded memory store when the connection attempt fails.
type Database struct {
	Type string `yaml:"type" validate:"required,oneof=memory mongo postgres"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"omitempty"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config" validate:"omitempty"`
}

// MongoDBConfig holds the MongoDB client configuration. URI may be overridden
// by the MONGODB_URI environment variable.
type MongoDBConfig struct {
	URI              string             `yaml:"uri"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections"`
}

// PostgresConfig holds the PostgreSQL client configuration. DSN may be
// overridden by the DATABASE_URL environment variable.
type PostgresConfig struct {
	DSN         string                `yaml:"dsn"`
	Timeout     time.Duration         `yaml:"timeout"`
	Options     PostgresServerOptions `yaml:"postgres_server_options"`
	ValidTables []string              `yaml:"valid_tables"`
	ValidFields []string              `yaml:"valid_fields"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the
// specified path and applies environment overrides for secrets and DSNs.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	if secret := os.Getenv(EnvJWTSecret); secret != "" {
		config.Auth.Secret = secret
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		config.Database.MongoDB.URI = uri
	}
	if dsn := os.Getenv(EnvPostgresDSN); dsn != "" {
		config.Database.Postgres.DSN = dsn
	}

	return config, nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	if cfg.APIVersion == "" {
		return nil
	}
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
