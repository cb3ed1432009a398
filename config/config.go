package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is built once at process start by LoadConfig and passed explicitly to every
// component; nothing reads the environment after that.
//
// Example ENV equivalent:
//
//	NASA_API_KEY=DEMO_KEY
//	AWS_REGION=us-east-2
//	ACCESS_KEY=AKIA...
//	SECRET_ACCESS_KEY=...
//	ARCHIVE_BACKEND=s3
//	ARCHIVE_BUCKET=neopipeline-raw-data
//	RECORDS_BACKEND=dynamodb
//	RECORDS_TABLE=NEODailyData
type Config struct {
	Server   ServerConfig   // HTTP read API settings
	Log      LogConfig      // Logger settings
	NASA     NASAConfig     // Upstream feed settings
	AWS      AWSConfig      // Credentials/region for S3 and DynamoDB
	Archive  ArchiveConfig  // Raw-response object store
	Records  RecordsConfig  // Durable aggregate store
	Postgres PostgresConfig // PostgreSQL connection settings (records backend "postgres")
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// NASAConfig defines how to reach the NeoWs feed.
//
// Fields:
//   - APIKey: api.nasa.gov key (required).
//   - FeedURL: feed endpoint; overridable for tests and mirrors.
//   - Timeout: per-request timeout; zero leaves the deadline to the invoking environment.
type NASAConfig struct {
	APIKey  string
	FeedURL string
	Timeout time.Duration
}

// AWSConfig carries the static credentials used by the original deployment.
// Empty keys fall back to the SDK default credential chain.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// ArchiveConfig selects the object store for raw responses.
type ArchiveConfig struct {
	Backend  string // "s3", "gcs" or "local"
	Bucket   string // container name
	LocalDir string // base directory for the local backend
}

// RecordsConfig selects the durable store for daily aggregates.
type RecordsConfig struct {
	Backend string // "dynamodb" or "postgres"
	Table   string
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// Backend names.
const (
	ArchiveS3    = "s3"
	ArchiveGCS   = "gcs"
	ArchiveLocal = "local"

	RecordsDynamoDB = "dynamodb"
	RecordsPostgres = "postgres"
)

// LoadConfig builds a Config from defaults, an optional .env file and the environment.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() and returns its error when required fields are missing.
func LoadConfig() (Config, error) {
	v := viper.New()

	// Default values
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("NASA_FEED_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	v.SetDefault("NASA_TIMEOUT", "0s")

	v.SetDefault("AWS_REGION", "us-east-2")

	v.SetDefault("ARCHIVE_BACKEND", ArchiveS3)
	v.SetDefault("ARCHIVE_BUCKET", "neopipeline-raw-data")
	v.SetDefault("ARCHIVE_LOCAL_DIR", "./data/archive")

	v.SetDefault("RECORDS_BACKEND", RecordsDynamoDB)
	v.SetDefault("RECORDS_TABLE", "NEODailyData")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "neopulse")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	// Keys without a default are only seen by AutomaticEnv through an explicit bind.
	for _, key := range []string{"NASA_API_KEY", "ACCESS_KEY", "SECRET_ACCESS_KEY"} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		NASA: NASAConfig{
			APIKey:  v.GetString("NASA_API_KEY"),
			FeedURL: v.GetString("NASA_FEED_URL"),
			Timeout: v.GetDuration("NASA_TIMEOUT"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("ACCESS_KEY"),
			SecretAccessKey: v.GetString("SECRET_ACCESS_KEY"),
		},
		Archive: ArchiveConfig{
			Backend:  strings.ToLower(v.GetString("ARCHIVE_BACKEND")),
			Bucket:   v.GetString("ARCHIVE_BUCKET"),
			LocalDir: v.GetString("ARCHIVE_LOCAL_DIR"),
		},
		Records: RecordsConfig{
			Backend: strings.ToLower(v.GetString("RECORDS_BACKEND")),
			Table:   v.GetString("RECORDS_TABLE"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	cfg.Postgres.URL = cfg.Postgres.DSN()

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN renders the postgres:// connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// validateConfig ensures required variables are present and backend names are known.
//
// Behavior:
//   - Checks each critical field of cfg.
//   - Postgres fields are only required when the postgres records backend is selected.
//   - Collects missing ones in a slice and reports them all in one error.
func validateConfig(cfg Config) error {
	var missing []string

	if cfg.NASA.APIKey == "" {
		missing = append(missing, "NASA_API_KEY")
	}
	if cfg.NASA.FeedURL == "" {
		missing = append(missing, "NASA_FEED_URL")
	}
	if cfg.Archive.Bucket == "" {
		missing = append(missing, "ARCHIVE_BUCKET")
	}
	if cfg.Records.Table == "" {
		missing = append(missing, "RECORDS_TABLE")
	}

	switch cfg.Archive.Backend {
	case ArchiveS3:
		if cfg.AWS.Region == "" {
			missing = append(missing, "AWS_REGION")
		}
	case ArchiveGCS:
	case ArchiveLocal:
		if cfg.Archive.LocalDir == "" {
			missing = append(missing, "ARCHIVE_LOCAL_DIR")
		}
	default:
		return fmt.Errorf("unsupported ARCHIVE_BACKEND %q", cfg.Archive.Backend)
	}

	switch cfg.Records.Backend {
	case RecordsDynamoDB:
		if cfg.AWS.Region == "" && cfg.Archive.Backend != ArchiveS3 {
			missing = append(missing, "AWS_REGION")
		}
	case RecordsPostgres:
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		return fmt.Errorf("unsupported RECORDS_BACKEND %q", cfg.Records.Backend)
	}

	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey == "" {
		missing = append(missing, "SECRET_ACCESS_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}
