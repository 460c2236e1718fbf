package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"fleet/internal/pkg/errs"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	HistoryBackendPostgres = "postgres"
	HistoryBackendMongo    = "mongo"

	DefaultHTTPPort                 = "8080"
	DefaultConsistencySweepSchedule = "0 */5 * * * *"
	DefaultHistoryPurgeSchedule     = "0 0 3 * * *"
	DefaultHistoryRetentionDays     = 90
	DefaultMongoDatabase            = "fleet"
	DefaultMQTTClientID             = "fleet-status-engine"
)

type Config struct {
	HTTPPort string
	LogLevel slog.Level

	StoreBackend   string
	HistoryBackend string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBDriver   string

	MongoURI      string
	MongoDatabase string

	RedisAddr    string
	RedisChannel string

	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	ConsistencySweepSchedule string
	HistoryPurgeSchedule     string
	HistoryRetentionDays     int
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   c.DBName,
	}
	if c.DBSslMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DBSslMode}}.Encode()
	}
	return u.String()
}

// NeedsPostgres reports whether any store lives in Postgres.
func (c Config) NeedsPostgres() bool {
	return c.StoreBackend == StoreBackendPostgres || c.HistoryBackend == HistoryBackendPostgres
}

// HistoryRetention is the age after which history records are purged.
func (c Config) HistoryRetention() time.Duration {
	return time.Duration(c.HistoryRetentionDays) * 24 * time.Hour
}

func (c Config) Validate() error {
	var problems []error

	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	switch c.StoreBackend {
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("STORE_BACKEND",
			fmt.Errorf("%q, want %s or %s", c.StoreBackend, StoreBackendPostgres, StoreBackendMemory)))
	}
	switch c.HistoryBackend {
	case HistoryBackendPostgres:
	case HistoryBackendMongo:
		if c.MongoURI == "" {
			problems = append(problems, errs.NewValueIsRequiredError("MONGO_URI"))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("HISTORY_BACKEND",
			fmt.Errorf("%q, want %s or %s", c.HistoryBackend, HistoryBackendPostgres, HistoryBackendMongo)))
	}
	if c.NeedsPostgres() && (c.DBHost == "" || c.DBName == "") {
		problems = append(problems, errs.NewValueIsRequiredError("DB_HOST and DB_NAME"))
	}
	if c.HistoryRetentionDays < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("HISTORY_RETENTION_DAYS", c.HistoryRetentionDays, 1, "unbounded"))
	}

	return errors.Join(problems...)
}
