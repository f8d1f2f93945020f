package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
)

// Config holds runtime settings for the taskkeeper CLI.
//
// Fields:
//   - APIBaseURL: base of the task API, e.g. "http://127.0.0.1:3456/api/v1/".
//   - RequestTimeout: client-side timeout of a single API request.
//   - PersistToken: whether tokens saved by login/refresh are written to storage.
//   - StorageBackend / StorageDSN / StorageOrigin: durable store selection,
//     see storage.Options.
//   - StoragePassphrase: when set, stored values are encrypted with a key
//     derived from it. JSON file only, never a flag.
//   - S3*: object storage settings, used when StorageBackend is "s3".
//   - StrictReminderUnits: reject unknown reminder units instead of storing 0.
//   - CoalesceRefresh: share one in-flight token refresh between callers.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	PersistToken        bool
	StorageBackend      string
	StorageDSN          string
	StorageOrigin       string
	StoragePassphrase   string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	S3AccessKey         string
	S3SecretKey         string
	StrictReminderUnits bool
	CoalesceRefresh     bool
	LogLevel            string
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3456/api/v1/"
	c.RequestTimeout = 10 * time.Second
	c.PersistToken = true
	c.StorageBackend = storage.BackendSQLite
	c.StorageDSN = "taskkeeper.db"
	c.StorageOrigin = "default"
	c.S3Bucket = "taskkeeper"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
}

// StorageOptions maps the storage fields to storage.Options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.StorageBackend,
		DSN:        c.StorageDSN,
		Origin:     c.StorageOrigin,
		Passphrase: c.StoragePassphrase,
		S3: storage.S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		},
	}
}

// SlogLevel parses LogLevel, falling back to info for unknown names.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// LoadConfig builds a Config from defaults, then the optional JSON file, then
// command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
