package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the JSON file shape. Absent keys keep earlier values, so
// pointer fields distinguish "false"/"0" from "not set".
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	PersistToken        *bool           `json:"persist_token"`
	StorageBackend      string          `json:"storage_backend"`
	StorageDSN          string          `json:"storage_dsn"`
	StorageOrigin       string          `json:"storage_origin"`
	StoragePassphrase   string          `json:"storage_passphrase"`
	S3Bucket            string          `json:"s3_bucket"`
	S3Region            string          `json:"s3_region"`
	S3BaseEndpoint      string          `json:"s3_base_endpoint"`
	S3AccessKey         string          `json:"s3_access_key"`
	S3SecretKey         string          `json:"s3_secret_key"`
	StrictReminderUnits *bool           `json:"strict_reminder_units"`
	CoalesceRefresh     *bool           `json:"coalesce_refresh"`
	LogLevel            string          `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// parseJson overlays cfg with the file named by -c or -config. It panics on
// read or decode errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setBool(&cfg.PersistToken, jc.PersistToken)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.StorageOrigin, jc.StorageOrigin)
	setString(&cfg.StoragePassphrase, jc.StoragePassphrase)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setBool(&cfg.StrictReminderUnits, jc.StrictReminderUnits)
	setBool(&cfg.CoalesceRefresh, jc.CoalesceRefresh)
	setString(&cfg.LogLevel, jc.LogLevel)
}
