package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://tasks/api/v1/", "-s", "postgres", "-d", "postgres://u@h/db", "-o", "work", "-t", "7", "-p=false"},
			expected: &Config{
				APIBaseURL:     "http://tasks/api/v1/",
				StorageBackend: "postgres",
				StorageDSN:     "postgres://u@h/db",
				StorageOrigin:  "work",
				RequestTimeout: 7 * time.Second,
				PersistToken:   false,
			},
		},
		{
			name:     "unknown flags are filtered",
			args:     []string{"-x", "1", "-c", "cfg.json", "-d", "local.db"},
			expected: &Config{StorageDSN: "local.db"},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsPreviousValues(t *testing.T) {
	var c Config
	c.LoadDefaults()
	want := c

	parseFlags(&c, nil)

	assert.Empty(t, cmp.Diff(want, c))
}
