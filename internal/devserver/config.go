package devserver

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// Config holds the dev server settings.
//
// NOTE: the defaults are for local use only.
type Config struct {
	Addr          string
	SecretKey     string
	TokenValidity time.Duration
	UserID        string
}

func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:3456"
	c.SecretKey = "secretKey"
	c.TokenValidity = 15 * time.Minute
	c.UserID = "dev"
}

type jsonConfig struct {
	Addr          string         `json:"addr"`
	SecretKey     string         `json:"secret_key"`
	TokenValidity timex.Duration `json:"token_validity"`
	UserID        string         `json:"user_id"`
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := cfg.overlayJSON(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if jc.Addr != "" {
		c.Addr = jc.Addr
	}
	if jc.SecretKey != "" {
		c.SecretKey = jc.SecretKey
	}
	if jc.TokenValidity.Duration != 0 {
		c.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.UserID != "" {
		c.UserID = jc.UserID
	}
	return nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "a", c.Addr, "listen address")
	fs.StringVar(&c.SecretKey, "k", c.SecretKey, "token signing secret")
	validity := fs.Int("v", int(c.TokenValidity.Seconds()), "token validity (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-k", "-v"})); err != nil {
		return err
	}
	c.TokenValidity = time.Duration(*validity) * time.Second
	return nil
}
