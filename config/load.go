package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"

	"chainstate/model"
	"chainstate/util"
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"name": "chainstate",
		"logger": map[string]interface{}{
			"level":  "info",
			"format": "text",
		},
		"daemon": map[string]interface{}{
			"url":     "http://127.0.0.1:8545",
			"variant": "ethereum",
			"timeout": "10s",
			"strict":  false,
		},
		"watcher": map[string]interface{}{
			"enabled":  true,
			"interval": "5s",
			"maxBatch": 64,
			"workers":  4,
		},
		"redis": map[string]interface{}{
			"enabled":  false,
			"url":      "127.0.0.1:6379",
			"password": "",
			"prefix":   "chainstate",
			"database": 0,
			"poolSize": 10,
		},
		"metrics": map[string]interface{}{
			"enabled": false,
			"listen":  "127.0.0.1:9100",
		},
	}
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return decode(defaults())
}

// Load reads a JSON configuration file and lays it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file at %q: %w", path, err)
	}
	var custom map[string]interface{}
	if err := json.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("unable to decode config file %q: %w", path, err)
	}
	return decode(merge(defaults(), custom))
}

func decode(raw map[string]interface{}) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge copies src into dst, descending into nested objects.
func merge(dst, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		srcMap, srcOk := v.(map[string]interface{})
		dstMap, dstOk := dst[k].(map[string]interface{})
		if srcOk && dstOk {
			dst[k] = merge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
	return dst
}

// Validate checks the values that can't be caught by decoding.
func (c *Config) Validate() error {
	if c.Daemon == nil || c.Daemon.Url == nil || *c.Daemon.Url == "" {
		return errors.New("daemon.url is required")
	}
	if _, err := c.Daemon.ChainVariant(); err != nil {
		return fmt.Errorf("daemon.variant: %w", err)
	}
	if _, err := c.Daemon.RequestTimeout(); err != nil {
		return fmt.Errorf("daemon.timeout: %w", err)
	}
	if c.Watcher != nil {
		if _, err := time.ParseDuration(*c.Watcher.Interval); err != nil {
			return fmt.Errorf("watcher.interval: %w", err)
		}
		if *c.Watcher.Workers < 1 {
			return fmt.Errorf("watcher.workers must be positive, got %d", *c.Watcher.Workers)
		}
		if *c.Watcher.MaxBatch < 1 {
			return errors.New("watcher.maxBatch must be positive")
		}
	}
	if c.Redis != nil && *c.Redis.Enabled && *c.Redis.Url == "" {
		return errors.New("redis.url is required when redis is enabled")
	}
	return nil
}

// ChainVariant parses the configured block shape.
func (d *Daemon) ChainVariant() (model.Variant, error) {
	if d.Variant == nil {
		return model.Ethereum, nil
	}
	return model.ParseVariant(*d.Variant)
}

// RequestTimeout parses the per request timeout.
func (d *Daemon) RequestTimeout() (time.Duration, error) {
	if d.Timeout == nil {
		return 0, nil
	}
	return util.ParseDurationOr(*d.Timeout, 0)
}
