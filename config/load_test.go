package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chainstate/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.Equal(t, "chainstate", *cfg.Name)
	require.Equal(t, "http://127.0.0.1:8545", *cfg.Daemon.Url)
	require.False(t, *cfg.Daemon.Strict)
	require.True(t, *cfg.Watcher.Enabled)
	require.Equal(t, uint64(64), *cfg.Watcher.MaxBatch)
	require.Equal(t, 4, *cfg.Watcher.Workers)
	require.False(t, *cfg.Redis.Enabled)
	require.Equal(t, "chainstate", *cfg.Redis.Prefix)

	v, err := cfg.Daemon.ChainVariant()
	require.NoError(t, err)
	require.Equal(t, model.Ethereum, v)
	timeout, err := cfg.Daemon.RequestTimeout()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, timeout)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"daemon": {"url": "http://node:8545", "variant": "celo", "strict": true},
		"watcher": {"workers": "8"},
		"redis": {"enabled": true, "database": 2}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "http://node:8545", *cfg.Daemon.Url)
	require.True(t, *cfg.Daemon.Strict)
	require.Equal(t, "10s", *cfg.Daemon.Timeout)
	v, err := cfg.Daemon.ChainVariant()
	require.NoError(t, err)
	require.Equal(t, model.Celo, v)

	require.Equal(t, 8, *cfg.Watcher.Workers)
	require.Equal(t, "5s", *cfg.Watcher.Interval)
	require.True(t, *cfg.Redis.Enabled)
	require.Equal(t, 2, *cfg.Redis.Database)
	require.Equal(t, "127.0.0.1:6379", *cfg.Redis.Url)
}

func TestLoadErrors(t *testing.T) {
	testCases := map[string]string{
		"unknown variant": `{"daemon": {"variant": "bitcoin"}}`,
		"bad timeout":     `{"daemon": {"timeout": "soon"}}`,
		"empty url":       `{"daemon": {"url": ""}}`,
		"bad interval":    `{"watcher": {"interval": "5"}}`,
		"zero workers":    `{"watcher": {"workers": 0}}`,
		"unknown key":     `{"daemon": {"host": "127.0.0.1"}}`,
		"not json":        `daemon: {}`,
	}
	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
