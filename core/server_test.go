package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chainstate/config"
)

func TestServerStartClose(t *testing.T) {
	head := uint64(3)
	node := blockNode(t, &head)

	cfg, err := config.Default()
	require.NoError(t, err)
	url, listen, enabled := node.URL, "127.0.0.1:0", true
	cfg.Daemon.Url = &url
	cfg.Metrics.Enabled = &enabled
	cfg.Metrics.Listen = &listen

	s, err := NewServer(cfg)
	require.NoError(t, err)
	require.NotNil(t, s.Daemon())
	require.NotNil(t, s.watcher)
	require.Nil(t, s.redis)

	rec := newRecorder()
	s.sender.Attach(rec)
	s.Start()
	require.Equal(t, []uint64{3}, rec.collect(t, 1))
	s.Close()
}

func TestServerWithoutWatcher(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	disabled := false
	cfg.Watcher.Enabled = &disabled

	s, err := NewServer(cfg)
	require.NoError(t, err)
	require.Nil(t, s.watcher)
	s.Start()
	s.Close()
}
