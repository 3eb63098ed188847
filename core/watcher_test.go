package core

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"chainstate/config"
	"chainstate/jsonrpc"
	"chainstate/model"
)

// recorder collects the heights of the blocks it is notified about.
type recorder struct {
	ch chan uint64
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan uint64, 128)}
}

func (r *recorder) Notify(block model.AnyBlock[common.Hash]) {
	r.ch <- *block.Fields().Number
}

func (r *recorder) collect(t *testing.T, n int) []uint64 {
	t.Helper()
	heights := make([]uint64, 0, n)
	for len(heights) < n {
		select {
		case h := <-r.ch:
			heights = append(heights, h)
		case <-time.After(5 * time.Second):
			t.Fatalf("got %d of %d blocks: %v", len(heights), n, heights)
		}
	}
	return heights
}

func (r *recorder) requireEmpty(t *testing.T) {
	t.Helper()
	select {
	case h := <-r.ch:
		t.Fatalf("unexpected block %d", h)
	case <-time.After(50 * time.Millisecond):
	}
}

func blockNode(t *testing.T, head *uint64) *fakeNode {
	return newFakeNode(t, func(call rpcCall) (string, *jsonrpc.Error) {
		switch call.Method {
		case "eth_blockNumber":
			data, _ := json.Marshal(model.NumberedBlock(atomic.LoadUint64(head)))
			return string(data), nil
		case "eth_getBlockByNumber":
			var n model.BlockNumber
			if err := json.Unmarshal(call.Params[0], &n); err != nil {
				return "", &jsonrpc.Error{Code: -32602, Message: err.Error()}
			}
			h, _ := n.Height()
			return ethBlock(h, `[]`), nil
		}
		return "", &jsonrpc.Error{Code: -32601, Message: "method not found"}
	})
}

func TestSenderFanOut(t *testing.T) {
	s := NewSender(4)
	defer s.Close()
	a, b := newRecorder(), newRecorder()
	s.Attach(a, b)

	for h := uint64(1); h <= 3; h++ {
		block, err := model.DecodeBlock[common.Hash]([]byte(ethBlock(h, `[]`)), false)
		require.NoError(t, err)
		require.True(t, s.Send(block))
	}
	require.Equal(t, []uint64{1, 2, 3}, a.collect(t, 3))
	require.Equal(t, []uint64{1, 2, 3}, b.collect(t, 3))

	s.Detach(b)
	block, err := model.DecodeBlock[common.Hash]([]byte(ethBlock(4, `[]`)), false)
	require.NoError(t, err)
	require.True(t, s.Send(block))
	require.Equal(t, []uint64{4}, a.collect(t, 1))
	b.requireEmpty(t)
}

func TestSenderClosed(t *testing.T) {
	s := NewSender(0)
	s.Close()
	block, err := model.DecodeBlock[common.Hash]([]byte(ethBlock(1, `[]`)), false)
	require.NoError(t, err)
	require.False(t, s.Send(block))
}

func newTestWatcher(t *testing.T, d *Daemon, s *Sender, maxBatch uint64) *Watcher {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Watcher.MaxBatch = &maxBatch
	return NewWatcher(d, s, cfg.Watcher)
}

func TestWatcherPoll(t *testing.T) {
	head := uint64(5)
	node := blockNode(t, &head)
	d := newTestDaemon(t, node.URL, "ethereum", false)
	s := NewSender(16)
	defer s.Close()
	rec := newRecorder()
	s.Attach(rec)
	w := newTestWatcher(t, d, s, 3)
	ctx := context.Background()

	// First poll reports the head only.
	require.NoError(t, w.poll(ctx))
	require.Equal(t, []uint64{5}, rec.collect(t, 1))

	atomic.StoreUint64(&head, 7)
	require.NoError(t, w.poll(ctx))
	require.Equal(t, []uint64{6, 7}, rec.collect(t, 2))

	require.NoError(t, w.poll(ctx))
	rec.requireEmpty(t)

	// Too far behind, only the last maxBatch blocks are fetched.
	atomic.StoreUint64(&head, 20)
	require.NoError(t, w.poll(ctx))
	require.Equal(t, []uint64{18, 19, 20}, rec.collect(t, 3))
}

func TestWatcherStartClose(t *testing.T) {
	head := uint64(9)
	node := blockNode(t, &head)
	d := newTestDaemon(t, node.URL, "ethereum", false)
	s := NewSender(16)
	defer s.Close()
	rec := newRecorder()
	s.Attach(rec)

	w := newTestWatcher(t, d, s, 8)
	w.Start()
	require.Equal(t, []uint64{9}, rec.collect(t, 1))
	w.Close()
}
