package core

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"chainstate/config"
	"chainstate/util"
)

// Watcher follows the chain head and hands every new block to the sender.
type Watcher struct {
	daemon *Daemon
	sender *Sender

	interval time.Duration
	maxBatch uint64
	workers  int

	// next is the first height not yet handed to the sender.
	next    uint64
	started bool

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	intervalTimer *time.Timer
}

// NewWatcher
func NewWatcher(daemon *Daemon, sender *Sender, cfg *config.Watcher) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		daemon:   daemon,
		sender:   sender,
		interval: util.MustParseDuration(*cfg.Interval),
		maxBatch: *cfg.MaxBatch,
		workers:  *cfg.Workers,

		ctx:        ctx,
		cancelFunc: cancel,
	}
}

func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.listen()
}

func (w *Watcher) listen() {
	defer w.wg.Done()

	log.Info("Starting block watcher")
	w.intervalTimer = time.NewTimer(0)
	defer w.intervalTimer.Stop()
	log.Infof("Set block watcher interval to %v", w.interval)

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-w.intervalTimer.C:
			if err := w.poll(w.ctx); err != nil && w.ctx.Err() == nil {
				log.Errorf("Unable to fetch new blocks: %v", err)
			}
			w.intervalTimer.Reset(w.interval)
		}
	}
}

// poll fetches the blocks produced since the previous call. The first call
// only reports the current head. When the node is more than maxBatch blocks
// ahead the oldest ones are skipped.
func (w *Watcher) poll(ctx context.Context) error {
	head, err := w.daemon.BlockNumber(ctx)
	if err != nil {
		return err
	}

	from := w.next
	if !w.started {
		from = head
	}
	if head < from {
		return nil
	}
	if head-from+1 > w.maxBatch {
		skipped := head - from + 1 - w.maxBatch
		log.Warnf("Watcher is %d blocks behind, skipping %d", head-from+1, skipped)
		from = head - w.maxBatch + 1
	}

	blocks, err := w.daemon.GetBlockRange(ctx, from, head, w.workers)
	if err != nil {
		return err
	}
	for _, block := range blocks {
		if !w.sender.Send(block) {
			return nil
		}
	}

	w.next = head + 1
	w.started = true
	watcherHeight.Set(float64(head))
	return nil
}

func (w *Watcher) Close() {
	w.cancelFunc()

	w.wg.Wait()
}
