package core

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"chainstate/model"
)

// Subscriber receives every block the watcher picks up, in height order.
type Subscriber interface {
	Notify(block model.AnyBlock[common.Hash])
}

// Sender fans blocks out to the attached subscribers.
type Sender struct {
	blockCh chan model.AnyBlock[common.Hash]

	subsMu sync.RWMutex
	subs   []Subscriber

	quit chan struct{}
	wg   sync.WaitGroup
}

func NewSender(buffer int) *Sender {
	s := &Sender{
		blockCh: make(chan model.AnyBlock[common.Hash], buffer),
		quit:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Sender) loop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.quit:
			return

		case block := <-s.blockCh:
			s.subsMu.RLock()
			subs := make([]Subscriber, len(s.subs))
			copy(subs, s.subs)
			s.subsMu.RUnlock()

			for _, v := range subs {
				v.Notify(block)
			}
		}
	}
}

// Send queues a block for delivery. It returns false once the sender is closed.
func (s *Sender) Send(block model.AnyBlock[common.Hash]) bool {
	select {
	case <-s.quit:
		return false
	case s.blockCh <- block:
		return true
	}
}

func (s *Sender) Attach(subs ...Subscriber) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.subs = append(s.subs, subs...)
}

func (s *Sender) Detach(sub Subscriber) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for k, v := range s.subs {
		if sub == v {
			s.subs = append(s.subs[:k], s.subs[k+1:]...)
			return
		}
	}
}

func (s *Sender) Close() {
	close(s.quit)

	s.wg.Wait()
}

// LogSubscriber 打印区块日志
type LogSubscriber struct{}

func (LogSubscriber) Notify(block model.AnyBlock[common.Hash]) {
	f := block.Fields()
	entry := log.WithFields(log.Fields{
		"variant": block.Variant().String(),
		"txs":     len(f.Transactions),
	})
	if f.Number != nil {
		entry = entry.WithField("number", *f.Number)
	}
	if f.Hash != nil {
		entry = entry.WithField("hash", f.Hash.Hex())
	}
	entry.Info("New block")
}
