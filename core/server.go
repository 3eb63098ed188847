package core

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"chainstate/config"
)

const senderBuffer = 64

type Server struct {
	cfg     *config.Config
	daemon  *Daemon
	sender  *Sender
	watcher *Watcher
	redis   *Redis

	metrics *http.Server
}

func NewServer(cfg *config.Config) (*Server, error) {
	daemon, err := NewDaemon(cfg.Daemon)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		daemon: daemon,
		sender: NewSender(senderBuffer),
	}
	s.sender.Attach(LogSubscriber{})

	if cfg.Redis != nil && *cfg.Redis.Enabled {
		s.redis = NewRedis(cfg.Redis)
		if err := s.redis.Ping(); err != nil {
			log.Warnf("Redis at %s is not reachable yet: %v", *cfg.Redis.Url, err)
		}
		s.sender.Attach(s.redis)
	}
	if cfg.Watcher != nil && *cfg.Watcher.Enabled {
		s.watcher = NewWatcher(daemon, s.sender, cfg.Watcher)
	}
	return s, nil
}

// Daemon returns the node client shared by the server components.
func (s *Server) Daemon() *Daemon {
	return s.daemon
}

func (s *Server) Start() {
	if s.cfg.Metrics != nil && *s.cfg.Metrics.Enabled {
		s.metrics = &http.Server{Addr: *s.cfg.Metrics.Listen, Handler: promhttp.Handler()}
		go func() {
			log.Infof("Metrics listening on %s", s.metrics.Addr)
			if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("Metrics server: %v", err)
			}
		}()
	}
	if s.watcher != nil {
		s.watcher.Start()
	}
}

func (s *Server) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.sender.Close()
	if s.redis != nil {
		s.redis.Close()
	}
	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			log.Errorf("Metrics shutdown: %v", err)
		}
	}
}
