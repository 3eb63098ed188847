package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"chainstate/config"
	"chainstate/model"
)

const Separator = ":"

const publishTimeout = 5 * time.Second

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Redis publishes every block it is notified about, encoded with the
// block's wire keys, to the <prefix>:blocks channel.
type Redis struct {
	Prefix string
	Client *redis.Client

	pub        publisher
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func NewRedis(cfg *config.Redis) *Redis {
	ctx, cancel := context.WithCancel(context.Background())

	client := redis.NewClient(&redis.Options{
		Addr:     *cfg.Url,
		Password: *cfg.Password,
		DB:       *cfg.Database,
		PoolSize: *cfg.PoolSize,
	})

	return &Redis{
		Prefix: *cfg.Prefix,
		Client: client,

		pub:        client,
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Channel is the pub/sub channel blocks are published to.
func (r *Redis) Channel() string {
	return r.Prefix + Separator + "blocks"
}

// Ping checks the connection.
func (r *Redis) Ping() error {
	return r.Client.Ping(r.ctx).Err()
}

func (r *Redis) Notify(block model.AnyBlock[common.Hash]) {
	if err := r.publish(block); err != nil {
		log.Errorf("Unable to publish block to %s: %v", r.Channel(), err)
	}
}

func (r *Redis) publish(block model.AnyBlock[common.Hash]) error {
	data, err := json.Marshal(block)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(r.ctx, publishTimeout)
	defer cancel()
	return r.pub.Publish(ctx, r.Channel(), data).Err()
}

func (r *Redis) Close() {
	r.cancelFunc()
	if r.Client != nil {
		r.Client.Close()
	}
}
