package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"chainstate/config"
	"chainstate/jsonrpc"
	"chainstate/model"
)

const defaultTimeout = 10 * time.Second

// maxBlockRange bounds a single GetBlockRange call.
const maxBlockRange = 1 << 16

// ErrBlockNotFound is returned when the node answers a block query with null.
var ErrBlockNotFound = errors.New("block not found")

// Daemon is a JSON-RPC client of an Ethereum compatible node. Blocks are
// decoded with the chain variant the daemon is configured for.
type Daemon struct {
	url     string
	client  *http.Client
	variant model.Variant
	strict  bool

	lastId uint64
}

// NewDaemon
func NewDaemon(cfg *config.Daemon) (*Daemon, error) {
	if cfg == nil || cfg.Url == nil || *cfg.Url == "" {
		return nil, errors.New("daemon url is not configured")
	}
	variant, err := cfg.ChainVariant()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Daemon{
		url:     *cfg.Url,
		client:  &http.Client{Timeout: timeout},
		variant: variant,
		strict:  cfg.Strict != nil && *cfg.Strict,
	}, nil
}

// Variant returns the block shape this daemon decodes.
func (n *Daemon) Variant() model.Variant {
	return n.variant
}

// BlockNumber delegates to `eth_blockNumber` API method, and returns the current block number
func (n *Daemon) BlockNumber(ctx context.Context) (uint64, error) {
	var number hexutil.Uint64
	if err := n.call(ctx, &number, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(number), nil
}

// Balance delegates to `eth_getBalance` API method, and returns the address's balance at the given block
func (n *Daemon) Balance(ctx context.Context, address common.Address, id model.BlockID) (*big.Int, error) {
	var balance hexutil.Big
	if err := n.call(ctx, &balance, "eth_getBalance", address, id); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}

// GetBlock returns the block with transaction hashes only.
func (n *Daemon) GetBlock(ctx context.Context, id model.BlockID) (model.AnyBlock[common.Hash], error) {
	return getBlock[common.Hash](ctx, n, id, false)
}

// GetFullBlock returns the block with full transaction objects.
func (n *Daemon) GetFullBlock(ctx context.Context, id model.BlockID) (model.AnyBlock[*types.Transaction], error) {
	return getBlock[*types.Transaction](ctx, n, id, true)
}

// GetBlockRange fetches blocks [from, to] with at most workers requests in
// flight. Blocks are returned in height order.
func (n *Daemon) GetBlockRange(ctx context.Context, from, to uint64, workers int) ([]model.AnyBlock[common.Hash], error) {
	if to < from {
		return nil, fmt.Errorf("invalid block range [%d, %d]", from, to)
	}
	if to-from >= maxBlockRange {
		return nil, fmt.Errorf("block range [%d, %d] exceeds %d blocks", from, to, maxBlockRange)
	}
	if workers < 1 {
		workers = 1
	}
	blocks := make([]model.AnyBlock[common.Hash], to-from+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for height := from; height <= to; height++ {
		height := height
		g.Go(func() error {
			block, err := n.GetBlock(gctx, model.BlockIDFromUint64(height))
			if err != nil {
				return err
			}
			blocks[height-from] = block
			return nil
		})
		if height == to {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// getBlock delegates to `eth_getBlockByHash` or `eth_getBlockByNumber`
// depending on how id references the block.
func getBlock[TX any](ctx context.Context, n *Daemon, id model.BlockID, fullTx bool) (model.AnyBlock[TX], error) {
	var (
		method = "eth_getBlockByNumber"
		param  interface{}
	)
	if hash, ok := id.Hash(); ok {
		method, param = "eth_getBlockByHash", hash
	} else {
		param, _ = id.Number()
	}

	data, err := n.sendHttpRequest(ctx, method, param, fullTx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	block, err := model.Decode[TX](n.variant, data, n.strict)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, id, err)
	}
	return block, nil
}

func (n *Daemon) call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	data, err := n.sendHttpRequest(ctx, method, params...)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s: empty result", method)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%s: unable to decode result: %w", method, err)
	}
	return nil
}

// sendHttpRequest 发送请求
func (n *Daemon) sendHttpRequest(ctx context.Context, method string, params ...interface{}) (data json.RawMessage, err error) {
	start := time.Now()
	rpcRequests.WithLabelValues(method).Inc()
	defer func() {
		rpcDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		if err != nil {
			rpcErrors.WithLabelValues(method).Inc()
		}
	}()

	body, err := jsonrpc.MarshalRequest(jsonrpc.NewRequest(atomic.AddUint64(&n.lastId, 1), method, params...))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to encode request: %w", method, err)
	}
	log.Debugf("RPC request: %s", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected HTTP status %s", method, resp.Status)
	}

	// Additional error check
	parsed, err := jsonrpc.UnmarshalResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to unmarshal node's resp (%s)", method, string(raw))
	}
	if parsed.Error != nil {
		return nil, parsed.Error
	}
	if parsed.IsNull() {
		return nil, nil
	}
	return parsed.Result, nil
}
