package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

type blockTag uint8

const (
	tagNumber blockTag = iota
	tagLatest
	tagEarliest
	tagPending
)

// BlockNumber is either an exact block height or one of the symbolic
// positions "latest", "earliest" and "pending". The zero value is height 0.
type BlockNumber struct {
	tag    blockTag
	height uint64
}

var (
	// LatestBlock is the most recent block of the canonical chain.
	LatestBlock = BlockNumber{tag: tagLatest}
	// EarliestBlock is the genesis block.
	EarliestBlock = BlockNumber{tag: tagEarliest}
	// PendingBlock is the block currently being built.
	PendingBlock = BlockNumber{tag: tagPending}
)

// NumberedBlock returns the BlockNumber of an exact height.
func NumberedBlock(height uint64) BlockNumber {
	return BlockNumber{height: height}
}

// BlockNumberOf converts any unsigned integer, hexutil.Uint64 included, into
// a height. Integers never turn into a symbolic tag.
func BlockNumberOf[T ~uint8 | ~uint16 | ~uint32 | ~uint64](height T) BlockNumber {
	return NumberedBlock(uint64(height))
}

// Height returns the exact height and true, or false for a symbolic tag.
func (n BlockNumber) Height() (uint64, bool) {
	return n.height, n.tag == tagNumber
}

func (n BlockNumber) IsLatest() bool   { return n.tag == tagLatest }
func (n BlockNumber) IsEarliest() bool { return n.tag == tagEarliest }
func (n BlockNumber) IsPending() bool  { return n.tag == tagPending }

// String returns the wire form: "0x" quantity or the tag name.
func (n BlockNumber) String() string {
	switch n.tag {
	case tagLatest:
		return "latest"
	case tagEarliest:
		return "earliest"
	case tagPending:
		return "pending"
	default:
		return hexutil.EncodeUint64(n.height)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (n BlockNumber) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// MarshalJSON implements json.Marshaler, the result is always a JSON string.
func (n BlockNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON accepts everything ParseBlockNumber does.
func (n *BlockNumber) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return fmt.Errorf("block number must be a JSON string: %w", err)
	}
	v, err := ParseBlockNumber(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// ParseBlockNumber parses a tag, a 0x quantity or a decimal height.
func ParseBlockNumber(s string) (BlockNumber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latest":
		return LatestBlock, nil
	case "earliest":
		return EarliestBlock, nil
	case "pending":
		return PendingBlock, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return BlockNumber{}, errors.New("empty block number")
	}
	height, ok := math.ParseUint64(s)
	if !ok {
		return BlockNumber{}, fmt.Errorf("invalid block number %q", s)
	}
	return NumberedBlock(height), nil
}

// BlockID references a block either by hash or by BlockNumber.
type BlockID struct {
	byHash bool
	hash   common.Hash
	number BlockNumber
}

// BlockIDFromHash references a block by its exact hash.
func BlockIDFromHash(hash common.Hash) BlockID {
	return BlockID{byHash: true, hash: hash}
}

// BlockIDFromNumber references a block by height or tag.
func BlockIDFromNumber(number BlockNumber) BlockID {
	return BlockID{number: number}
}

// BlockIDFromUint64 references a block by height.
func BlockIDFromUint64(height uint64) BlockID {
	return BlockIDFromNumber(NumberedBlock(height))
}

// BlockIDFromQuantity references a block by a height decoded from the wire.
func BlockIDFromQuantity(height hexutil.Uint64) BlockID {
	return BlockIDFromNumber(BlockNumberOf(height))
}

// Hash returns the referenced hash and true for a by-hash identifier.
func (id BlockID) Hash() (common.Hash, bool) {
	return id.hash, id.byHash
}

// Number returns the referenced BlockNumber and true for a by-number identifier.
func (id BlockID) Number() (BlockNumber, bool) {
	return id.number, !id.byHash
}

func (id BlockID) String() string {
	if id.byHash {
		return id.hash.Hex()
	}
	return id.number.String()
}

// MarshalJSON renders a by-hash identifier as the EIP-1898 object
// {"blockHash": "0x..."} and a by-number identifier as the bare BlockNumber
// string.
func (id BlockID) MarshalJSON() ([]byte, error) {
	if id.byHash {
		return json.Marshal(struct {
			BlockHash common.Hash `json:"blockHash"`
		}{id.hash})
	}
	return id.number.MarshalJSON()
}

var errBadBlockID = errors.New("expected tag, height or 32 byte hash")

// ParseBlockID parses a 32 byte 0x hash or anything ParseBlockNumber accepts.
func ParseBlockID(s string) (BlockID, error) {
	s = strings.TrimSpace(s)
	if len(s) == 2+2*common.HashLength && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		b, err := hexutil.Decode("0x" + s[2:])
		if err != nil {
			return BlockID{}, fmt.Errorf("invalid block hash %q: %w", s, err)
		}
		return BlockIDFromHash(common.BytesToHash(b)), nil
	}
	n, err := ParseBlockNumber(s)
	if err != nil {
		return BlockID{}, fmt.Errorf("%w: %v", errBadBlockID, err)
	}
	return BlockIDFromNumber(n), nil
}
