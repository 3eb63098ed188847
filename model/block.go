package model

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// BlockFields holds the part of a block that every chain variant returns.
// TX is the transaction list element, usually common.Hash or
// *types.Transaction depending on the fullTx flag of the request.
type BlockFields[TX any] struct {
	// Hash is nil for a pending block.
	Hash             *common.Hash
	ParentHash       common.Hash
	Author           common.Address
	StateRoot        common.Hash
	TransactionsRoot common.Hash
	ReceiptsRoot     common.Hash
	// Number is nil for a pending block.
	Number          *uint64
	GasUsed         *big.Int
	ExtraData       []byte
	LogsBloom       *types.Bloom
	Timestamp       *big.Int
	TotalDifficulty *big.Int
	SealFields      [][]byte
	// Transactions are kept in execution order.
	Transactions []TX
	Size         *big.Int
}

// Block is a block as returned by an Ethereum node.
type Block[TX any] struct {
	BlockFields[TX]

	UnclesHash common.Hash
	GasLimit   *big.Int
	Difficulty *big.Int
	Uncles     []common.Hash
	MixHash    *common.Hash
	Nonce      *uint64
}

// Randomness is the verifiable randomness commitment of a Celo block.
type Randomness struct {
	Committed []byte
	Revealed  []byte
}

// CeloBlock is a block as returned by a Celo node.
type CeloBlock[TX any] struct {
	BlockFields[TX]

	Randomness Randomness
}

// AnyBlock is implemented by Block and CeloBlock, it lets callers that pick
// the variant at runtime reach the shared fields.
type AnyBlock[TX any] interface {
	Variant() Variant
	Fields() *BlockFields[TX]
}

func (b *Block[TX]) Variant() Variant { return Ethereum }

func (b *Block[TX]) Fields() *BlockFields[TX] { return &b.BlockFields }

func (b *CeloBlock[TX]) Variant() Variant { return Celo }

func (b *CeloBlock[TX]) Fields() *BlockFields[TX] { return &b.BlockFields }

// UnmarshalJSON decodes an Ethereum block, keys of the Celo shape are ignored.
func (b *Block[TX]) UnmarshalJSON(input []byte) error {
	dec, err := DecodeBlock[TX](input, false)
	if err != nil {
		return err
	}
	*b = *dec
	return nil
}

// UnmarshalJSON decodes a Celo block, keys of the Ethereum shape are ignored.
func (b *CeloBlock[TX]) UnmarshalJSON(input []byte) error {
	dec, err := DecodeCeloBlock[TX](input, false)
	if err != nil {
		return err
	}
	*b = *dec
	return nil
}

type blockFieldsJSON[TX any] struct {
	Hash             *common.Hash    `json:"hash,omitempty"`
	ParentHash       common.Hash     `json:"parentHash"`
	Author           common.Address  `json:"miner"`
	StateRoot        common.Hash     `json:"stateRoot"`
	TransactionsRoot common.Hash     `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash     `json:"receiptsRoot"`
	Number           *hexutil.Uint64 `json:"number,omitempty"`
	GasUsed          string          `json:"gasUsed"`
	ExtraData        hexutil.Bytes   `json:"extraData"`
	LogsBloom        *types.Bloom    `json:"logsBloom,omitempty"`
	Timestamp        string          `json:"timestamp"`
	TotalDifficulty  *hexutil.Big    `json:"totalDifficulty,omitempty"`
	SealFields       []hexutil.Bytes `json:"sealFields"`
	Transactions     []TX            `json:"transactions"`
	Size             *hexutil.Big    `json:"size,omitempty"`
}

type blockJSON[TX any] struct {
	blockFieldsJSON[TX]

	UnclesHash common.Hash     `json:"sha3Uncles"`
	GasLimit   string          `json:"gasLimit"`
	Difficulty string          `json:"difficulty"`
	Uncles     []common.Hash   `json:"uncles"`
	MixHash    *common.Hash    `json:"mixHash,omitempty"`
	Nonce      *hexutil.Uint64 `json:"nonce,omitempty"`
}

type randomnessJSON struct {
	Committed hexutil.Bytes `json:"committed"`
	Revealed  hexutil.Bytes `json:"revealed"`
}

type celoBlockJSON[TX any] struct {
	blockFieldsJSON[TX]

	Randomness randomnessJSON `json:"randomness"`
}

// MarshalJSON encodes the block with the same wire keys it is decoded from.
func (b Block[TX]) MarshalJSON() ([]byte, error) {
	enc := blockJSON[TX]{
		blockFieldsJSON: b.BlockFields.toJSON(),
		UnclesHash:      b.UnclesHash,
		GasLimit:        encodeBig(b.GasLimit),
		Difficulty:      encodeBig(b.Difficulty),
		Uncles:          b.Uncles,
		MixHash:         b.MixHash,
		Nonce:           (*hexutil.Uint64)(b.Nonce),
	}
	if enc.Uncles == nil {
		enc.Uncles = []common.Hash{}
	}
	return json.Marshal(&enc)
}

// MarshalJSON encodes the block with the same wire keys it is decoded from.
func (b CeloBlock[TX]) MarshalJSON() ([]byte, error) {
	enc := celoBlockJSON[TX]{
		blockFieldsJSON: b.BlockFields.toJSON(),
		Randomness: randomnessJSON{
			Committed: b.Randomness.Committed,
			Revealed:  b.Randomness.Revealed,
		},
	}
	return json.Marshal(&enc)
}

func (f *BlockFields[TX]) toJSON() blockFieldsJSON[TX] {
	enc := blockFieldsJSON[TX]{
		Hash:             f.Hash,
		ParentHash:       f.ParentHash,
		Author:           f.Author,
		StateRoot:        f.StateRoot,
		TransactionsRoot: f.TransactionsRoot,
		ReceiptsRoot:     f.ReceiptsRoot,
		Number:           (*hexutil.Uint64)(f.Number),
		GasUsed:          encodeBig(f.GasUsed),
		ExtraData:        f.ExtraData,
		LogsBloom:        f.LogsBloom,
		Timestamp:        encodeBig(f.Timestamp),
		TotalDifficulty:  (*hexutil.Big)(f.TotalDifficulty),
		SealFields:       make([]hexutil.Bytes, len(f.SealFields)),
		Transactions:     f.Transactions,
		Size:             (*hexutil.Big)(f.Size),
	}
	for i, s := range f.SealFields {
		enc.SealFields[i] = s
	}
	if enc.ExtraData == nil {
		enc.ExtraData = hexutil.Bytes{}
	}
	if enc.Transactions == nil {
		enc.Transactions = []TX{}
	}
	return enc
}
