package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// DecodeBlock decodes an Ethereum block. With strict set, keys that only a
// Celo block carries are rejected instead of ignored.
func DecodeBlock[TX any](data []byte, strict bool) (*Block[TX], error) {
	r, err := newFieldReader(Ethereum, data, strict)
	if err != nil {
		return nil, err
	}
	b := &Block[TX]{
		BlockFields: readBlockFields[TX](r),
	}
	r.hash("sha3Uncles", &b.UnclesHash)
	b.GasLimit = r.u256("gasLimit", true)
	b.Difficulty = r.u256("difficulty", true)
	b.Uncles = readList[common.Hash](r, "uncles", "list of hashes", true)
	b.MixHash = r.optHash("mixHash")
	b.Nonce = r.u64("nonce")
	if r.err != nil {
		return nil, r.err
	}
	return b, nil
}

// DecodeCeloBlock decodes a Celo block. With strict set, keys that only an
// Ethereum block carries are rejected instead of ignored.
func DecodeCeloBlock[TX any](data []byte, strict bool) (*CeloBlock[TX], error) {
	r, err := newFieldReader(Celo, data, strict)
	if err != nil {
		return nil, err
	}
	b := &CeloBlock[TX]{
		BlockFields: readBlockFields[TX](r),
	}
	b.Randomness = r.randomness("randomness")
	if r.err != nil {
		return nil, r.err
	}
	return b, nil
}

// Decode decodes a block of the given variant.
func Decode[TX any](variant Variant, data []byte, strict bool) (AnyBlock[TX], error) {
	switch variant {
	case Ethereum:
		b, err := DecodeBlock[TX](data, strict)
		if err != nil {
			return nil, err
		}
		return b, nil
	case Celo:
		b, err := DecodeCeloBlock[TX](data, strict)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported chain variant %s", variant)
	}
}

func readBlockFields[TX any](r *fieldReader) BlockFields[TX] {
	var f BlockFields[TX]
	f.Hash = r.optHash("hash")
	r.hash("parentHash", &f.ParentHash)
	r.address("miner", &f.Author)
	r.hash("stateRoot", &f.StateRoot)
	r.hash("transactionsRoot", &f.TransactionsRoot)
	r.hash("receiptsRoot", &f.ReceiptsRoot)
	f.Number = r.u64("number")
	f.GasUsed = r.u256("gasUsed", true)
	f.ExtraData = r.bytes("extraData")
	f.LogsBloom = r.bloom("logsBloom")
	f.Timestamp = r.u256("timestamp", true)
	f.TotalDifficulty = r.u256("totalDifficulty", false)
	seal := readList[hexutil.Bytes](r, "sealFields", "list of hex byte strings", false)
	f.SealFields = make([][]byte, len(seal))
	for i := range seal {
		f.SealFields[i] = seal[i]
	}
	f.Transactions = readList[TX](r, "transactions", "list of transactions", true)
	f.Size = r.u256("size", false)
	return f
}

// fieldReader decodes wire keys one by one. The first failure is kept in err
// and turns every following read into a no-op.
type fieldReader struct {
	variant Variant
	prefix  string
	fields  map[string]json.RawMessage
	err     error
}

func newFieldReader(variant Variant, data []byte, strict bool) (*fieldReader, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &DecodeError{Kind: TypeMismatch, Variant: variant, Field: "block", Expected: "JSON object", Err: err}
	}
	if fields == nil {
		return nil, &DecodeError{Kind: TypeMismatch, Variant: variant, Field: "block", Expected: "JSON object", Err: errors.New("null")}
	}
	r := &fieldReader{variant: variant, fields: fields}
	if strict {
		for _, key := range variant.foreignKeys() {
			if _, ok := fields[key]; ok {
				return nil, &DecodeError{Kind: VariantFieldViolation, Variant: variant, Field: key}
			}
		}
	}
	return r, nil
}

// raw returns the value under key, a JSON null counts as absent.
func (r *fieldReader) raw(key string) (json.RawMessage, bool) {
	raw, ok := r.fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func (r *fieldReader) fail(kind ErrorKind, key, expected string, err error) {
	r.err = &DecodeError{Kind: kind, Variant: r.variant, Field: r.prefix + key, Expected: expected, Err: err}
}

// read unmarshals key into v. It reports whether the key was present.
func (r *fieldReader) read(key, expected string, required bool, v interface{}) bool {
	if r.err != nil {
		return false
	}
	raw, ok := r.raw(key)
	if !ok {
		if required {
			r.fail(MissingField, key, expected, nil)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		r.fail(TypeMismatch, key, expected, err)
		return false
	}
	return true
}

func (r *fieldReader) hash(key string, dst *common.Hash) {
	r.read(key, "32 byte hex hash", true, dst)
}

func (r *fieldReader) optHash(key string) *common.Hash {
	var h common.Hash
	if !r.read(key, "32 byte hex hash", false, &h) {
		return nil
	}
	return &h
}

func (r *fieldReader) address(key string, dst *common.Address) {
	r.read(key, "20 byte hex address", true, dst)
}

func (r *fieldReader) u256(key string, required bool) *big.Int {
	q := newQuantity(256)
	if !r.read(key, "hex quantity", required, q) {
		return nil
	}
	return q.big()
}

func (r *fieldReader) u64(key string) *uint64 {
	q := newQuantity(64)
	if !r.read(key, "64 bit hex quantity", false, q) {
		return nil
	}
	return q.uint64()
}

func (r *fieldReader) bytes(key string) []byte {
	var b hexutil.Bytes
	if !r.read(key, "hex byte string", true, &b) {
		return nil
	}
	return b
}

func (r *fieldReader) bloom(key string) *types.Bloom {
	var b types.Bloom
	if !r.read(key, "256 byte hex bloom", false, &b) {
		return nil
	}
	return &b
}

func (r *fieldReader) randomness(key string) Randomness {
	var (
		fields map[string]json.RawMessage
		rnd    Randomness
	)
	if !r.read(key, "randomness object", true, &fields) {
		return rnd
	}
	sub := &fieldReader{variant: r.variant, prefix: r.prefix + key + ".", fields: fields}
	rnd.Committed = sub.bytes("committed")
	rnd.Revealed = sub.bytes("revealed")
	r.err = sub.err
	return rnd
}

// readList decodes a JSON array element by element so a failure names its
// index. Absent optional lists decode as empty.
func readList[T any](r *fieldReader, key, expected string, required bool) []T {
	var raws []json.RawMessage
	if !r.read(key, expected, required, &raws) {
		if r.err != nil {
			return nil
		}
		return []T{}
	}
	list := make([]T, len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &list[i]); err != nil {
			r.fail(TypeMismatch, fmt.Sprintf("%s[%d]", key, i), expected, err)
			return nil
		}
	}
	return list
}
