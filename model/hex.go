package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

var (
	errNonString     = errors.New("not a JSON string")
	errMissingPrefix = errors.New("hex string without 0x prefix")
	errEmptyNumber   = errors.New("hex string \"0x\"")
	errSyntax        = errors.New("invalid hex quantity")
)

// quantity is a lenient hex quantity. Unlike hexutil.Big it accepts leading
// zero digits, nodes send nonces as "0x0000000000000000".
type quantity struct {
	v    big.Int
	bits int
}

func newQuantity(bits int) *quantity {
	return &quantity{bits: bits}
}

func (q *quantity) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return errNonString
	}
	return q.UnmarshalText([]byte(s))
}

func (q *quantity) UnmarshalText(text []byte) error {
	v, err := parseQuantity(string(text))
	if err != nil {
		return err
	}
	if q.bits > 0 && v.BitLen() > q.bits {
		return fmt.Errorf("hex number > %d bits", q.bits)
	}
	q.v.Set(v)
	return nil
}

func (q *quantity) big() *big.Int {
	return new(big.Int).Set(&q.v)
}

func (q *quantity) uint64() *uint64 {
	n := q.v.Uint64()
	return &n
}

// parseQuantity requires the 0x prefix, so decimal wire values are rejected.
func parseQuantity(s string) (*big.Int, error) {
	if !has0xPrefix(s) {
		return nil, errMissingPrefix
	}
	if len(s) == 2 {
		return nil, errEmptyNumber
	}
	if s[2] == '+' || s[2] == '-' {
		return nil, errSyntax
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, errSyntax
	}
	return v, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// encodeBig renders a quantity as minimal lowercase hex. nil is rendered as "0x0".
func encodeBig(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return hexutil.EncodeBig(v)
}
