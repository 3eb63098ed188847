package model

import (
	"fmt"
	"strings"
)

// Variant selects the block shape a decoder accepts.
type Variant uint8

const (
	// Ethereum blocks carry uncles, gas limit, difficulty and proof-of-work seal.
	Ethereum Variant = iota
	// Celo blocks drop those fields and carry a randomness commitment instead.
	Celo
)

func (v Variant) String() string {
	switch v {
	case Ethereum:
		return "ethereum"
	case Celo:
		return "celo"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant maps a configuration name to a Variant. Empty means Ethereum.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ethereum", "eth":
		return Ethereum, nil
	case "celo":
		return Celo, nil
	default:
		return 0, fmt.Errorf("unknown chain variant %q", s)
	}
}

// Wire keys owned by exactly one variant.
var (
	ethereumOnlyKeys = []string{"sha3Uncles", "gasLimit", "difficulty", "uncles", "mixHash", "nonce"}
	celoOnlyKeys     = []string{"randomness"}
)

func (v Variant) foreignKeys() []string {
	if v == Celo {
		return ethereumOnlyKeys
	}
	return celoOnlyKeys
}
