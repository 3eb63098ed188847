package util

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

var (
	Ether = math.BigPow(10, 18)
)

// FormatEther formats a wei amount as ether with 18 decimals, trailing zeros trimmed.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	q, r := new(big.Int).QuoRem(wei, Ether, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := new(big.Int).Abs(r).String()
	for len(frac) < 18 {
		frac = "0" + frac
	}
	for frac[len(frac)-1] == '0' {
		frac = frac[:len(frac)-1]
	}
	return q.String() + "." + frac
}
