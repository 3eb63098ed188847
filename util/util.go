package util

import "regexp"

var (
	zeroHashPattern = regexp.MustCompile("^0?x?0+$")
	addressPattern  = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
)

// IsZeroHash 是否是零的十六进制
func IsZeroHash(s string) bool {
	return zeroHashPattern.MatchString(s)
}

// IsValidHexAddress 是否是有效钱包地址
func IsValidHexAddress(s string) bool {
	if IsZeroHash(s) || !addressPattern.MatchString(s) {
		return false
	}
	return true
}
