package util

import (
	"time"
)

// MustParseDuration 将字符串转换成时段
func MustParseDuration(s string) time.Duration {
	value, err := time.ParseDuration(s)
	if err != nil {
		panic("Can't parse duration `" + s + "`: " + err.Error())
	}
	return value
}

// ParseDurationOr returns def when s is empty.
func ParseDurationOr(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
