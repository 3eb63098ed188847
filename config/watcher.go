package config

// Watcher 区块跟踪
type Watcher struct {
	Enabled  *bool   `json:"enabled"`
	Interval *string `json:"interval"`
	MaxBatch *uint64 `json:"maxBatch"`
	Workers  *int    `json:"workers"`
}
