package config

// Daemon is the JSON-RPC node blocks are read from.
type Daemon struct {
	Url     *string `json:"url"`
	Variant *string `json:"variant"`
	Timeout *string `json:"timeout"`
	Strict  *bool   `json:"strict"`
}
