package config

type Redis struct {
	Enabled  *bool   `json:"enabled"`
	Url      *string `json:"url"`
	Password *string `json:"password"`
	Prefix   *string `json:"prefix"`
	Database *int    `json:"database"`
	PoolSize *int    `json:"poolSize"`
}
