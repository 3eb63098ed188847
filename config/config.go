package config

type Config struct {
	Name    *string  `json:"name"`
	Logger  *Logger  `json:"logger"`
	Daemon  *Daemon  `json:"daemon"`
	Watcher *Watcher `json:"watcher"`
	Redis   *Redis   `json:"redis"`
	Metrics *Metrics `json:"metrics"`
}

type Logger struct {
	Level  *string `json:"level"`
	Format *string `json:"format"`
}

type Metrics struct {
	Enabled *bool   `json:"enabled"`
	Listen  *string `json:"listen"`
}
