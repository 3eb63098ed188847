package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainstate/config"
)

const defaultConfigPath = "config.json"

func getAppDir() (string, string) {
	app := strings.TrimLeft(os.Args[0], "./")
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		log.Panic(err)
	}
	return app, dir
}

func getConfigPath(command *cobra.Command) string {
	configPath, _ := command.Flags().GetString("config")

	if configPath == "" {
		configPath = defaultConfigPath
	}

	return configPath
}

// loadConfig reads the file named by --config. Without the flag a missing
// config.json falls back to the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath := getConfigPath(cmd)

	cfg, err := config.Load(configPath)
	if err != nil && errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Debugf("No %s found, using defaults", configPath)
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	initLogger(cfg.Logger)
	return cfg, nil
}
