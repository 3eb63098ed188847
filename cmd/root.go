package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainstate/config"
)

var RootCmd = &cobra.Command{
	Use:   "chainstate",
	Short: "Ethereum and Celo block reader",
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file to use.")
}

func Run(args []string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

func initLogger(cfg *config.Logger) {
	log.SetOutput(os.Stdout)

	if cfg == nil {
		return
	}
	if cfg.Format != nil && *cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if cfg.Level != nil {
		level, err := log.ParseLevel(*cfg.Level)
		if err != nil {
			log.Warnf("Unknown log level %q, using info", *cfg.Level)
			level = log.InfoLevel
		}
		log.SetLevel(level)
	}
}
