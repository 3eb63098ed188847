package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chainstate/config"
	"chainstate/core"
)

const lockFile = "chainstate.lock"

var daemon bool
var startCmd = &cobra.Command{
	Use:          "start",
	Short:        "Start watching the chain",
	RunE:         startCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(startCmd)
	startCmd.Flags().BoolVarP(&daemon, "daemon", "d", false, "run in the background")
}

func startCmdF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Errorf("Error loading configuration: %v", err)
		return err
	}

	// 后台启动
	if daemon {
		return runDaemon(cmd)
	}

	interruptChan := make(chan os.Signal, 1)
	return runServer(cfg, interruptChan)
}

func runDaemon(cmd *cobra.Command) error {
	app, dir := getAppDir()

	bin := fmt.Sprintf("%s/%s", dir, app)
	args := []string{"start"}
	if cmd.Flags().Changed("config") {
		args = append(args, "--config", getConfigPath(cmd))
	}
	command := exec.Command(bin, args...)
	if err := command.Start(); err != nil {
		return fmt.Errorf("unable to start %s: %w", bin, err)
	}

	log.Infof("Server start, [PID] %d running...", command.Process.Pid)
	lock := fmt.Sprintf("%s/%s", dir, lockFile)
	return os.WriteFile(lock, []byte(fmt.Sprintf("%d", command.Process.Pid)), 0666)
}

func runServer(cfg *config.Config, interruptChan chan os.Signal) error {
	server, err := core.NewServer(cfg)
	if err != nil {
		log.Errorf("Fail to create server: %v", err)
		return err
	}
	defer server.Close()

	server.Start()

	// wait for kill signal before attempting to gracefully shutdown
	// the running service
	signal.Notify(interruptChan, syscall.SIGINT, syscall.SIGTERM)
	<-interruptChan
	log.Info("Shutting down")

	return nil
}
