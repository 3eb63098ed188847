package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:          "stop",
	Short:        "Stop the background server",
	RunE:         stopCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(stopCmd)
}

func stopCmdF(cmd *cobra.Command, args []string) error {
	_, dir := getAppDir()

	file := fmt.Sprintf("%s/%s", dir, lockFile)
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("no running server: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("corrupt lock file %s: %w", file, err)
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("unable to stop [PID] %d: %w", pid, err)
	}
	log.Infof("Server stop, [PID] %d", pid)

	return os.Remove(file)
}
