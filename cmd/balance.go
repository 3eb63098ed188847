package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"chainstate/core"
	"chainstate/model"
	"chainstate/util"
)

var balanceCmd = &cobra.Command{
	Use:          "balance <address> [block]",
	Short:        "Print the balance of an account",
	Args:         cobra.RangeArgs(1, 2),
	RunE:         balanceCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(balanceCmd)
}

func balanceCmdF(cmd *cobra.Command, args []string) error {
	if !util.IsValidHexAddress(args[0]) {
		return fmt.Errorf("invalid address %q", args[0])
	}
	id := model.BlockIDFromNumber(model.LatestBlock)
	if len(args) == 2 {
		var err error
		if id, err = model.ParseBlockID(args[1]); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	node, err := core.NewDaemon(cfg.Daemon)
	if err != nil {
		return err
	}

	wei, err := node.Balance(context.Background(), common.HexToAddress(args[0]), id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wei (%s ether) at %s\n", wei, util.FormatEther(wei), id)
	return nil
}
