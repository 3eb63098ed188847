package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"chainstate/core"
	"chainstate/model"
)

var fullTx bool
var blockCmd = &cobra.Command{
	Use:          "block <hash|number|latest|earliest|pending>",
	Short:        "Print a block read from the node",
	Args:         cobra.ExactArgs(1),
	RunE:         blockCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(blockCmd)
	blockCmd.Flags().BoolVar(&fullTx, "full", false, "include full transaction objects")
}

func blockCmdF(cmd *cobra.Command, args []string) error {
	id, err := model.ParseBlockID(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	node, err := core.NewDaemon(cfg.Daemon)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var block interface{}
	if fullTx {
		block, err = node.GetFullBlock(ctx, id)
	} else {
		block, err = node.GetBlock(ctx, id)
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
