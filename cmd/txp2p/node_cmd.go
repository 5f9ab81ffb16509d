package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dplane-collective/solana-tx-p2p/internal/logging"
)

func newNodeCmd() *cobra.Command {
	var cfg nodeConfig
	var debug bool

	cmd := &cobra.Command{
		Use:   "node",
		Short: "Run the node actors only (no external read surfaces)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeOnly(cmd, cfg, debug)
		},
	}

	nodeFlags(cmd.Flags(), &cfg)
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.MarkFlagRequired("solana-program-id")
	cmd.MarkFlagRequired("solana-rpc-url")

	return cmd
}

func runNodeOnly(cmd *cobra.Command, cfg nodeConfig, debug bool) error {
	logging.Init(debug)
	defer logging.Sync()

	if cfg.solanaProgramID == "" || cfg.solanaRPCURL == "" {
		return fmt.Errorf("txp2p: --solana-program-id and --solana-rpc-url are required")
	}

	ctx := cmd.Context()
	n, err := buildNode(ctx, cfg)
	if err != nil {
		return err
	}

	return n.run(ctx)
}
