//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/droidworld/agentbench/internal/config"
	"github.com/droidworld/agentbench/internal/report"
	resultlocal "github.com/droidworld/agentbench/result/local"
)

var flagEpisodeTable bool

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [batch-id]",
		Short: "Render the report for a stored batch, latest by default",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderReport,
	}
	cmd.Flags().BoolVar(&flagEpisodeTable, "episodes", false, "include the per-episode table")
	return cmd
}

func renderReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	manager, err := resultlocal.New(cfg.ResultsDir)
	if err != nil {
		return err
	}
	defer manager.Close()

	batchID := ""
	if len(args) == 1 {
		batchID = args[0]
	} else {
		ids, err := manager.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no batches stored in %s", cfg.ResultsDir)
		}
		batchID = ids[len(ids)-1]
	}

	batch, err := manager.Get(cmd.Context(), batchID)
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), batch); err != nil {
		return err
	}
	if flagEpisodeTable {
		fmt.Fprintln(cmd.OutOrStdout())
		return report.RenderEpisodes(cmd.OutOrStdout(), batch)
	}
	return nil
}
