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

	episodelocal "github.com/droidworld/agentbench/episode/local"
	"github.com/droidworld/agentbench/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the episodes in the configured episode directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			manager := episodelocal.New(cfg.EpisodesDir, cfg.VerbSet())
			defer manager.Close()
			episodes, err := manager.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, ep := range episodes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d steps\t%s\n",
					ep.EpisodeID, len(ep.Steps), ep.Goal)
			}
			return nil
		},
	}
}
