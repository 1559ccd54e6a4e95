//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	episodelocal "github.com/droidworld/agentbench/episode/local"
	"github.com/droidworld/agentbench/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and every episode file for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			verbs := cfg.VerbSet()
			manager := episodelocal.New(cfg.EpisodesDir, verbs)
			defer manager.Close()

			entries, err := os.ReadDir(cfg.EpisodesDir)
			if err != nil {
				return err
			}
			var errs error
			checked := 0
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), episodelocal.FileSuffix) {
					continue
				}
				checked++
				id := strings.TrimSuffix(entry.Name(), episodelocal.FileSuffix)
				if _, err := manager.Get(cmd.Context(), id); err != nil {
					errs = multierror.Append(errs,
						fmt.Errorf("%s: %w", filepath.Join(cfg.EpisodesDir, entry.Name()), err))
				}
			}
			if errs != nil {
				return errs
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d episodes valid\n", checked)
			return nil
		},
	}
}
