//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"github.com/spf13/cobra"

	"github.com/droidworld/agentbench/log"
)

var (
	cfgFile  string
	logLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentbench",
		Short: "Benchmark harness for LLM mobile UI agents",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLevel(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "agentbench.yaml", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	return root
}
