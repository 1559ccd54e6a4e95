//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

package mysql

import (
	"database/sql"
	"time"
)

const (
	defaultTableName   = "agentbench_batch_results"
	defaultInitTimeout = 10 * time.Second
)

type options struct {
	dsn            string
	db             *sql.DB
	tableName      string
	skipSchemaInit bool
	initTimeout    time.Duration
}

func newOptions(opt ...Option) *options {
	opts := &options{
		tableName:   defaultTableName,
		initTimeout: defaultInitTimeout,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the MySQL result manager.
type Option func(*options)

// WithDSN sets the MySQL data source name.
func WithDSN(dsn string) Option {
	return func(o *options) { o.dsn = dsn }
}

// WithDB injects an existing connection. The manager will not close it.
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// WithTableName overrides the batch result table name.
func WithTableName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.tableName = name
		}
	}
}

// WithSkipSchemaInit disables the CREATE TABLE IF NOT EXISTS on startup.
func WithSkipSchemaInit() Option {
	return func(o *options) { o.skipSchemaInit = true }
}

// WithInitTimeout bounds the schema initialization on startup.
func WithInitTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.initTimeout = d
		}
	}
}
