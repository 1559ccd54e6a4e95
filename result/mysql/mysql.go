//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package mysql provides a batch result manager backed by MySQL, for
// deployments that keep benchmark history in a shared database.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/droidworld/agentbench/result"
)

var _ result.Manager = (*manager)(nil)

type manager struct {
	opts  options
	db    *sql.DB
	owned bool
}

// New creates a MySQL-backed batch result manager.
func New(opt ...Option) (result.Manager, error) {
	opts := newOptions(opt...)
	db := opts.db
	owned := false
	if db == nil {
		if opts.dsn == "" {
			return nil, errors.New("mysql dsn is empty")
		}
		var err error
		db, err = sql.Open("mysql", opts.dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql connection: %w", err)
		}
		owned = true
	}
	m := &manager{opts: *opts, db: db, owned: owned}
	if !opts.skipSchemaInit {
		ctx, cancel := context.WithTimeout(context.Background(), opts.initTimeout)
		defer cancel()
		if err := m.ensureSchema(ctx); err != nil {
			if owned {
				_ = db.Close()
			}
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return m, nil
}

func (m *manager) ensureSchema(ctx context.Context) error {
	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
		   batch_id VARCHAR(255) NOT NULL,
		   results LONGBLOB NOT NULL,
		   report LONGBLOB,
		   start_time TIMESTAMP(6) NULL,
		   end_time TIMESTAMP(6) NULL,
		   created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		   updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		   PRIMARY KEY (batch_id)
		 )`,
		m.opts.tableName,
	)
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// Save upserts a batch result into MySQL.
func (m *manager) Save(ctx context.Context, batch *result.BatchResult) error {
	if batch == nil {
		return errors.New("batch result is nil")
	}
	if batch.BatchID == "" {
		return errors.New("batch id is empty")
	}
	results := batch.Results
	if results == nil {
		results = []result.EpisodeResult{}
	}
	resultsPayload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal episode results: %w", err)
	}
	var reportPayload any
	if batch.Report != nil {
		reportBytes, err := json.Marshal(batch.Report)
		if err != nil {
			return fmt.Errorf("marshal aggregate report: %w", err)
		}
		reportPayload = reportBytes
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (batch_id, results, report, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   results = VALUES(results),
		   report = VALUES(report),
		   start_time = VALUES(start_time),
		   end_time = VALUES(end_time),
		   updated_at = CURRENT_TIMESTAMP(6)`,
		m.opts.tableName,
	)
	if _, err := m.db.ExecContext(ctx, query,
		batch.BatchID, resultsPayload, reportPayload, batch.StartTime, batch.EndTime); err != nil {
		return fmt.Errorf("store batch result %s: %w", batch.BatchID, err)
	}
	return nil
}

// Get loads a batch result from MySQL.
func (m *manager) Get(ctx context.Context, batchID string) (*result.BatchResult, error) {
	if batchID == "" {
		return nil, errors.New("batch id is empty")
	}
	var (
		resultsPayload []byte
		reportPayload  sql.NullString
		batch          result.BatchResult
	)
	query := fmt.Sprintf(
		"SELECT results, report, start_time, end_time FROM %s WHERE batch_id = ?",
		m.opts.tableName,
	)
	row := m.db.QueryRowContext(ctx, query, batchID)
	if err := row.Scan(&resultsPayload, &reportPayload, &batch.StartTime, &batch.EndTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", result.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("load batch result %s: %w", batchID, err)
	}
	batch.BatchID = batchID
	if err := json.Unmarshal(resultsPayload, &batch.Results); err != nil {
		return nil, fmt.Errorf("unmarshal episode results %s: %w", batchID, err)
	}
	if batch.Results == nil {
		batch.Results = []result.EpisodeResult{}
	}
	if reportPayload.Valid && reportPayload.String != "" {
		report := &result.AggregateReport{}
		if err := json.Unmarshal([]byte(reportPayload.String), report); err != nil {
			return nil, fmt.Errorf("unmarshal aggregate report %s: %w", batchID, err)
		}
		batch.Report = report
	}
	return &batch, nil
}

// List lists stored batch IDs from MySQL, newest first.
func (m *manager) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT batch_id FROM %s ORDER BY created_at DESC",
		m.opts.tableName,
	)
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list batch results: %w", err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan batch id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list batch results: %w", err)
	}
	return ids, nil
}

// Close implements result.Manager. The connection is closed only when
// the manager opened it.
func (m *manager) Close() error {
	if m.db == nil || !m.owned {
		return nil
	}
	return m.db.Close()
}
