package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"grateful-service/internal/store"

	"golang.org/x/sync/errgroup"
)

type BackupResult struct {
	Filename  string         `json:"filename"`
	Timestamp string         `json:"timestamp"`
	Counts    map[string]int `json:"counts"`
	TotalRows int            `json:"totalRows"`
}

type backupLine struct {
	Table string `json:"table"`
	Data  any    `json:"data"`
}

// Backup reads every tracked table concurrently, serializes one JSON object
// per row, and writes the whole snapshot as a single timestamped JSONL object
// to cold storage. A failure at any table read or at the upload aborts the
// job; no partial backup is persisted.
func (s *Service) Backup(ctx context.Context) (*BackupResult, error) {
	if s.uploader == nil {
		return nil, errors.New("object storage is not configured")
	}
	timestamp := backupTimestamp(time.Now().UTC())
	log.Println("💾 Starting database backup...")

	dumps := make([][]any, len(store.BackupTables))
	g, gctx := errgroup.WithContext(ctx)
	for i, table := range store.BackupTables {
		i, table := i, table
		g.Go(func() error {
			rows, err := s.store.Dump(gctx, table)
			if err != nil {
				return fmt.Errorf("failed to dump %s: %w", table, err)
			}
			dumps[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	counts := make(map[string]int, len(store.BackupTables))
	totalRows := 0
	for i, table := range store.BackupTables {
		counts[table] = len(dumps[i])
		for _, row := range dumps[i] {
			line, err := json.Marshal(backupLine{Table: table, Data: row})
			if err != nil {
				return nil, fmt.Errorf("failed to serialize %s row: %w", table, err)
			}
			if totalRows > 0 {
				buf.WriteByte('\n')
			}
			buf.Write(line)
			totalRows++
		}
	}

	filename := fmt.Sprintf("dbbackups/backup-%s.jsonl", timestamp)
	log.Printf("💾 Uploading backup %s (%d rows, %d bytes)", filename, totalRows, buf.Len())

	if err := s.uploader.Upload(ctx, filename, buf.Bytes(), "application/jsonl"); err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	log.Printf("✅ Backup completed: %s", filename)
	return &BackupResult{
		Filename:  filename,
		Timestamp: timestamp,
		Counts:    counts,
		TotalRows: totalRows,
	}, nil
}

// backupTimestamp renders an ISO timestamp with characters R2 keys tolerate.
func backupTimestamp(t time.Time) string {
	iso := t.Format("2006-01-02T15:04:05.000Z")
	iso = strings.ReplaceAll(iso, ":", "-")
	return strings.ReplaceAll(iso, ".", "-")
}
