package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fta/models"

	"github.com/google/uuid"
	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

type Writer struct {
	db *sql.DB
}

func NewWriter(database string) (*Writer, error) {
	db, err := connection(database)
	if err != nil {
		return nil, err
	}
	return &Writer{db: db}, nil
}

// RecordRun stores a fetch run, assigning an id and timestamp when missing
func (writer *Writer) RecordRun(ctx context.Context, run models.FetchRun) (models.FetchRun, error) {
	if run.Id == "" {
		run.Id = uuid.New().String()
	}
	if run.FetchedAt.IsZero() {
		run.FetchedAt = time.Now().UTC()
	}

	insertRun := sqlbuilder.SQLite.NewInsertBuilder()
	sql, args := insertRun.InsertInto("fetch_runs").
		Cols("id", "feed", "resolved", "minutes", "post_count", "fetched_at").
		Values(run.Id, run.Feed, run.Resolved, run.Minutes, run.PostCount, run.FetchedAt.UnixMilli()).
		Build()

	if _, err := writer.db.ExecContext(ctx, sql, args...); err != nil {
		return run, fmt.Errorf("insert error: %w", err)
	}

	log.WithFields(log.Fields{
		"id":    run.Id,
		"feed":  run.Feed,
		"count": run.PostCount,
	}).Debug("Recorded fetch run")

	return run, nil
}

func (writer *Writer) Close() error {
	return writer.db.Close()
}
