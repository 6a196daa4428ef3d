package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fta/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

type Reader struct {
	db *sql.DB
}

func NewReader(database string) (*Reader, error) {
	db, err := connection(database)
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

// GetRuns returns the latest fetch runs, newest first. An empty feed matches
// every feed.
func (reader *Reader) GetRuns(ctx context.Context, feed string, limit int) ([]models.FetchRun, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id", "feed", "resolved", "minutes", "post_count", "fetched_at").From("fetch_runs")

	if feed != "" {
		sb.Where(sb.Equal("feed", feed))
	}

	sb.OrderBy("fetched_at").Desc()
	if limit > 0 {
		sb.Limit(limit)
	}

	sql, args := sb.Build()
	rows, err := reader.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	runs := []models.FetchRun{}
	for rows.Next() {
		var run models.FetchRun
		var fetchedAt int64
		if err := rows.Scan(&run.Id, &run.Feed, &run.Resolved, &run.Minutes, &run.PostCount, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		run.FetchedAt = time.UnixMilli(fetchedAt).UTC()
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (reader *Reader) Close() error {
	return reader.db.Close()
}
