package db

import (
	"context"
	"time"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// DefaultRetention is how long fetch runs are kept by Tidy
const DefaultRetention = 90 * 24 * time.Hour

// Tidy removes fetch runs older than maxAge from the database
func Tidy(ctx context.Context, database string, maxAge time.Duration) (int64, error) {
	writer, err := NewWriter(database)
	if err != nil {
		return 0, err
	}
	defer writer.Close()

	return writer.tidy(ctx, time.Now().Add(-maxAge))
}

func (writer *Writer) tidy(ctx context.Context, before time.Time) (int64, error) {
	deleteRuns := sb.SQLite.NewDeleteBuilder()
	sql, args := deleteRuns.DeleteFrom("fetch_runs").Where(deleteRuns.LessThan("fetched_at", before.UnixMilli())).Build()

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Info("Tidying database")

	res, err := writer.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
