package tablestore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Engine executes statements against the SQL engine. Placeholders in
// query are already in the engine's bind style.
type Engine interface {
	Query(ctx context.Context, query string, args ...any) (QueryResult, error)
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlxEngine struct {
	db *sqlx.DB
}

// NewEngine returns an Engine backed by db.
func NewEngine(db *sqlx.DB) Engine {
	return &sqlxEngine{db: db}
}

func (e *sqlxEngine) Query(ctx context.Context, query string, args ...any) (QueryResult, error) {
	var res QueryResult
	rows, err := e.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return res, err
	}
	defer rows.Close()

	res.Columns, err = rows.Columns()
	if err != nil {
		return res, err
	}

	for rows.Next() {
		r := make(map[string]any, len(res.Columns))
		if err := rows.MapScan(r); err != nil {
			return res, err
		}
		res.Rows = append(res.Rows, Row(r))
	}

	return res, rows.Err()
}

func (e *sqlxEngine) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return e.db.ExecContext(ctx, query, args...)
}

// tracingEngine logs every statement that goes through it.
type tracingEngine struct {
	inner  Engine
	logger Logger
}

func (t *tracingEngine) Query(ctx context.Context, query string, args ...any) (QueryResult, error) {
	start := time.Now()
	res, err := t.inner.Query(ctx, query, args...)
	t.log(query, args, time.Since(start), err)
	return res, err
}

func (t *tracingEngine) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.inner.Exec(ctx, query, args...)
	t.log(query, args, time.Since(start), err)
	return res, err
}

func (t *tracingEngine) log(query string, args []any, dur time.Duration, err error) {
	if err != nil {
		logKV(t.logger, "sql", "query", query, "argc", len(args), "dur", dur, "err", err)
		return
	}
	logKV(t.logger, "sql", "query", query, "argc", len(args), "dur", dur)
}
