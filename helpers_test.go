package tablestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	kind string
	sql  string
	args []any
}

// fakeEngine records every statement and answers metadata queries with
// columns and everything else with rows or err.
type fakeEngine struct {
	mu      sync.Mutex
	calls   []call
	columns []Row
	rows    QueryResult
	err     error
	result  sql.Result
}

func (f *fakeEngine) record(kind, query string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: kind, sql: query, args: args})
}

func (f *fakeEngine) Query(ctx context.Context, query string, args ...any) (QueryResult, error) {
	f.record("query", query, args)
	if strings.HasPrefix(query, "SHOW COLUMNS") || strings.Contains(query, "information_schema") {
		return QueryResult{
			Columns: []string{"Field", "Type", "Null", "Key", "Default", "Extra"},
			Rows:    f.columns,
		}, nil
	}

	if f.err != nil {
		return QueryResult{}, f.err
	}
	return f.rows, nil
}

func (f *fakeEngine) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.record("exec", query, args)
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return fakeResult{id: 1, n: 1}, nil
	}
	return f.result, nil
}

func (f *fakeEngine) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeEngine) last() call {
	calls := f.Calls()
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

type fakeResult struct {
	id int64
	n  int64
}

func (r fakeResult) LastInsertId() (int64, error) { return r.id, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.n, nil }

func mysqlColumn(name, typ, null, extra string) Row {
	return Row{
		"Field":   []byte(name),
		"Type":    []byte(typ),
		"Null":    []byte(null),
		"Key":     []byte(""),
		"Default": nil,
		"Extra":   []byte(extra),
	}
}

// usersColumns describes users(id auto, name, age).
func usersColumns() []Row {
	return []Row{
		mysqlColumn("id", "int(11)", "NO", "auto_increment"),
		mysqlColumn("name", "varchar(255)", "YES", ""),
		mysqlColumn("age", "int(11)", "YES", ""),
	}
}

type bufLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *bufLogger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *bufLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func newUsers(t *testing.T, eng Engine, options ...Option) *Accessor {
	t.Helper()
	options = append([]Option{WithEngine(eng), WithLogger(NopLogger{})}, options...)
	a, err := New("users", Config{}, options...)
	require.NoError(t, err)
	return a
}

func mysqlBuilder() builder {
	return builder{d: mysqlDialect{}, table: "users"}
}

func postgresBuilder() builder {
	return builder{d: postgresDialect{}, table: "users"}
}
