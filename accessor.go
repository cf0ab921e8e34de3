// Package tablestore is a small accessor for one relational table. It
// builds parameterized statements for a fixed set of operations, with
// every identifier quoted by the engine's dialect and every value bound
// as a parameter, and runs them through an Engine.
package tablestore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

const (
	defaultPreviewLimit    = 100
	defaultMostRecentLimit = 1
)

// Result confirms a write operation.
type Result struct {
	Message      string
	RowsAffected int64
	LastInsertID int64
}

func (r Result) String() string {
	return r.Message
}

func resultFrom(msg string, res sql.Result) Result {
	out := Result{Message: msg}
	if res == nil {
		return out
	}

	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}

	return out
}

// Accessor reads and writes one table.
//
// An Accessor holds at most one connection. It is opened by Connect or
// on first use and released by Close. Concurrent calls share that
// connection.
type Accessor struct {
	name    string
	config  Config
	dialect Dialect
	logger  Logger
	logSQL  bool
	out     io.Writer

	mu       sync.Mutex
	db       *sqlx.DB
	engine   Engine
	external bool
}

// New returns an Accessor for table name. No connection is opened.
func New(name string, config Config, options ...Option) (*Accessor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTableName
	}

	d, err := GetDialect(config.driver())
	if err != nil {
		return nil, err
	}

	a := &Accessor{
		name:    name,
		config:  config,
		dialect: d,
		logger:  StdLogger(),
		out:     os.Stdout,
	}
	for _, op := range options {
		op(a)
	}

	if a.logger == nil {
		a.logger = NopLogger{}
	}

	return a, nil
}

func (a *Accessor) Name() string {
	return a.name
}

func (a *Accessor) Dialect() Dialect {
	return a.dialect
}

// Connect opens the accessor's connection and checks it is alive.
// It does nothing when a connection is already open.
func (a *Accessor) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine != nil {
		return nil
	}

	if err := a.open(ctx); err != nil {
		logKV(a.logger, "connect failed", "table", a.name, "err", err)
		return err
	}

	return nil
}

// Close releases the connection opened by the accessor. A later
// operation opens a new one.
func (a *Accessor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.external || a.db == nil {
		return nil
	}

	err := a.db.Close()
	a.db = nil
	a.engine = nil
	return err
}

func (a *Accessor) open(ctx context.Context) error {
	db, err := Connect(a.config)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	a.db = db
	a.engine = NewEngine(db)
	return nil
}

func (a *Accessor) conn(ctx context.Context) (Engine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		if err := a.open(ctx); err != nil {
			logKV(a.logger, "connect failed", "table", a.name, "err", err)
			return nil, err
		}
	}

	if a.logSQL {
		return &tracingEngine{inner: a.engine, logger: a.logger}, nil
	}

	return a.engine, nil
}

func (a *Accessor) builder() builder {
	return builder{d: a.dialect, table: a.name}
}

func (a *Accessor) query(ctx context.Context, op string, stmt Statement) (QueryResult, error) {
	eng, err := a.conn(ctx)
	if err != nil {
		return QueryResult{}, err
	}

	res, err := eng.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		logKV(a.logger, "query failed", "table", a.name, "op", op, "err", err)
		return QueryResult{}, wrapEngineError(a.dialect, err)
	}

	return res, nil
}

func (a *Accessor) exec(ctx context.Context, op string, stmt Statement) (sql.Result, error) {
	eng, err := a.conn(ctx)
	if err != nil {
		return nil, err
	}

	res, err := eng.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		logKV(a.logger, "exec failed", "table", a.name, "op", op, "err", err)
		return nil, wrapEngineError(a.dialect, err)
	}

	return res, nil
}

// ColumnInfo describes every column of the table, in table order.
func (a *Accessor) ColumnInfo(ctx context.Context) ([]Column, error) {
	stmt, err := a.builder().columns()
	if err != nil {
		return nil, err
	}

	res, err := a.query(ctx, "columns", stmt)
	if err != nil {
		return nil, err
	}

	cols := make([]Column, 0, len(res.Rows))
	for _, r := range res.Rows {
		col, err := a.dialect.ParseColumn(r)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return cols, nil
}

// Columns returns the names of the columns a caller may supply on
// insert, i.e. every column except auto-increment ones.
func (a *Accessor) Columns(ctx context.Context) ([]string, error) {
	cols, err := a.insertColumns(ctx)
	if err != nil {
		return nil, err
	}

	return columnNames(cols), nil
}

func (a *Accessor) insertColumns(ctx context.Context) ([]Column, error) {
	cols, err := a.ColumnInfo(ctx)
	if err != nil {
		return nil, err
	}

	return insertableColumns(cols), nil
}

// Preview prints up to 100 rows of the table to the accessor's output.
// WithColumns and WithLimit change what is printed.
func (a *Accessor) Preview(ctx context.Context, options ...QueryOption) error {
	opt := makeQueryOption(options)
	stmt, err := a.builder().preview(opt.Columns, opt.limitOr(defaultPreviewLimit))
	if err != nil {
		return err
	}

	res, err := a.query(ctx, "preview", stmt)
	if err != nil {
		return err
	}

	return renderTable(a.out, res)
}

// FetchFiltered returns the rows matching cond. WithOrderBy, WithSorter
// and WithLimit add ORDER BY and LIMIT clauses.
func (a *Accessor) FetchFiltered(ctx context.Context, cond Condition, options ...QueryOption) ([]Row, error) {
	opt := makeQueryOption(options)
	stmt, err := a.builder().fetchFiltered(cond, opt.Sorter, opt.Limit)
	if err != nil {
		return nil, err
	}

	res, err := a.query(ctx, "fetch", stmt)
	if err != nil {
		return nil, err
	}

	return res.Rows, nil
}

// UpdateRows sets column to value on every row where condColumn equals
// condValue.
func (a *Accessor) UpdateRows(ctx context.Context, column string, value any, condColumn string, condValue any) (Result, error) {
	stmt, err := a.builder().update(column, value, Eq(condColumn, condValue))
	if err != nil {
		return Result{}, err
	}

	res, err := a.exec(ctx, "update", stmt)
	if err != nil {
		return Result{}, err
	}

	msg := fmt.Sprintf("You have successfully updated the table %s for %s to have a value of %v where %s is equal to %v.",
		a.name, column, value, condColumn, condValue)
	return resultFrom(msg, res), nil
}

// InsertOne inserts rec. Columns missing from rec are inserted as NULL.
func (a *Accessor) InsertOne(ctx context.Context, rec Record) (Result, error) {
	cols, err := a.insertColumns(ctx)
	if err != nil {
		return Result{}, err
	}

	stmt, err := a.builder().insert(cols, []Record{rec})
	if err != nil {
		return Result{}, err
	}

	res, err := a.exec(ctx, "insert", stmt)
	if err != nil {
		return Result{}, err
	}

	return resultFrom("Item successfully added", res), nil
}

// InsertMany inserts all records with one statement.
func (a *Accessor) InsertMany(ctx context.Context, records []Record) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrEmptyList
	}

	cols, err := a.insertColumns(ctx)
	if err != nil {
		return Result{}, err
	}

	stmt, err := a.builder().insert(cols, records)
	if err != nil {
		return Result{}, err
	}

	res, err := a.exec(ctx, "insert many", stmt)
	if err != nil {
		return Result{}, err
	}

	return resultFrom(fmt.Sprintf("%d items successfully added", len(records)), res), nil
}

// DeleteFiltered deletes the rows matching cond.
func (a *Accessor) DeleteFiltered(ctx context.Context, cond Condition) (Result, error) {
	stmt, err := a.builder().delete(cond)
	if err != nil {
		return Result{}, err
	}

	res, err := a.exec(ctx, "delete", stmt)
	if err != nil {
		return Result{}, err
	}

	op, _ := ParseOperator(string(cond.Op))
	msg := fmt.Sprintf("You have successfully deleted item(s) with a %s %s %v.", cond.Column, op.phrase(), cond.Value)
	return resultFrom(msg, res), nil
}

// MostRecent returns the rows with the highest orderBy values, one row
// unless WithLimit says otherwise. WithFilter restricts the rows
// considered.
func (a *Accessor) MostRecent(ctx context.Context, orderBy string, options ...QueryOption) ([]Row, error) {
	opt := makeQueryOption(options)
	stmt, err := a.builder().mostRecent(orderBy, opt.Filter, opt.limitOr(defaultMostRecentLimit))
	if err != nil {
		return nil, err
	}

	res, err := a.query(ctx, "most recent", stmt)
	if err != nil {
		return nil, err
	}

	return res.Rows, nil
}

// Join selects columns from the table joined with other on
// leftKey = rightKey. Unqualified keys belong to the table and to
// other respectively.
func (a *Accessor) Join(ctx context.Context, columns []string, kind JoinKind, other, leftKey, rightKey string, options ...QueryOption) ([]Row, error) {
	opt := makeQueryOption(options)
	stmt, err := a.builder().join(columns, kind, other, leftKey, rightKey, opt.Sorter, opt.Limit)
	if err != nil {
		return nil, err
	}

	res, err := a.query(ctx, "join", stmt)
	if err != nil {
		return nil, err
	}

	return res.Rows, nil
}
