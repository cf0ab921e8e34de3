package tablestore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Statement is SQL text in the dialect's bind style plus its arguments.
type Statement struct {
	SQL  string
	Args []any
}

// builder renders the statements of one table for one dialect.
type builder struct {
	d     Dialect
	table string
}

// argBuilder collects statement arguments and hands out the placeholder
// for each one. Placeholders are written as the statement is rendered, so
// quoted identifiers are never rescanned for bind variables.
type argBuilder struct {
	bindType int
	args     []any
}

func (a *argBuilder) add(v any) string {
	a.args = append(a.args, v)
	if a.bindType == sqlx.DOLLAR {
		return "$" + strconv.Itoa(len(a.args))
	}
	return "?"
}

func (b builder) newArgs() *argBuilder {
	return &argBuilder{bindType: b.d.BindType()}
}

func (b builder) from() (string, error) {
	tb, err := quoteIdent(b.d, b.table)
	if err != nil {
		return "", fmt.Errorf("table name: %w", err)
	}

	return tb, nil
}

func (b builder) where(c Condition, args *argBuilder) (string, error) {
	op, err := ParseOperator(string(c.Op))
	if err != nil {
		return "", err
	}

	col, err := quoteIdent(b.d, c.Column)
	if err != nil {
		return "", fmt.Errorf("condition column: %w", err)
	}

	val, err := bindValue(c.Value)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s %s", col, op, args.add(val)), nil
}

// tail appends the optional ORDER BY and LIMIT clauses.
func (b builder) tail(qry *strings.Builder, args *argBuilder, sorter []string, limit int) error {
	srt, err := MakeSortClause(b.d, sorter)
	if err != nil {
		return fmt.Errorf("order by: %w", err)
	}

	if srt != "" {
		qry.WriteString(" ORDER BY ")
		qry.WriteString(srt)
	}

	if limit > 0 {
		qry.WriteString(" LIMIT ")
		qry.WriteString(args.add(limit))
	}

	return nil
}

// columns renders the dialect's metadata query. Its text holds no
// identifiers, only ? markers, so it is rebound as a whole.
func (b builder) columns() (Statement, error) {
	if _, err := b.from(); err != nil {
		return Statement{}, err
	}

	qry, args := b.d.ColumnsQuery(b.table)
	return Statement{SQL: sqlx.Rebind(b.d.BindType(), qry), Args: args}, nil
}

func (b builder) preview(columns []string, limit int) (Statement, error) {
	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	cols, err := quoteIdents(b.d, columns)
	if err != nil {
		return Statement{}, err
	}

	args := b.newArgs()
	var qry strings.Builder
	fmt.Fprintf(&qry, "SELECT %s FROM %s", cols, tb)
	if err := b.tail(&qry, args, nil, limit); err != nil {
		return Statement{}, err
	}

	return Statement{SQL: qry.String(), Args: args.args}, nil
}

func (b builder) fetchFiltered(cond Condition, sorter []string, limit int) (Statement, error) {
	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	args := b.newArgs()
	where, err := b.where(cond, args)
	if err != nil {
		return Statement{}, err
	}

	var qry strings.Builder
	fmt.Fprintf(&qry, "SELECT * FROM %s WHERE %s", tb, where)
	if err := b.tail(&qry, args, sorter, limit); err != nil {
		return Statement{}, err
	}

	return Statement{SQL: qry.String(), Args: args.args}, nil
}

func (b builder) update(column string, value any, cond Condition) (Statement, error) {
	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	col, err := quoteIdent(b.d, column)
	if err != nil {
		return Statement{}, fmt.Errorf("update column: %w", err)
	}

	val, err := bindValue(value)
	if err != nil {
		return Statement{}, err
	}

	args := b.newArgs()
	set := args.add(val)
	where, err := b.where(cond, args)
	if err != nil {
		return Statement{}, err
	}

	qry := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s", tb, col, set, where)
	return Statement{SQL: qry, Args: args.args}, nil
}

func (b builder) delete(cond Condition) (Statement, error) {
	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	args := b.newArgs()
	where, err := b.where(cond, args)
	if err != nil {
		return Statement{}, err
	}

	qry := fmt.Sprintf("DELETE FROM %s WHERE %s", tb, where)
	return Statement{SQL: qry, Args: args.args}, nil
}

// insert renders a multi-row insert. Every record is laid out in the
// order of cols; missing fields are bound as NULL.
func (b builder) insert(cols []Column, records []Record) (Statement, error) {
	if len(records) == 0 {
		return Statement{}, ErrEmptyList
	}

	if len(cols) == 0 {
		return Statement{}, ErrNoColumns
	}

	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	names, err := quoteIdents(b.d, columnNames(cols))
	if err != nil {
		return Statement{}, err
	}

	args := b.newArgs()
	insertValues := make([]string, 0, len(records))
	marks := make([]string, len(cols))
	for _, rec := range records {
		row, err := rec.values(cols)
		if err != nil {
			return Statement{}, err
		}

		for i, v := range row {
			marks[i] = args.add(v)
		}
		insertValues = append(insertValues, "("+strings.Join(marks, ", ")+")")
	}

	qry := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", tb, names, strings.Join(insertValues, ", "))
	return Statement{SQL: qry, Args: args.args}, nil
}

func (b builder) mostRecent(orderBy string, filter *Condition, limit int) (Statement, error) {
	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	if strings.TrimSpace(orderBy) == "" {
		return Statement{}, fmt.Errorf("order by: %w", ErrEmptyIdentifier)
	}

	args := b.newArgs()
	var qry strings.Builder
	fmt.Fprintf(&qry, "SELECT * FROM %s", tb)
	if filter != nil {
		where, err := b.where(*filter, args)
		if err != nil {
			return Statement{}, err
		}
		qry.WriteString(" WHERE " + where)
	}

	if err := b.tail(&qry, args, []string{"-" + orderBy}, limit); err != nil {
		return Statement{}, err
	}

	return Statement{SQL: qry.String(), Args: args.args}, nil
}

func (b builder) join(columns []string, kind JoinKind, other, leftKey, rightKey string, sorter []string, limit int) (Statement, error) {
	keyword, err := kind.keyword()
	if err != nil {
		return Statement{}, err
	}

	tb, err := b.from()
	if err != nil {
		return Statement{}, err
	}

	otb, err := quoteIdent(b.d, other)
	if err != nil {
		return Statement{}, fmt.Errorf("join table: %w", err)
	}

	cols, err := quoteIdents(b.d, columns)
	if err != nil {
		return Statement{}, err
	}

	lk, err := quoteIdent(b.d, qualify(b.table, leftKey))
	if err != nil {
		return Statement{}, fmt.Errorf("left join key: %w", err)
	}

	rk, err := quoteIdent(b.d, qualify(other, rightKey))
	if err != nil {
		return Statement{}, fmt.Errorf("right join key: %w", err)
	}

	args := b.newArgs()
	var qry strings.Builder
	fmt.Fprintf(&qry, "SELECT %s FROM %s %s %s ON %s = %s", cols, tb, keyword, otb, lk, rk)
	if err := b.tail(&qry, args, sorter, limit); err != nil {
		return Statement{}, err
	}

	return Statement{SQL: qry.String(), Args: args.args}, nil
}

// qualify prefixes column with table unless it is already qualified.
func qualify(table, column string) string {
	column = strings.TrimSpace(column)
	if column == "" || strings.Contains(column, ".") {
		return column
	}

	return table + "." + column
}
