package tablestore

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Dialect holds what differs between SQL engines.
type Dialect interface {
	// Name returns the name of the dialect.
	Name() string
	// BindType returns the sqlx bind type of the engine's placeholders,
	// sqlx.QUESTION or sqlx.DOLLAR.
	BindType() int
	// QuoteIdent quotes a single identifier part.
	QuoteIdent(ident string) string
	// ColumnsQuery returns the metadata statement describing table's columns.
	ColumnsQuery(table string) (string, []any)
	// ParseColumn reads one row of the ColumnsQuery result.
	ParseColumn(r Row) (Column, error)
	// IsDuplicateKey reports whether err is a unique constraint violation.
	IsDuplicateKey(err error) bool
}

var (
	dialectMu sync.RWMutex
	dialects  = map[string]Dialect{}
)

// Register registers a dialect for a driver name.
func Register(driverName string, d Dialect) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialects[driverName] = d
}

// GetDialect returns the dialect registered for a driver name.
func GetDialect(driverName string) (Dialect, error) {
	dialectMu.RLock()
	defer dialectMu.RUnlock()
	d, ok := dialects[driverName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, driverName)
	}

	return d, nil
}

func init() {
	Register("mysql", mysqlDialect{})
	Register("pgx", postgresDialect{})
	Register("postgres", postgresDialect{})
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) BindType() int { return sqlx.QUESTION }

func (mysqlDialect) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (d mysqlDialect) ColumnsQuery(table string) (string, []any) {
	return "SHOW COLUMNS FROM " + quoteQualified(d, table), nil
}

func (mysqlDialect) ParseColumn(r Row) (Column, error) {
	name, ok := rowString(r, "Field")
	if !ok || name == "" {
		return Column{}, fmt.Errorf("column metadata without Field: %v", r)
	}

	typ, _ := rowString(r, "Type")
	nullable, _ := rowString(r, "Null")
	extra, _ := rowString(r, "Extra")

	return Column{
		Name:          name,
		Type:          typ,
		Nullable:      strings.EqualFold(nullable, "YES"),
		Default:       rowNullString(r, "Default"),
		AutoIncrement: strings.Contains(strings.ToLower(extra), "auto_increment"),
	}, nil
}

func (mysqlDialect) IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) BindType() int { return sqlx.DOLLAR }

func (postgresDialect) QuoteIdent(ident string) string {
	return pq.QuoteIdentifier(ident)
}

func (postgresDialect) ColumnsQuery(table string) (string, []any) {
	schema := ""
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		schema, table = table[:i], table[i+1:]
	}

	qry := "SELECT column_name, data_type, is_nullable, column_default, is_identity " +
		"FROM information_schema.columns WHERE table_name = ?"
	args := []any{table}
	if schema != "" {
		qry += " AND table_schema = ?"
		args = append(args, schema)
	} else {
		qry += " AND table_schema = current_schema()"
	}
	qry += " ORDER BY ordinal_position"

	return qry, args
}

func (postgresDialect) ParseColumn(r Row) (Column, error) {
	name, ok := rowString(r, "column_name")
	if !ok || name == "" {
		return Column{}, fmt.Errorf("column metadata without column_name: %v", r)
	}

	typ, _ := rowString(r, "data_type")
	nullable, _ := rowString(r, "is_nullable")
	identity, _ := rowString(r, "is_identity")
	def := rowNullString(r, "column_default")

	return Column{
		Name:          name,
		Type:          typ,
		Nullable:      strings.EqualFold(nullable, "YES"),
		Default:       def,
		AutoIncrement: strings.EqualFold(identity, "YES") || strings.HasPrefix(def.String, "nextval("),
	}, nil
}

func (postgresDialect) IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}

// quoteQualified quotes a possibly dotted identifier part by part.
// A bare * is kept as is.
func quoteQualified(d Dialect, ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if p == "*" && i == len(parts)-1 {
			continue
		}
		parts[i] = d.QuoteIdent(p)
	}

	return strings.Join(parts, ".")
}
