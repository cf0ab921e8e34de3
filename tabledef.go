package tablestore

import (
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v4"
)

// Column describes one column as reported by the engine's metadata.
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	Default       null.String
	AutoIncrement bool
}

// Row is one result row keyed by column name.
type Row map[string]any

// QueryResult holds the rows of a query together with the column order
// the engine returned them in.
type QueryResult struct {
	Columns []string
	Rows    []Row
}

func columnNames(cols []Column) []string {
	return Map(cols, func(col Column) string {
		return col.Name
	})
}

func insertableColumns(cols []Column) []Column {
	return Filter(cols, func(col Column) bool {
		return !col.AutoIncrement
	})
}

// rowString reads a metadata cell. Text comes back as []byte from the
// MySQL driver and as string from most others.
func rowString(r Row, key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		for k, val := range r {
			if strings.EqualFold(k, key) {
				v, ok = val, true
				break
			}
		}
	}

	if !ok || v == nil {
		return "", false
	}

	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return fmt.Sprint(x), true
	}
}

func rowNullString(r Row, key string) null.String {
	s, ok := rowString(r, key)
	return null.NewString(s, ok)
}
