package tablestore

import (
	"fmt"
	"strings"
)

// Operator is a comparison operator usable in a WHERE clause.
type Operator string

const (
	OpEq Operator = "="
	OpLt Operator = "<"
	OpGt Operator = ">"
)

// ParseOperator validates op. An empty op means OpEq.
func ParseOperator(op string) (Operator, error) {
	switch Operator(strings.TrimSpace(op)) {
	case "", OpEq:
		return OpEq, nil
	case OpLt:
		return OpLt, nil
	case OpGt:
		return OpGt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
}

func (op Operator) phrase() string {
	switch op {
	case OpLt:
		return "less than"
	case OpGt:
		return "greater than"
	default:
		return "of"
	}
}

// Condition is a single "column op value" filter.
type Condition struct {
	Column string
	Op     Operator
	Value  any
}

// Where builds a Condition. An empty op means equality.
func Where(column string, op Operator, value any) Condition {
	return Condition{Column: column, Op: op, Value: value}
}

// Eq builds an equality Condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

// JoinKind names the kind of a two-table join.
type JoinKind string

const (
	LeftJoin  JoinKind = "LEFT"
	RightJoin JoinKind = "RIGHT"
	InnerJoin JoinKind = "INNER"
	OuterJoin JoinKind = "OUTER"
)

func (k JoinKind) keyword() (string, error) {
	switch JoinKind(strings.ToUpper(strings.TrimSpace(string(k)))) {
	case "":
		return "", ErrNoJoinType
	case LeftJoin:
		return "LEFT JOIN", nil
	case RightJoin:
		return "RIGHT JOIN", nil
	case InnerJoin:
		return "INNER JOIN", nil
	case OuterJoin:
		return "FULL OUTER JOIN", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownJoinType, string(k))
	}
}

func wrapEngineError(d Dialect, err error) error {
	if err == nil {
		return nil
	}

	if d != nil && d.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %w", ErrKeyAlreadyExists, err)
	}

	return err
}

// MakeSortClause renders sorter entries as an ORDER BY list. An entry
// prefixed with "-" sorts descending, "+" or no prefix ascending.
func MakeSortClause(d Dialect, sorter []string) (string, error) {
	if len(sorter) == 0 {
		return "", nil
	}

	var srt []string
	for _, s := range sorter {
		op := "ASC"
		field := strings.TrimSpace(s)
		if strings.HasPrefix(field, "-") || strings.HasPrefix(field, "+") {
			if field[0] == '-' {
				op = "DESC"
			}
			field = field[1:]
		}

		col, err := quoteIdent(d, field)
		if err != nil {
			return "", err
		}

		srt = append(srt, fmt.Sprintf("%s %s", col, op))
	}

	return strings.Join(srt, ", "), nil
}

// quoteIdent validates and quotes a possibly dotted identifier.
func quoteIdent(d Dialect, ident string) (string, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return "", ErrEmptyIdentifier
	}

	for _, p := range strings.Split(ident, ".") {
		if p == "" {
			return "", fmt.Errorf("%w: %q", ErrEmptyIdentifier, ident)
		}
	}

	return quoteQualified(d, ident), nil
}

func quoteIdents(d Dialect, idents []string) (string, error) {
	if len(idents) == 0 {
		return "*", nil
	}

	quoted := make([]string, len(idents))
	for i, ident := range idents {
		q, err := quoteIdent(d, ident)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}

	return strings.Join(quoted, ", "), nil
}
