package tablestore

import "errors"

var (
	ErrKeyAlreadyExists = errors.New("key already exists")
	ErrEmptyTableName   = errors.New("empty table name")
	ErrEmptyIdentifier  = errors.New("empty identifier")
	ErrEmptyList        = errors.New("empty list")
	ErrNoColumns        = errors.New("table has no insertable columns")
	ErrNoJoinType       = errors.New("no join type")
	ErrUnknownJoinType  = errors.New("unknown join type")
	ErrUnknownOperator  = errors.New("unknown comparison operator")

	// ErrUnsupportedValue is returned when a Go value has no Value kind.
	ErrUnsupportedValue = errors.New("unsupported value type")

	// ErrValueMismatch is returned when a value cannot be stored in the
	// column it is bound to.
	ErrValueMismatch = errors.New("value does not match column type")

	ErrUnsupportedDialect = errors.New("unsupported dialect")
)
