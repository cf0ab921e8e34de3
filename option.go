package tablestore

import (
	"io"
)

// Option configures an Accessor.
type Option func(a *Accessor)

// WithLogger sets the logger used for engine errors and SQL tracing.
func WithLogger(logger Logger) Option {
	return func(a *Accessor) {
		a.logger = logger
	}
}

// WithSQLLogging logs every statement sent to the engine.
func WithSQLLogging() Option {
	return func(a *Accessor) {
		a.logSQL = true
	}
}

// WithEngine makes the Accessor use engine instead of opening its own
// connection. The engine is not closed by Close.
func WithEngine(engine Engine) Option {
	return func(a *Accessor) {
		a.engine = engine
		a.external = true
	}
}

// WithOutput sets where Preview renders. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Accessor) {
		a.out = w
	}
}

// QueryOption configures a single operation.
type QueryOption func(o *queryOption)

type queryOption struct {
	Limit      int
	Sorter     []string
	Columns    []string
	Filter     *Condition
	limitGiven bool
}

// WithLimit sets the maximum number of rows returned.
func WithLimit(limit int) QueryOption {
	return func(o *queryOption) {
		o.Limit = limit
		o.limitGiven = true
	}
}

// WithSorter sets the sorting order for the query.
// The sorter parameter is a variadic slice of column names to sort by, prefixed by "-" for descending order, and prefixed by "+" for ascending order.
//
// example:
//
//	WithSorter("-name", "+age")
func WithSorter(sorter ...string) QueryOption {
	return func(o *queryOption) {
		o.Sorter = append(o.Sorter, sorter...)
	}
}

// WithOrderBy sorts on column, ascending when asc is true.
func WithOrderBy(column string, asc bool) QueryOption {
	if asc {
		return WithSorter("+" + column)
	}
	return WithSorter("-" + column)
}

// WithColumns restricts the projected columns. Used by Preview.
func WithColumns(columns ...string) QueryOption {
	return func(o *queryOption) {
		o.Columns = columns
	}
}

// WithFilter adds an equality condition. Used by MostRecent.
func WithFilter(column string, value any) QueryOption {
	return func(o *queryOption) {
		c := Eq(column, value)
		o.Filter = &c
	}
}

func makeQueryOption(options []QueryOption) *queryOption {
	opt := &queryOption{}
	for _, op := range options {
		op(opt)
	}

	return opt
}

// limitOr returns the requested limit, or def when none was given.
func (o *queryOption) limitOr(def int) int {
	if o.limitGiven {
		return o.Limit
	}
	return def
}
