package tablestore

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

func renderTable(w io.Writer, res QueryResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	cols := res.Columns
	if len(cols) == 0 && len(res.Rows) > 0 {
		for k := range res.Rows[0] {
			cols = append(cols, k)
		}
		sort.Strings(cols)
	}

	if len(cols) == 0 {
		_, err := fmt.Fprintln(w, "(no columns)")
		return err
	}

	seps := make([]string, len(cols))
	for i, c := range cols {
		seps[i] = strings.Repeat("-", len(c))
	}

	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	fmt.Fprintln(tw, strings.Join(seps, "\t"))

	cells := make([]string, len(cols))
	for _, r := range res.Rows {
		for i, c := range cols {
			cells[i] = formatCell(r[c])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
