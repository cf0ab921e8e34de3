package tablestore

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// Record maps column names to the values of one row to insert.
type Record map[string]any

func (r Record) lookup(column string) (any, bool) {
	if v, ok := r[column]; ok {
		return v, true
	}

	for k, v := range r {
		if strings.EqualFold(k, column) {
			return v, true
		}
	}

	return nil, false
}

// values lays the record out in column order, checking each value
// against its column.
func (r Record) values(cols []Column) ([]any, error) {
	row := make([]any, len(cols))
	for i, col := range cols {
		raw, _ := r.lookup(col.Name)
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}

		if err := checkColumn(col, v); err != nil {
			return nil, err
		}

		row[i], err = v.Value()
		if err != nil {
			return nil, err
		}
	}

	return row, nil
}

// RecordOf builds a Record from a struct, a pointer to a struct or a
// map with string keys. Struct fields are named by their db tag, or by
// the snake case of the field name when untagged. Fields tagged auto
// or "-" are skipped, as are nil pointers.
func RecordOf(value any) (Record, error) {
	dataVal := reflect.ValueOf(value)
	if dataVal.Kind() == reflect.Ptr {
		if dataVal.IsNil() {
			return nil, fmt.Errorf("cannot build record from nil %T", value)
		}
		dataVal = dataVal.Elem()
	}

	switch dataVal.Kind() {
	case reflect.Map:
		if dataVal.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("value as map should have string key")
		}

		rec := make(Record, dataVal.Len())
		iter := dataVal.MapRange()
		for iter.Next() {
			rec[iter.Key().String()] = iter.Value().Interface()
		}
		return rec, nil
	case reflect.Struct:
	default:
		return nil, fmt.Errorf("cannot build record from %T", value)
	}

	valType := dataVal.Type()
	rec := make(Record)
	for i := 0; i < valType.NumField(); i++ {
		field := valType.Field(i)
		if !field.IsExported() {
			continue
		}

		tagValue, _ := field.Tag.Lookup("db")
		if strings.TrimSpace(tagValue) == "-" {
			continue
		}

		name, _, isAuto, _, _ := ParseDBTag(tagValue)
		if isAuto {
			continue
		}

		if name == "" {
			name = strcase.ToSnake(field.Name)
		}

		fv := dataVal.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			if _, isValuer := fv.Interface().(driver.Valuer); !isValuer {
				fv = fv.Elem()
			}
		}

		rec[name] = fv.Interface()
	}

	return rec, nil
}
