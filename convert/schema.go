package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
)

type kind int

const (
	kindString kind = iota
	kindBoolean
	kindInt32
	kindInt64
	kindFloat
	kindDouble
	kindDecimal
	kindDate
	kindTimestamp
)

const (
	defaultPrecision = 10
	defaultScale     = 0
)

// column is a catalog column with its Parquet representation.
type column struct {
	name      string
	kind      kind
	precision int
	scale     int
}

// parquetSchema holds the columns of one table in catalog order.
type parquetSchema []column

func newParquetSchema(cols []catalog.Column) (parquetSchema, error) {
	if len(cols) == 0 {
		return nil, errkind.Errorf(errkind.Configuration, "build parquet schema", "table has no columns")
	}
	retval := make(parquetSchema, 0, len(cols))
	for _, c := range cols {
		col, err := newColumn(c.Name, c.Type)
		if err != nil {
			return nil, err
		}
		retval = append(retval, col)
	}
	return retval, nil
}

// newColumn maps a Glue type to a column. Unknown types are written as strings.
func newColumn(name, glueType string) (column, error) {
	t := strings.ToLower(strings.TrimSpace(glueType))
	base, args := t, ""
	if i := strings.Index(t, "("); i > 0 {
		base, args = t[:i], strings.TrimSuffix(t[i+1:], ")")
	}
	col := column{name: name}
	switch base {
	case "boolean":
		col.kind = kindBoolean
	case "tinyint", "smallint", "short", "byte", "int", "integer":
		col.kind = kindInt32
	case "bigint", "long":
		col.kind = kindInt64
	case "float":
		col.kind = kindFloat
	case "double":
		col.kind = kindDouble
	case "date":
		col.kind = kindDate
	case "timestamp":
		col.kind = kindTimestamp
	case "decimal":
		col.kind = kindDecimal
		col.precision, col.scale = defaultPrecision, defaultScale
		if args != "" {
			p, s := args, ""
			if i := strings.Index(args, ","); i >= 0 {
				p, s = args[:i], args[i+1:]
			}
			var err error
			if col.precision, err = strconv.Atoi(strings.TrimSpace(p)); err != nil {
				return column{}, errkind.Errorf(errkind.Configuration, "build parquet schema", "column %v has bad type %q", name, glueType)
			}
			if s != "" {
				if col.scale, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
					return column{}, errkind.Errorf(errkind.Configuration, "build parquet schema", "column %v has bad type %q", name, glueType)
				}
			}
		}
	default:
		col.kind = kindString
	}
	return col, nil
}

// tag returns the parquet-go CSV writer metadata for the column. Every column is optional.
func (c column) tag() string {
	var t string
	switch c.kind {
	case kindBoolean:
		t = "type=BOOLEAN"
	case kindInt32:
		t = "type=INT32"
	case kindInt64:
		t = "type=INT64"
	case kindFloat:
		t = "type=FLOAT"
	case kindDouble:
		t = "type=DOUBLE"
	case kindDecimal:
		t = fmt.Sprintf("type=BYTE_ARRAY, convertedtype=DECIMAL, precision=%d, scale=%d", c.precision, c.scale)
	case kindDate:
		t = "type=INT32, convertedtype=DATE"
	case kindTimestamp:
		t = "type=INT64, convertedtype=TIMESTAMP_MILLIS"
	default:
		t = "type=BYTE_ARRAY, convertedtype=UTF8"
	}
	return fmt.Sprintf("name=%v, %v, repetitiontype=OPTIONAL", c.name, t)
}

func (s parquetSchema) metadata() []string {
	retval := make([]string, len(s))
	for i, c := range s {
		retval[i] = c.tag()
	}
	return retval
}
