package convert

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
)

func TestCast(t *testing.T) {
	cases := []struct {
		glueType string
		in       string
		expected interface{}
	}{
		{"string", "", ""},
		{"string", " a b ", " a b "},
		{"varchar(10)", "x", "x"},
		{"int", "", nil},
		{"int", " 42 ", int32(42)},
		{"bigint", "-9000000000", int64(-9000000000)},
		{"boolean", "Y", true},
		{"boolean", "0", false},
		{"float", "0.25", float32(0.25)},
		{"double", "1.50", 1.5},
		{"date", "1970-01-02", int32(1)},
		{"date", "1969-12-31", int32(-1)},
		{"date", "01/02/2024", int32(19724)},
		{"timestamp", "1970-01-01 00:00:01.5", int64(1500)},
		{"timestamp", "2024-01-02T00:00:00Z", int64(1704153600000)},
	}
	for _, c := range cases {
		col, err := newColumn("c", c.glueType)
		if err != nil {
			t.Fatal(err)
		}
		got, err := col.cast(c.in)
		if err != nil {
			t.Fatalf("%v %q: unexpected error %v", c.glueType, c.in, err)
		}
		if !reflect.DeepEqual(got, c.expected) {
			t.Fatalf("%v %q: expected %#v; got %#v", c.glueType, c.in, c.expected, got)
		}
	}
}

func TestCastDecimalIsExact(t *testing.T) {
	cases := []struct {
		glueType string
		in       string
		expected string // unscaled value
	}{
		{"decimal(10,2)", "12.34", "1234"},
		{"decimal(10,2)", "10.5", "1050"},
		{"decimal(10,2)", "-0.01", "-1"},
		{"decimal(10,2)", "0", "0"},
		{"decimal(5)", "12345", "12345"},
		{"decimal(38,2)", "12345678901234567890.12", "1234567890123456789012"},
		{"decimal(38,0)", "-99999999999999999999999999999999999999", "-99999999999999999999999999999999999999"},
	}
	for _, c := range cases {
		col, err := newColumn("c", c.glueType)
		if err != nil {
			t.Fatal(err)
		}
		got, err := col.cast(c.in)
		if err != nil {
			t.Fatalf("%v %q: unexpected error %v", c.glueType, c.in, err)
		}
		if s := decodeDecimal(got.(string)); s != c.expected {
			t.Fatalf("%v %q: expected unscaled %v; got %v", c.glueType, c.in, c.expected, s)
		}
	}
}

func TestCastErrors(t *testing.T) {
	for glueType, in := range map[string]string{
		"int":            "3000000000",
		"bigint":         "1.5",
		"boolean":        "maybe",
		"double":         "abc",
		"decimal":        "1,000",
		"decimal(10,2)":  "1.005",
		"decimal(4,2)":   "123.4",
		"decimal(38,10)": "1/2",
		"date":           "2024-13-01",
		"timestamp":      "yesterday",
	} {
		col, err := newColumn("c", glueType)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := col.cast(in); !errkind.Is(err, errkind.Configuration) {
			t.Fatalf("%v %q: expected configuration error; got %v", glueType, in, err)
		}
	}
}

// decodeDecimal returns the big-endian two's complement integer in b as a base 10 string.
func decodeDecimal(b string) string {
	n := new(big.Int).SetBytes([]byte(b))
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return n.String()
}

func TestSchemaMetadata(t *testing.T) {
	sch, err := newParquetSchema([]catalog.Column{
		{Name: "id", Type: "int"},
		{Name: "amount", Type: "decimal(18,4)"},
		{Name: "posted", Type: "date"},
		{Name: "loaded", Type: "timestamp"},
		{Name: "note", Type: "array<string>"},
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"name=id, type=INT32, repetitiontype=OPTIONAL",
		"name=amount, type=BYTE_ARRAY, convertedtype=DECIMAL, precision=18, scale=4, repetitiontype=OPTIONAL",
		"name=posted, type=INT32, convertedtype=DATE, repetitiontype=OPTIONAL",
		"name=loaded, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=OPTIONAL",
		"name=note, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL",
	}
	for i, md := range sch.metadata() {
		if md != expected[i] {
			t.Fatalf("column %v: expected %q; got %q", i, expected[i], md)
		}
	}
	if _, err := newParquetSchema(nil); !errkind.Is(err, errkind.Configuration) {
		t.Fatalf("expected configuration error for empty table; got %v", err)
	}
	if _, err := newColumn("x", "decimal(a,2)"); !errkind.Is(err, errkind.Configuration) {
		t.Fatalf("expected configuration error for bad decimal; got %v", err)
	}
}
