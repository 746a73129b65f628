package schema

import (
	"reflect"
	"strings"
	"testing"

	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
)

func testTable() catalog.Table {
	return catalog.Table{
		Database: "lake",
		Name:     "debt_to_penny",
		Columns: []catalog.Column{
			{Name: "record_date", Type: "timestamp", Comment: "Record date"},
			{Name: "debt_held_public_amt", Type: "decimal(18,2)", Comment: strings.Repeat("x", 300)},
			{Name: "src_line_nbr", Type: "short"},
			{Name: "record_fiscal_year", Type: "int", Parameters: map[string]string{"pii": "false", "source": "tds"}},
			{Name: "note", Type: "string"},
		},
	}
}

func TestExportTable(t *testing.T) {
	doc := ExportTable(testTable())
	raml, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	s := string(raml)
	if !strings.HasPrefix(s, "#%RAML 1.0\n\ntitle: RAML Export from Glue Catalog\ntypes:\n  debt_to_penny:\n") {
		t.Fatalf("unexpected document start:\n%v", s)
	}
	for _, expected := range []string{
		"    type: object\n",
		"    displayName: Debt To Penny\n",
		"    description: Exported from Glue Catalog Table debt_to_penny\n",
		"      record_date:\n        type: datetime\n        displayName: Record Date\n        description: Record date\n",
		"      src_line_nbr:\n        type: integer\n",
		"        pii: \"false\"\n        source: tds\n",
	} {
		if !strings.Contains(s, expected) {
			t.Fatalf("expected document to contain %q:\n%v", expected, s)
		}
	}
}

func TestExportTableKeepsDescription(t *testing.T) {
	tbl := testTable()
	tbl.Description = "Debt to the penny"
	doc := ExportTable(tbl)
	if v, _ := lookup(doc.Types[0].Facets, "description"); v != "Debt to the penny" {
		t.Fatalf("unexpected description %v", v)
	}
}

func TestRoundTrip(t *testing.T) {
	tbl := testTable()
	raml, err := ExportTable(tbl).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	cols, err := Import(raml)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != len(tbl.Columns) {
		t.Fatalf("expected %v columns; got %v", len(tbl.Columns), len(cols))
	}
	for i, col := range cols {
		src := tbl.Columns[i]
		if col.Name != src.Name {
			t.Fatalf("column %v: expected name %q; got %q", i, src.Name, col.Name)
		}
		expected := tabledefinition.RamlToGlue.Map(tabledefinition.GlueToRaml.Map(src.Type))
		if col.Type != expected {
			t.Fatalf("column %v: expected type %q; got %q", src.Name, expected, col.Type)
		}
		if col.Parameters["displayName"] != displayName(src.Name) {
			t.Fatalf("column %v: unexpected displayName %q", src.Name, col.Parameters["displayName"])
		}
		for k, v := range src.Parameters {
			if col.Parameters[k] != v {
				t.Fatalf("column %v: expected parameter %v=%q; got %q", src.Name, k, v, col.Parameters[k])
			}
		}
	}
	long := cols[1]
	if len(long.Comment) != 254 || long.Parameters["LongDescription"] != tbl.Columns[1].Comment {
		t.Fatalf("expected truncated comment and LongDescription; got %v", long)
	}
	if _, ok := cols[0].Parameters["LongDescription"]; ok {
		t.Fatal("unexpected LongDescription on short comment")
	}
}

func TestImport(t *testing.T) {
	raml := `#%RAML 1.0 DataType

title: Accounts
types:
  account:
    type: object
    properties:
      id: integer
      balance:
        type: number
        required: true
        description: Closing balance
      opened:
        type: date-only
        required: false
      name:
`
	cols, err := Import([]byte(raml))
	if err != nil {
		t.Fatal(err)
	}
	expected := []catalog.Column{
		{Name: "id", Type: "int"},
		{Name: "balance", Type: "double", Comment: "Closing balance", Parameters: map[string]string{"required": "true"}},
		{Name: "opened", Type: "date-only", Parameters: map[string]string{"required": "false"}},
		{Name: "name", Type: "string"},
	}
	if !reflect.DeepEqual(cols, expected) {
		t.Fatalf("expected %+v; got %+v", expected, cols)
	}
}

func TestImportErrors(t *testing.T) {
	for name, raml := range map[string]string{
		"bad yaml":      "types: [",
		"no types":      "#%RAML 1.0\ntitle: x\n",
		"no properties": "#%RAML 1.0\ntypes:\n  a:\n    type: string\n",
	} {
		if _, err := Import([]byte(raml)); !errkind.Is(err, errkind.Configuration) {
			t.Fatalf("%v: expected configuration error; got %v", name, err)
		}
	}
}

func TestParseKeepsOrder(t *testing.T) {
	doc, err := Parse([]byte("title: T\ntypes:\n  b:\n    type: object\n    properties:\n      z: string\n      a: string\n  a:\n    type: string\n"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "T" || len(doc.Types) != 2 || doc.Types[0].Name != "b" || doc.Types[1].Name != "a" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Types[0].Properties[0].Name != "z" || doc.Types[1].Properties != nil {
		t.Fatalf("unexpected properties %+v", doc.Types)
	}
	if v, ok := doc.Types[0].Properties[1].Facet("type"); !ok || v != "string" {
		t.Fatalf("unexpected facet %v", v)
	}
}
