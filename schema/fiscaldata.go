package schema

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/relloyd/lakepipe/errkind"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
	"gopkg.in/yaml.v2"
)

// dictionaryColumns are the data dictionary CSV headers read by ExportDataDictionary.
var dictionaryColumns = []string{"dataset", "data_table_name", "field_name", "data_type", "display_name", "description", "is_required"}

// ExportDataDictionary converts a FiscalData data dictionary CSV into one RAML object type per data table.
// The original data type is kept in the (fd_data_type) annotation.
func ExportDataDictionary(r io.Reader) (Document, error) {
	const op = "export data dictionary"
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return Document{}, errkind.Errorf(errkind.Configuration, op, "empty data dictionary")
	} else if err != nil {
		return Document{}, errkind.New(errkind.Configuration, op, err)
	}
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range dictionaryColumns {
		if _, ok := idx[c]; !ok {
			return Document{}, errkind.Errorf(errkind.Configuration, op, "data dictionary has no %v column", c)
		}
	}
	doc := Document{}
	tables := make(map[string]int)
	dataset := ""
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return Document{}, errkind.New(errkind.Configuration, op, err)
		}
		field := func(name string) string {
			return row[idx[name]]
		}
		dataset = field("dataset")
		table := field("data_table_name")
		i, ok := tables[table]
		if !ok { // if this is the first field of the table...
			i = len(doc.Types)
			tables[table] = i
			doc.Types = append(doc.Types, Type{
				Name:       table,
				Facets:     yaml.MapSlice{{Key: "type", Value: "object"}},
				Properties: []Property{},
			})
		}
		doc.Types[i].Properties = append(doc.Types[i].Properties, Property{
			Name: field("field_name"),
			Facets: yaml.MapSlice{
				{Key: "type", Value: tabledefinition.FiscalDataToRaml.Map(field("data_type"))},
				{Key: "displayName", Value: field("display_name")},
				{Key: "description", Value: field("description")},
				{Key: "required", Value: field("is_required") == "1"},
				{Key: "(fd_data_type)", Value: field("data_type")},
			},
		})
	}
	if len(doc.Types) == 0 {
		return Document{}, errkind.Errorf(errkind.Configuration, op, "data dictionary has no fields")
	}
	doc.Title = "Import from FiscalData Data Dictionary " + dataset + " Dataset"
	return doc, nil
}

// ExportMetaObject converts the meta object of a FiscalData API response into one RAML type per field.
// meta may be the whole response, in which case its meta member is used.
func ExportMetaObject(meta []byte) (Document, error) {
	const op = "export meta object"
	root := yaml.MapSlice{}
	if err := yaml.Unmarshal(meta, &root); err != nil {
		return Document{}, errkind.New(errkind.Configuration, op, err)
	}
	if v, ok := lookup(root, "meta"); ok {
		if m, ok := v.(yaml.MapSlice); ok {
			root = m
		}
	}
	section := func(name string) yaml.MapSlice {
		v, _ := lookup(root, name)
		m, _ := v.(yaml.MapSlice)
		return m
	}
	labels, dataTypes, dataFormats := section("labels"), section("dataTypes"), section("dataFormats")
	if len(labels) == 0 {
		return Document{}, errkind.Errorf(errkind.Configuration, op, "meta object has no labels")
	}
	doc := Document{Title: "Import from FiscalData Meta Object"}
	for _, l := range labels {
		key := scalar(l.Key)
		dt, _ := lookup(dataTypes, key)
		df, _ := lookup(dataFormats, key)
		doc.Types = append(doc.Types, Type{
			Name: key,
			Facets: yaml.MapSlice{
				{Key: "type", Value: strings.ToLower(scalar(dt))},
				{Key: "displayName", Value: scalar(l.Value)},
				{Key: "format", Value: scalar(df)},
			},
		})
	}
	return doc, nil
}
