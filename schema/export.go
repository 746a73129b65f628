package schema

import (
	"sort"
	"strings"

	"github.com/relloyd/lakepipe/catalog"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

const exportTitle = "RAML Export from Glue Catalog"

// ExportTable describes a catalog table as a single RAML object type.
// Column parameters follow the standard facets in key order.
func ExportTable(t catalog.Table) Document {
	desc := t.Description
	if desc == "" {
		desc = "Exported from Glue Catalog Table " + t.Name
	}
	props := make([]Property, 0, len(t.Columns))
	for _, col := range t.Columns {
		f := yaml.MapSlice{
			{Key: "type", Value: tabledefinition.GlueToRaml.Map(col.Type)},
			{Key: "displayName", Value: displayName(col.Name)},
			{Key: "description", Value: col.Comment},
		}
		keys := make([]string, 0, len(col.Parameters))
		for k := range col.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f = append(f, yaml.MapItem{Key: k, Value: col.Parameters[k]})
		}
		props = append(props, Property{Name: col.Name, Facets: f})
	}
	return Document{
		Title: exportTitle,
		Types: []Type{{
			Name: t.Name,
			Facets: yaml.MapSlice{
				{Key: "type", Value: "object"},
				{Key: "displayName", Value: displayName(t.Name)},
				{Key: "description", Value: desc},
			},
			Properties: props,
		}},
	}
}

// displayName turns account_id into Account Id.
func displayName(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}
