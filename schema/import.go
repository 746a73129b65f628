package schema

import (
	"unicode/utf8"

	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/helper"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
)

// maxCommentLen is the longest column comment Glue accepts.
const maxCommentLen = 254

// Import reads the properties of every type in raml as catalog columns.
// A description longer than a Glue comment is truncated and kept whole in the LongDescription parameter.
// Facets other than type and description become column parameters.
func Import(raml []byte) ([]catalog.Column, error) {
	doc, err := Parse(raml)
	if err != nil {
		return nil, err
	}
	retval := make([]catalog.Column, 0)
	for _, t := range doc.Types {
		for _, p := range t.Properties {
			retval = append(retval, columnFromProperty(p))
		}
	}
	if len(retval) == 0 {
		return nil, errkind.Errorf(errkind.Configuration, "import raml", "document has no properties")
	}
	return retval, nil
}

func columnFromProperty(p Property) catalog.Column {
	col := catalog.Column{Name: p.Name, Type: "string"}
	params := make(map[string]string)
	for _, f := range p.Facets {
		key, value := scalar(f.Key), scalar(f.Value)
		switch key {
		case "type":
			col.Type = tabledefinition.RamlToGlue.Map(value)
		case "description":
			col.Comment = helper.Truncate(value, maxCommentLen)
			if utf8.RuneCountInString(value) > maxCommentLen {
				params["LongDescription"] = value
			}
		default:
			params[key] = value
		}
	}
	if len(params) > 0 {
		col.Parameters = params
	}
	return col
}
