// Package schema converts table schemas to and from RAML 1.0 data type documents.
package schema

import (
	"bytes"
	"fmt"

	"github.com/relloyd/lakepipe/errkind"
	"gopkg.in/yaml.v2"
)

const ramlHeader = "#%RAML 1.0"

// Document is a RAML 1.0 document holding a title and a list of data types.
type Document struct {
	Title string
	Types []Type
}

// Type is one entry of the types map. Facets keep their order when written.
// A nil Properties slice omits the properties block.
type Type struct {
	Name       string
	Facets     yaml.MapSlice
	Properties []Property
}

// Property is one property of an object type.
type Property struct {
	Name   string
	Facets yaml.MapSlice
}

// Facet returns the value of key and whether it is set.
func (p Property) Facet(key string) (interface{}, bool) {
	return lookup(p.Facets, key)
}

// Marshal renders the document with its RAML header and title line.
func (d Document) Marshal() ([]byte, error) {
	types := yaml.MapSlice{}
	for _, t := range d.Types {
		def := append(yaml.MapSlice{}, t.Facets...)
		if t.Properties != nil {
			props := yaml.MapSlice{}
			for _, p := range t.Properties {
				props = append(props, yaml.MapItem{Key: p.Name, Value: p.Facets})
			}
			def = append(def, yaml.MapItem{Key: "properties", Value: props})
		}
		types = append(types, yaml.MapItem{Key: t.Name, Value: def})
	}
	body, err := yaml.Marshal(yaml.MapSlice{{Key: "types", Value: types}})
	if err != nil {
		return nil, errkind.New(errkind.Unknown, "marshal raml", err)
	}
	buf := bytes.NewBufferString(fmt.Sprintf("%v\n\ntitle: %v\n", ramlHeader, d.Title))
	buf.Write(body)
	return buf.Bytes(), nil
}

// Parse reads a RAML document. Type and property order is kept.
// A property declared as a bare type name, like "id: integer", gets a single type facet.
func Parse(raml []byte) (*Document, error) {
	const op = "parse raml"
	root := yaml.MapSlice{}
	if err := yaml.Unmarshal(raml, &root); err != nil {
		return nil, errkind.New(errkind.Configuration, op, err)
	}
	doc := &Document{}
	if v, ok := lookup(root, "title"); ok {
		doc.Title = scalar(v)
	}
	v, _ := lookup(root, "types")
	types, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, errkind.Errorf(errkind.Configuration, op, "document has no types")
	}
	for _, item := range types {
		t := Type{Name: scalar(item.Key)}
		switch def := item.Value.(type) {
		case yaml.MapSlice:
			for _, facet := range def {
				if scalar(facet.Key) != "properties" {
					t.Facets = append(t.Facets, facet)
					continue
				}
				props, _ := facet.Value.(yaml.MapSlice)
				t.Properties = make([]Property, 0, len(props))
				for _, p := range props {
					t.Properties = append(t.Properties, Property{Name: scalar(p.Key), Facets: facets(p.Value)})
				}
			}
		default:
			t.Facets = facets(def)
		}
		doc.Types = append(doc.Types, t)
	}
	return doc, nil
}

func facets(v interface{}) yaml.MapSlice {
	switch f := v.(type) {
	case yaml.MapSlice:
		return f
	case nil:
		return yaml.MapSlice{}
	default:
		return yaml.MapSlice{{Key: "type", Value: scalar(f)}}
	}
}

func lookup(m yaml.MapSlice, key string) (interface{}, bool) {
	for _, item := range m {
		if scalar(item.Key) == key {
			return item.Value, true
		}
	}
	return nil, false
}

// scalar renders a YAML value as a catalog string. Booleans become "true" or "false".
func scalar(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case yaml.MapSlice, []interface{}:
		out, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(bytes.TrimSpace(out))
	default:
		return fmt.Sprint(s)
	}
}
