// Package tabledefinition translates column data types between the vocabularies the pipeline meets:
// Glue catalog types, RAML scalar types, TDS source types and FiscalData dictionary types.
package tabledefinition

import (
	"strings"
)

// Mapper converts a data type name from one vocabulary to another.
type Mapper interface {
	Map(inputDataType string) (output string)
}

// fallbackFuncT decides the output for types that have no explicit mapping.
type fallbackFuncT func(inputDataType string) string

// dataTypeMap implements Mapper.
type dataTypeMap struct {
	mapTypes   map[string]string
	lowerInput bool
	baseType   bool
	fallback   fallbackFuncT
}

// Map returns the target type of inputDataType, or the fallback result when there is no mapping.
func (o dataTypeMap) Map(inputDataType string) (output string) {
	key := inputDataType
	if o.lowerInput {
		key = strings.ToLower(strings.TrimSpace(key))
	}
	if o.baseType { // if parameters like decimal(10,2) should map by their base type...
		if i := strings.Index(key, "("); i > 0 {
			key = key[:i]
		}
	}
	if v, ok := o.mapTypes[key]; ok {
		return v
	}
	return o.fallback(inputDataType)
}

type dataTypeLink struct {
	SourceDataType string
	TargetDataType string
}

func newDataTypeMapper(types []dataTypeLink, lowerInput bool, baseType bool, fallback fallbackFuncT) dataTypeMap {
	dtm := dataTypeMap{lowerInput: lowerInput, baseType: baseType, fallback: fallback}
	dtm.mapTypes = make(map[string]string)
	for _, row := range types { // for each data type link...
		dtm.mapTypes[row.SourceDataType] = row.TargetDataType
	}
	return dtm
}

func unchanged(inputDataType string) string {
	return inputDataType
}

func constant(v string) fallbackFuncT {
	return func(string) string { return v }
}

// GlueToRamlDataTypeMapping converts Glue column types to RAML scalar types.
var GlueToRamlDataTypeMapping = []dataTypeLink{
	{SourceDataType: "timestamp", TargetDataType: "datetime"},
	{SourceDataType: "byte", TargetDataType: "integer"},
	{SourceDataType: "short", TargetDataType: "integer"},
	{SourceDataType: "long", TargetDataType: "integer"},
	{SourceDataType: "float", TargetDataType: "number"},
	{SourceDataType: "double", TargetDataType: "number"},
	{SourceDataType: "decimal", TargetDataType: "number"},
}

// RamlToGlueDataTypeMapping converts RAML scalar types to Glue column types.
var RamlToGlueDataTypeMapping = []dataTypeLink{
	{SourceDataType: "number", TargetDataType: "double"},
	{SourceDataType: "integer", TargetDataType: "int"},
}

// TdsToGlueDataTypeMapping converts TDS source types to Glue column types.
var TdsToGlueDataTypeMapping = []dataTypeLink{
	{SourceDataType: "big_int", TargetDataType: "bigint"},
	{SourceDataType: "bytes", TargetDataType: "byte"},
	{SourceDataType: "char", TargetDataType: "string"},
	{SourceDataType: "date", TargetDataType: "timestamp"},
	{SourceDataType: "smallint", TargetDataType: "short"},
	{SourceDataType: "text", TargetDataType: "string"},
}

// FiscalDataToRamlDataTypeMapping converts FiscalData data dictionary types to RAML types.
// Anything not listed is a string.
var FiscalDataToRamlDataTypeMapping = []dataTypeLink{
	{SourceDataType: "currency", TargetDataType: "number"},
	{SourceDataType: "percentage", TargetDataType: "number"},
	{SourceDataType: "year", TargetDataType: "int"},
	{SourceDataType: "quarter", TargetDataType: "int"},
	{SourceDataType: "month", TargetDataType: "int"},
	{SourceDataType: "day", TargetDataType: "int"},
	{SourceDataType: "date", TargetDataType: "date"},
	{SourceDataType: "timestamp", TargetDataType: "timestamp"},
}

var (
	GlueToRaml       Mapper = newDataTypeMapper(GlueToRamlDataTypeMapping, false, true, unchanged)
	RamlToGlue       Mapper = newDataTypeMapper(RamlToGlueDataTypeMapping, false, false, unchanged)
	TdsToGlue        Mapper = newDataTypeMapper(TdsToGlueDataTypeMapping, false, false, unchanged)
	FiscalDataToRaml Mapper = newDataTypeMapper(FiscalDataToRamlDataTypeMapping, true, false, constant("string"))
)
