package actions

import (
	"bytes"
	"context"

	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/schema"
)

type SchemaExportConfig struct {
	Database string `errorTxt:"database" mandatory:"yes"`
	Table    string `errorTxt:"table" mandatory:"yes"`
	Output   string // location of the RAML file, stdout if empty
}

// RunSchemaExport writes the RAML definition of a catalog table.
func RunSchemaExport(ctx context.Context, env *Env, cfg SchemaExportConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	t, err := env.Catalog.GetTable(ctx, cfg.Database, cfg.Table)
	if err != nil {
		return err
	}
	raml, err := schema.ExportTable(*t).Marshal()
	if err != nil {
		return err
	}
	return env.write(ctx, cfg.Output, raml)
}

type SchemaImportConfig struct {
	Input       string // location of the RAML file, stdin if empty
	Output      string // location of the JSON columns, stdout if empty
	Database    string // the table is created or updated when Database and Table are both set
	Table       string
	TemplateUrl string
}

// RunSchemaImport converts RAML to Glue columns and writes them as JSON.
// When a table is named, the columns are also applied to it using the table input template.
func RunSchemaImport(ctx context.Context, env *Env, cfg SchemaImportConfig) error {
	raw, err := env.read(ctx, cfg.Input)
	if err != nil {
		return err
	}
	columns, err := schema.Import(raw)
	if err != nil {
		return err
	}
	if cfg.Database != "" && cfg.Table != "" { // if the columns should be applied...
		return crupTable(ctx, env, cfg.Database, cfg.Table, columns, cfg.TemplateUrl)
	}
	return env.writeJSON(ctx, cfg.Output, columns)
}

type SchemaConvertConfig struct {
	Input  string // stdin if empty
	Output string // stdout if empty
}

// RunSchemaDictionary converts a FiscalData data dictionary CSV to RAML.
func RunSchemaDictionary(ctx context.Context, env *Env, cfg SchemaConvertConfig) error {
	raw, err := env.read(ctx, cfg.Input)
	if err != nil {
		return err
	}
	doc, err := schema.ExportDataDictionary(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return writeDocument(ctx, env, cfg.Output, doc)
}

// RunSchemaMeta converts a FiscalData API meta object to RAML.
func RunSchemaMeta(ctx context.Context, env *Env, cfg SchemaConvertConfig) error {
	raw, err := env.read(ctx, cfg.Input)
	if err != nil {
		return err
	}
	doc, err := schema.ExportMetaObject(raw)
	if err != nil {
		return err
	}
	return writeDocument(ctx, env, cfg.Output, doc)
}

func writeDocument(ctx context.Context, env *Env, uri string, doc schema.Document) error {
	raml, err := doc.Marshal()
	if err != nil {
		return err
	}
	return env.write(ctx, uri, raml)
}
