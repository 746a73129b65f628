package actions

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/schema"
)

type PartitionCrupConfig struct {
	Database string   `errorTxt:"database" mandatory:"yes"`
	Table    string   `errorTxt:"table" mandatory:"yes"`
	Values   []string `errorTxt:"partition values" mandatory:"yes"`
}

// RunPartitionCrup creates or updates one partition and prints the outcome.
func RunPartitionCrup(ctx context.Context, env *Env, cfg PartitionCrupConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	outcome, err := env.Catalog.CreateOrUpdatePartition(ctx, cfg.Database, cfg.Table, cfg.Values)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Out, outcome)
	return err
}

type PartitionListConfig struct {
	Database string `errorTxt:"database" mandatory:"yes"`
	Table    string `errorTxt:"table" mandatory:"yes"`
	Pattern  string // regular expression matched against the joined partition values
}

// RunPartitionList prints the partitions of a table whose values match the pattern.
func RunPartitionList(ctx context.Context, env *Env, cfg PartitionListConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	parts, err := env.Catalog.ListPartitions(ctx, cfg.Database, cfg.Table, cfg.Pattern)
	if err != nil {
		return err
	}
	return printPartitions(env, parts)
}

type PartitionDeleteConfig struct {
	Database string `errorTxt:"database" mandatory:"yes"`
	Table    string `errorTxt:"table" mandatory:"yes"`
	Pattern  string `errorTxt:"pattern" mandatory:"yes"` // use "." to delete every partition
}

// RunPartitionDelete deletes the matching partitions of a table and prints those deleted.
// Partitions that could not be deleted are reported in the returned error.
func RunPartitionDelete(ctx context.Context, env *Env, cfg PartitionDeleteConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	parts, err := env.Catalog.DeletePartitions(ctx, cfg.Database, cfg.Table, cfg.Pattern)
	if perr := printPartitions(env, parts); perr != nil && err == nil {
		err = perr
	}
	return err
}

func printPartitions(env *Env, parts []catalog.Partition) error {
	for _, p := range parts {
		if _, err := fmt.Fprintf(env.Out, "%v\t%v\n", strings.Join(p.Values, "/"), p.Location); err != nil {
			return err
		}
	}
	return nil
}

type DatePartitionsConfig struct {
	Database string `errorTxt:"database" mandatory:"yes"`
	Tables   []string
	Layout   string
	Begin    string // YYYY-MM-DD, defaults to today
	End      string // YYYY-MM-DD, defaults to Begin
}

// RunDatePartitions creates or updates one partition per day and table and prints the count.
func RunDatePartitions(ctx context.Context, env *Env, cfg DatePartitionsConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	begin, err := parseDate("begin date", cfg.Begin)
	if err != nil {
		return err
	}
	end, err := parseDate("end date", cfg.End)
	if err != nil {
		return err
	}
	n, err := env.Catalog.CreateOrUpdateDatePartitions(ctx, cfg.Database, cfg.Tables, cfg.Layout, catalog.DateRange{Begin: begin, End: end})
	env.Log.Info("registered ", n, " date partitions in ", cfg.Database)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Out, n)
	return err
}

type TableCrupConfig struct {
	Database    string `errorTxt:"database" mandatory:"yes"`
	Table       string `errorTxt:"table" mandatory:"yes"`
	ColumnsUrl  string `errorTxt:"columns file" mandatory:"yes"`
	TemplateUrl string `errorTxt:"table input template" mandatory:"yes"`
}

// RunTableCrup creates or updates a table from a columns file and a table input template.
// A columns file ending in .raml is imported as RAML, otherwise it is a JSON or YAML list of columns.
func RunTableCrup(ctx context.Context, env *Env, cfg TableCrupConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	raw, err := env.Files.Get(ctx, cfg.ColumnsUrl)
	if err != nil {
		return err
	}
	columns, err := loadColumns(cfg.ColumnsUrl, raw)
	if err != nil {
		return err
	}
	return crupTable(ctx, env, cfg.Database, cfg.Table, columns, cfg.TemplateUrl)
}

func crupTable(ctx context.Context, env *Env, database, table string, columns []catalog.Column, templateUrl string) error {
	template, err := env.Files.Get(ctx, templateUrl)
	if err != nil {
		return err
	}
	outcome, err := env.Catalog.CreateOrUpdateTable(ctx, database, table, columns, catalog.TableTemplate(template))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Out, outcome)
	return err
}

func loadColumns(uri string, raw []byte) ([]catalog.Column, error) {
	if strings.EqualFold(path.Ext(uri), ".raml") {
		return schema.Import(raw)
	}
	columns := make([]catalog.Column, 0)
	if err := yaml.Unmarshal(raw, &columns); err != nil {
		return nil, errkind.New(errkind.Configuration, "load columns "+uri, err)
	}
	if len(columns) == 0 {
		return nil, errkind.Errorf(errkind.Configuration, "load columns "+uri, "no columns found")
	}
	return columns, nil
}

type TableListConfig struct {
	Database string `errorTxt:"database" mandatory:"yes"`
	Pattern  string
}

// RunTableList prints the name and location of each matching table.
func RunTableList(ctx context.Context, env *Env, cfg TableListConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	tables, err := env.Catalog.ListTables(ctx, cfg.Database, cfg.Pattern)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if _, err = fmt.Fprintf(env.Out, "%v\t%v\n", t.Name, t.Location); err != nil {
			return err
		}
	}
	return nil
}
