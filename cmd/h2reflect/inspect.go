package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/h2go/h2reflect/internal/dialect"
	"github.com/h2go/h2reflect/internal/schema"
)

var inspectDDL bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [table]",
	Short: "Reflect a table or a whole schema",
	Long: `Reflect the full description of one table, or of every table in the
schema when no table is given. Output is JSON, or CREATE TABLE text
with --ddl.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectDDL, "ddl", false, "Render CREATE TABLE statements instead of JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.close()

	if len(args) == 1 {
		ok, err := eng.inspector.HasTable(ctx, args[0], flagSchema)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("table not found: %s", args[0])
		}

		ts, err := eng.inspector.ReflectTable(ctx, args[0], flagSchema)
		if err != nil {
			return err
		}
		if inspectDDL {
			fmt.Println(renderCreateTable(ts))
			return nil
		}
		return printJSON(ts)
	}

	info, err := eng.inspector.ReflectSchema(ctx, flagSchema)
	if err != nil {
		return err
	}
	if inspectDDL {
		for _, ts := range info.Tables {
			fmt.Println(renderCreateTable(&ts))
			fmt.Println()
		}
		return nil
	}
	return printJSON(info)
}

// renderCreateTable renders one reflected table as a CREATE TABLE statement.
func renderCreateTable(ts *schema.TableSchema) string {
	fkCols := make(map[string]bool)
	for _, fk := range ts.ForeignKeys {
		for _, col := range fk.ConstrainedColumns {
			fkCols[col] = true
		}
	}
	pkCols := make(map[string]bool, len(ts.PrimaryKey.Columns))
	for _, col := range ts.PrimaryKey.Columns {
		pkCols[col] = true
	}

	var clauses []string
	for _, col := range ts.Columns {
		def := ""
		if col.Default != nil {
			def = *col.Default
		}
		typeSpec := string(col.Type)
		if col.MaxLength != nil {
			typeSpec = fmt.Sprintf("%s(%d)", typeSpec, *col.MaxLength)
		}
		clauses = append(clauses, "    "+dialect.ColumnSpec(dialect.ColumnDef{
			Name:       col.Name,
			TypeSpec:   typeSpec,
			Default:    def,
			Nullable:   col.Nullable,
			PrimaryKey: pkCols[col.Name],
			Integer:    col.Type.IsInteger(),
			ForeignKey: fkCols[col.Name],
		}, len(ts.PrimaryKey.Columns)))
	}

	if len(ts.PrimaryKey.Columns) > 1 {
		clauses = append(clauses, "    PRIMARY KEY ("+strings.Join(ts.PrimaryKey.Columns, ", ")+")")
	}
	for _, fk := range ts.ForeignKeys {
		ref := fk.ReferredTable
		if fk.ReferredSchema != "" {
			ref = fk.ReferredSchema + "." + ref
		}
		clauses = append(clauses, fmt.Sprintf("    CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
			fk.Name, strings.Join(fk.ConstrainedColumns, ", "), ref, strings.Join(fk.ReferredColumns, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s.%s (\n%s\n);", ts.Schema, ts.Name, strings.Join(clauses, ",\n"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
