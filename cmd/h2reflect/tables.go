package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of a schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.close()

		tables, err := eng.inspector.ListTables(cmd.Context(), flagSchema)
		if err != nil {
			return err
		}
		for _, table := range tables {
			fmt.Println(table)
		}
		return nil
	},
}

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List all schemas in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.close()

		schemas, err := eng.inspector.ListSchemas(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range schemas {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(schemasCmd)
}
