package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/core/tables"
	"github.com/JonMunkholm/tseload/internal/database"
	"github.com/JonMunkholm/tseload/internal/logging"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the enum types and tables without loading data",
	Long: `Schema creates every enum type and table the loader writes to, in one
transaction. Objects that already exist are left as they are, so running it
twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

var schemaFlags struct {
	print bool
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&schemaFlags.print, "print", false,
		"Print the DDL to stdout instead of executing it (no database needed)")
}

func runSchema(cmd *cobra.Command, _ []string) error {
	schema, err := tables.Schema()
	if err != nil {
		return err
	}

	if schemaFlags.print {
		stmts, err := schema.Statements()
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", stmt)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := logging.ContextWithRunID(cmd.Context(), logging.NewRunID())

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	return core.CreateSchema(ctx, database.NewStore(pool), schema)
}
