package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tseload/internal/core"
	"github.com/JonMunkholm/tseload/internal/core/tables"
	"github.com/JonMunkholm/tseload/internal/database"
	"github.com/JonMunkholm/tseload/internal/logging"
	"github.com/JonMunkholm/tseload/internal/source"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the configured export into PostgreSQL",
	Long: `Load reads FILE_PATH, normalizes null sentinels, creates the schema if it
does not exist and loads every table in dependency order:

  municipios, partidos, cargo, situacao, federacao, coligacao,
  situacao_detalhe, situacao_totalizacao, candidato, eleicao, locais,
  qtd_votos

Each table is loaded in its own transaction. When a table fails, its
transaction is rolled back and the run stops; tables loaded before it stay
committed. Loading is not incremental: run it against an empty schema.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	progress, err := showProgress()
	if err != nil {
		return err
	}

	ctx := logging.ContextWithRunID(cmd.Context(), logging.NewRunID())
	logger := logging.FromContext(ctx)
	logger.Info("configuration loaded", "config", cfg.String())

	tbl, err := readSource(ctx, cfg.Source.Path)
	if err != nil {
		return err
	}

	schema, err := tables.Schema()
	if err != nil {
		return err
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := database.NewStore(pool)
	if err := core.CreateSchema(ctx, store, schema); err != nil {
		return err
	}

	opts := []core.LoaderOption{core.WithBatchSize(cfg.Load.BatchSize)}
	if progress {
		bars := newProgressBars(cmd.ErrOrStderr())
		defer bars.finish()
		opts = append(opts, core.WithProgress(bars.update))
	}

	result, err := core.NewLoader(store, opts...).Run(ctx, schema.Tables, tbl)
	printRunSummary(cmd.OutOrStdout(), result)

	if errors.Is(err, context.Canceled) {
		logger.Warn("load interrupted", "committed", len(result.Committed()))
	}
	return err
}

// readSource reads and normalizes the export at path.
func readSource(ctx context.Context, path string) (*source.Table, error) {
	logger := logging.WithFields(ctx, "file", path)

	raw, err := source.Read(path)
	if err != nil {
		return nil, err
	}

	tbl := source.Normalize(raw)
	logger.Info("source read", "rows", tbl.Len(), "sentinels", source.NormalizeStats(raw))
	return tbl, nil
}
