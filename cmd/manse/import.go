package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/infrastructure/config"
	"github.com/kimtaewoo9/mansereok/infrastructure/di"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/seed"
)

var (
	importChecksum  string
	importBatchSize int
	importForce     bool
)

var importCmd = &cobra.Command{
	Use:   "import [seed-file]",
	Short: "Load a seed file into the configured almanac database",
	Long: `Reads a CSV seed file (optionally .xz compressed), verifies it, and upserts
every record into the backend named by ALMANAC_BACKEND or --backend. The memory
backend reads seed files directly and cannot be imported into.`,
	Example: `  ALMANAC_DSN=manse.db manse import manses.csv.xz --backend sqlite`,
	Args:    cobra.ExactArgs(1),
	RunE:    runImport,
}

func init() {
	importCmd.Flags().StringVar(&importChecksum, "checksum", "", "expected BLAKE3 checksum of the seed file")
	importCmd.Flags().IntVar(&importBatchSize, "batch", 500, "records per write batch")
	importCmd.Flags().BoolVar(&importForce, "force", false, "import even when verification finds problems")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Almanac.Backend == config.BackendMemory {
		return fmt.Errorf("import needs a database backend, not %q", cfg.Almanac.Backend)
	}
	if importBatchSize < 1 {
		return fmt.Errorf("--batch must be positive")
	}

	records, err := seed.LoadFile(path, seed.Options{Checksum: importChecksum})
	if err != nil {
		return err
	}
	if issues := seed.Verify(records); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintln(cmd.ErrOrStderr(), issue)
		}
		if !importForce {
			return fmt.Errorf("%s: %d problems found, use --force to import anyway", path, len(issues))
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	store, cleanup, err := di.ProvideAlmanacStore(ctx, cfg, awsCfg, di.ProvideMetrics(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	for start := 0; start < len(records); start += importBatchSize {
		end := start + importBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := store.SaveBatch(ctx, records[start:end]); err != nil {
			return fmt.Errorf("saving records %d-%d: %w", start, end-1, err)
		}
		logger.Debug("Imported batch", zap.Int("from", start), zap.Int("to", end-1))
	}

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d records into %s; store holds %d\n",
		len(records), strings.ToLower(cfg.Almanac.Backend), count)
	return nil
}
