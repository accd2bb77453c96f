package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danprat/ABSEN-DESA/internal/importer"
	"github.com/danprat/ABSEN-DESA/internal/store/mariadb"
)

var importCmd = &cobra.Command{
	Use:   "import-employees",
	Short: "Import employees from a legacy MariaDB HR database",
	Long: `Copy employee rows from an existing MariaDB HR database into the
attendance store. Rows already present (same NIP, or same normalized
name for rows without a NIP) are skipped, so re-running is safe.
The legacy database is configured via LEGACY_DATABASE_DSN.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if b.cfg.Legacy.DatabaseDSN == "" {
		return errors.New("LEGACY_DATABASE_DSN environment variable is required")
	}

	fmt.Printf("Connecting to legacy MariaDB database...\n")
	legacy, err := mariadb.NewPool(b.cfg.Legacy.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to legacy database: %w", err)
	}
	defer legacy.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Importing employees"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	im := importer.New(legacy, b.store, b.audit)
	stats, err := im.Run(context.Background(), func() { _ = bar.Add(1) })
	fmt.Println()
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d employees (%d skipped)\n", stats.Imported, stats.Skipped)
	return nil
}
