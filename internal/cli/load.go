package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abwagner/nj-affordable-housing/internal/store"
	"github.com/abwagner/nj-affordable-housing/internal/store/sqlite"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <seed.yaml>",
	Short: "Load a municipality seed list into the database",
	Long: `Load reads a YAML seed list of municipalities and inserts them into
the database. Existing municipalities are updated in place, so reloading
a revised seed file is safe.

Seed file format:

  municipalities:
    - name: Cranford
      county: Union
      website: https://cranfordnj.org
      population: 24000

Example:
  njhousing load nj-municipalities.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		stats, err := db.Stats(ctx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		fmt.Printf("Database: %s\n", cfg.Database.Path)
		fmt.Printf("  Municipalities: %d\n", stats.Municipalities)
		fmt.Printf("  Commitments:    %d\n", stats.Commitments)
		fmt.Printf("  Scraped pages:  %d\n", stats.ScrapedPages)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(statsCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ms, err := store.LoadMunicipalitiesYAML(args[0])
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	count, err := db.BulkInsertMunicipalities(ctx, ms)
	if err != nil {
		return fmt.Errorf("insert municipalities: %w", err)
	}

	fmt.Printf("Loaded %d municipalities into %s\n", count, cfg.Database.Path)
	return nil
}
