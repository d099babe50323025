package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abwagner/nj-affordable-housing/internal/pipeline"
	"github.com/abwagner/nj-affordable-housing/internal/report"
	"github.com/abwagner/nj-affordable-housing/internal/store"
	"github.com/abwagner/nj-affordable-housing/internal/store/sqlite"
	"github.com/abwagner/nj-affordable-housing/internal/worker"
)

var (
	scanWebsite  string
	scanTimeout  time.Duration
	scanOutJSON  string
	scanOutMD    string
	scanNoCache  bool
	scanNoRobots bool
	scanNoStore  bool
	insecureTLS  bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <municipality>",
	Short: "Scrape one municipality's website for housing commitments",
	Long: `Scan walks a municipality's official website: the homepage, then
planning and housing pages linked from it, capped per site. Pages that
mention affordable housing obligations are run through the extraction
rules and the results stored with their source URLs.

The municipality is looked up in the database; use --website to scrape a
site that has not been loaded yet.

Example:
  njhousing scan Cranford
  njhousing scan Cranford --website https://cranfordnj.org
  njhousing scan Cranford --json cranford.json --md cranford.md`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanWebsite, "website", "", "official website (overrides the database entry)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Minute, "overall scrape timeout")
	scanCmd.Flags().StringVar(&scanOutJSON, "json", "", "output JSON report path (optional)")
	scanCmd.Flags().StringVar(&scanOutMD, "md", "", "output Markdown report path (optional)")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "disable the page cache (force fresh fetches)")
	scanCmd.Flags().BoolVar(&scanNoRobots, "no-robots", false, "skip robots.txt checks")
	scanCmd.Flags().BoolVar(&scanNoStore, "no-store", false, "print results without writing to the database")
	scanCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runScan(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !scanNoCache
	cfg.Crawl.RespectRobots = cfg.Crawl.RespectRobots && !scanNoRobots
	cfg.HTTP.InsecureTLS = cfg.HTTP.InsecureTLS || insecureTLS

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var db store.Store
	if !scanNoStore {
		db, err = sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()
	}

	m, err := resolveMunicipality(ctx, db, name, scanWebsite)
	if err != nil {
		return err
	}

	scraper := pipeline.NewScraper(cfg, db, log)
	result, err := scraper.ScrapeMunicipality(ctx, m)

	outcome := &worker.ScrapeOutcome{Municipality: name, Result: result, Err: err}
	run := report.FromOutcomes([]*worker.ScrapeOutcome{outcome})

	if err := renderRun(run, scanOutJSON, scanOutMD); err != nil {
		return err
	}
	if outcome.Err != nil {
		return fmt.Errorf("scrape %s: %w", name, outcome.Err)
	}
	return nil
}

// resolveMunicipality finds the municipality in the database, creating or
// updating it when a website is given on the command line.
func resolveMunicipality(ctx context.Context, db store.Store, name, website string) (store.Municipality, error) {
	if db == nil {
		if website == "" {
			return store.Municipality{}, fmt.Errorf("--no-store requires --website")
		}
		return store.Municipality{Name: name, OfficialWebsite: website}, nil
	}

	existing, err := db.GetMunicipality(ctx, name)
	switch {
	case err == nil:
		if website != "" && website != existing.OfficialWebsite {
			if err := db.UpdateMunicipalityWebsite(ctx, name, website); err != nil {
				return store.Municipality{}, fmt.Errorf("update website: %w", err)
			}
			existing.OfficialWebsite = website
		}
		return *existing, nil
	case website != "":
		m := store.Municipality{Name: name, OfficialWebsite: website}
		id, err := db.InsertMunicipality(ctx, m)
		if err != nil {
			return store.Municipality{}, fmt.Errorf("insert municipality: %w", err)
		}
		m.ID = id
		return m, nil
	default:
		return store.Municipality{}, fmt.Errorf("municipality %q not in database; load a seed file or pass --website", name)
	}
}

// renderRun writes the requested report files and the stdout summary.
func renderRun(run *report.Run, jsonPath, mdPath string) error {
	renderer := report.NewRenderer(nil)

	if jsonPath != "" {
		if err := renderer.RenderJSON(run, jsonPath); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := renderer.RenderMarkdown(run, mdPath); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", mdPath)
		}
	}

	renderer.RenderSummary(run)
	return nil
}
