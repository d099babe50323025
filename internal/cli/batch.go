package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abwagner/nj-affordable-housing/internal/pipeline"
	"github.com/abwagner/nj-affordable-housing/internal/report"
	"github.com/abwagner/nj-affordable-housing/internal/store"
	"github.com/abwagner/nj-affordable-housing/internal/store/sqlite"
	"github.com/abwagner/nj-affordable-housing/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchOutJSON     string
	batchOutMD       string
	batchLLM         bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [names-file]",
	Short: "Scrape many municipalities in parallel",
	Long: `Batch scrapes every municipality in the database that has an
official website, or only those named in the given file (one name per
line, #-comments allowed). Municipalities run in parallel; requests to
any single site stay rate limited.

Example:
  njhousing batch
  njhousing batch union-county.txt --concurrency 8
  njhousing batch --json run.json --md run.md --llm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent municipalities (default: config scrape_workers)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch run")
	batchCmd.Flags().StringVar(&batchOutJSON, "json", "", "output JSON report path (optional)")
	batchCmd.Flags().StringVar(&batchOutMD, "md", "", "output Markdown report path (optional)")
	batchCmd.Flags().BoolVar(&batchLLM, "llm", false, "append an LLM-written run summary (needs OPENAI_API_KEY)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchLLM {
		cfg.LLM.Enabled = true
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	targets, err := batchTargets(ctx, db, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no municipalities with websites to scrape; load a seed file first")
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.ScrapeWorkers
	}

	log.Info("starting batch scrape",
		zap.Int("municipalities", len(targets)),
		zap.Int("concurrency", concurrency))

	scraper := pipeline.NewScraper(cfg, db, log)
	processor := worker.NewBatchProcessor(scraper, concurrency)
	outcomes := processor.Process(ctx, targets)

	run := report.FromOutcomes(outcomes)

	if cfg.LLM.Enabled {
		summarizer, err := report.NewSummarizer(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary unavailable: %v\n", err)
		} else if summarizer != nil {
			summary, err := summarizer.Summarize(ctx, run)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
			} else {
				run.LLMSummary = summary
			}
		}
	}

	return renderRun(run, batchOutJSON, batchOutMD)
}

// batchTargets selects the municipalities to scrape: all with websites, or
// the subset named in the file.
func batchTargets(ctx context.Context, db store.Store, args []string) ([]store.Municipality, error) {
	all, err := db.ListMunicipalities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list municipalities: %w", err)
	}

	var wanted map[string]bool
	if len(args) == 1 {
		names, err := worker.ReadNamesFromFile(args[0])
		if err != nil {
			return nil, err
		}
		wanted = make(map[string]bool, len(names))
		for _, n := range names {
			wanted[n] = true
		}
	}

	var targets []store.Municipality
	for _, m := range all {
		if m.OfficialWebsite == "" {
			continue
		}
		if wanted != nil && !wanted[m.Name] {
			continue
		}
		targets = append(targets, m)
	}
	return targets, nil
}
