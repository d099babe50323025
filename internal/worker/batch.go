package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/abwagner/nj-affordable-housing/internal/pipeline"
	"github.com/abwagner/nj-affordable-housing/internal/store"
)

// MunicipalityScraper scrapes one municipality's website.
type MunicipalityScraper interface {
	ScrapeMunicipality(ctx context.Context, m store.Municipality) (*pipeline.MunicipalityResult, error)
}

// ScrapeJob scrapes a single municipality.
type ScrapeJob struct {
	Municipality store.Municipality
	Scraper      MunicipalityScraper
}

// Execute runs the scrape.
func (j *ScrapeJob) Execute(ctx context.Context) Result {
	result, err := j.Scraper.ScrapeMunicipality(ctx, j.Municipality)
	return &ScrapeOutcome{
		Municipality: j.Municipality.Name,
		Result:       result,
		Err:          err,
	}
}

// ScrapeOutcome is the result of one municipality scrape job.
type ScrapeOutcome struct {
	Municipality string
	Result       *pipeline.MunicipalityResult
	Err          error
}

// GetError returns the scrape error, if any.
func (o *ScrapeOutcome) GetError() error {
	return o.Err
}

// BatchProcessor scrapes many municipalities concurrently. Per-host
// politeness lives in the scraper's limiter; the pool only bounds how many
// municipalities are in flight at once.
type BatchProcessor struct {
	scraper MunicipalityScraper
	pool    *Pool
}

// NewBatchProcessor creates a batch processor with the given concurrency.
func NewBatchProcessor(scraper MunicipalityScraper, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scraper: scraper,
		pool:    NewPool(concurrency),
	}
}

// Process scrapes all municipalities and returns one outcome each.
func (b *BatchProcessor) Process(ctx context.Context, ms []store.Municipality) []*ScrapeOutcome {
	if len(ms) == 0 {
		return nil
	}

	jobs := make([]Job, len(ms))
	for i, m := range ms {
		jobs[i] = &ScrapeJob{Municipality: m, Scraper: b.scraper}
	}

	results := b.pool.Run(ctx, jobs)

	outcomes := make([]*ScrapeOutcome, len(results))
	for i, r := range results {
		outcomes[i] = r.(*ScrapeOutcome)
	}
	return outcomes
}

// ReadNamesFromFile reads municipality names from a file, one per line.
// Blank lines and #-comments are skipped; duplicates are dropped.
func ReadNamesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return names, nil
}
