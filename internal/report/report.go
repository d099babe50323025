// Package report renders scrape runs as JSON, Markdown, and a stdout
// summary. An optional LLM narrative can be appended after the data is
// final; it never feeds back into extraction or storage.
package report

import (
	"time"

	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/worker"
)

// Run is one complete scrape run.
type Run struct {
	GeneratedAt      time.Time             `json:"generated_at"`
	Municipalities   []MunicipalitySummary `json:"municipalities"`
	TotalPages       int                   `json:"total_pages"`
	TotalCommitments int                   `json:"total_commitments"`
	FailedScrapes    int                   `json:"failed_scrapes"`
	LLMSummary       string                `json:"llm_summary,omitempty"`
}

// MunicipalitySummary is one municipality's slice of the run.
type MunicipalitySummary struct {
	Name         string                    `json:"name"`
	Website      string                    `json:"website,omitempty"`
	PagesVisited int                       `json:"pages_visited"`
	PagesSkipped int                       `json:"pages_skipped"`
	Commitments  []*model.CommitmentRecord `json:"commitments,omitempty"`
	Documents    []string                  `json:"documents,omitempty"`
	Errors       []string                  `json:"errors,omitempty"`
}

// FromOutcomes folds batch outcomes into a run report.
func FromOutcomes(outcomes []*worker.ScrapeOutcome) *Run {
	run := &Run{GeneratedAt: time.Now().UTC()}

	for _, o := range outcomes {
		if o.Err != nil {
			run.FailedScrapes++
			run.Municipalities = append(run.Municipalities, MunicipalitySummary{
				Name:   o.Municipality,
				Errors: []string{o.Err.Error()},
			})
			continue
		}

		summary := MunicipalitySummary{
			Name:         o.Result.Municipality,
			Website:      o.Result.Website,
			PagesVisited: o.Result.PagesVisited,
			PagesSkipped: o.Result.PagesSkipped,
			Commitments:  o.Result.Commitments,
			Errors:       o.Result.PageErrors,
		}
		for _, doc := range o.Result.Documents {
			summary.Documents = append(summary.Documents, doc.URL)
		}

		run.TotalPages += o.Result.PagesVisited
		run.TotalCommitments += len(o.Result.Commitments)
		run.Municipalities = append(run.Municipalities, summary)
	}

	return run
}
