package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/pipeline"
	"github.com/abwagner/nj-affordable-housing/internal/worker"
)

func intp(v int) *int { return &v }

func sampleOutcomes() []*worker.ScrapeOutcome {
	return []*worker.ScrapeOutcome{
		{
			Municipality: "Cranford",
			Result: &pipeline.MunicipalityResult{
				Municipality: "Cranford",
				Website:      "https://cranford.example.com",
				PagesVisited: 5,
				PagesSkipped: 2,
				Commitments: []*model.CommitmentRecord{
					{
						Municipality:   "Cranford",
						CommitmentType: model.TypeSettlementAgreement,
						TotalUnits:     intp(250),
						Deadline:       "2030",
						ProjectName:    "Maple Crossing Apartments",
						Confidence:     0.9,
						SourceURL:      "https://cranford.example.com/housing",
					},
				},
			},
		},
		{
			Municipality: "Westfield",
			Err:          errors.New("fetch homepage: unexpected status: 503"),
		},
	}
}

func TestFromOutcomes(t *testing.T) {
	run := FromOutcomes(sampleOutcomes())

	if len(run.Municipalities) != 2 {
		t.Fatalf("municipalities = %d, want 2", len(run.Municipalities))
	}
	if run.TotalPages != 5 {
		t.Errorf("total pages = %d, want 5", run.TotalPages)
	}
	if run.TotalCommitments != 1 {
		t.Errorf("total commitments = %d, want 1", run.TotalCommitments)
	}
	if run.FailedScrapes != 1 {
		t.Errorf("failed scrapes = %d, want 1", run.FailedScrapes)
	}

	failed := run.Municipalities[1]
	if failed.Name != "Westfield" || len(failed.Errors) != 1 {
		t.Errorf("unexpected failed summary: %+v", failed)
	}
}

func TestMarkdown(t *testing.T) {
	run := FromOutcomes(sampleOutcomes())
	md := Markdown(run)

	for _, want := range []string{
		"## Cranford",
		"Settlement Agreement: Maple Crossing Apartments",
		"- Total units: 250",
		"- Deadline: 2030",
		"- Confidence: 0.90",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	run := FromOutcomes(sampleOutcomes())
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(nil).RenderJSON(run, path); err != nil {
		t.Fatalf("render JSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var decoded Run
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TotalCommitments != 1 {
		t.Errorf("round-tripped commitments = %d, want 1", decoded.TotalCommitments)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderSummary(FromOutcomes(sampleOutcomes()))

	out := buf.String()
	if !strings.Contains(out, "2 municipalities") {
		t.Errorf("summary missing municipality count: %s", out)
	}
	if !strings.Contains(out, "Cranford: 1 commitment(s)") {
		t.Errorf("summary missing Cranford line: %s", out)
	}
}

func TestNewSummarizer_Disabled(t *testing.T) {
	s, err := NewSummarizer(model.LLMConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Error("expected nil summarizer when disabled")
	}
}

func TestNewSummarizer_EnabledWithoutKey(t *testing.T) {
	if _, err := NewSummarizer(model.LLMConfig{Enabled: true}); err == nil {
		t.Error("expected error when enabled without API key")
	}
}

func TestBuildPrompt(t *testing.T) {
	run := FromOutcomes(sampleOutcomes())
	prompt := buildPrompt(run)

	if !strings.Contains(prompt, "Cranford") {
		t.Errorf("prompt missing municipality: %s", prompt)
	}
	if !strings.Contains(prompt, "250 total units") {
		t.Errorf("prompt missing unit count: %s", prompt)
	}
	if !strings.Contains(prompt, `Project "Maple Crossing Apartments"`) {
		t.Errorf("prompt missing project: %s", prompt)
	}
}
