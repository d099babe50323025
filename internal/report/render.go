package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

// Renderer writes run reports to files and the terminal.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer. A nil writer means stdout.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the run as indented JSON.
func (r *Renderer) RenderJSON(run *Run, path string) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the run as a Markdown report.
func (r *Renderer) RenderMarkdown(run *Run, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(run)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the run report body.
func Markdown(run *Run) string {
	var b strings.Builder

	b.WriteString("# Affordable Housing Commitment Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", run.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- Municipalities: %d\n", len(run.Municipalities))
	fmt.Fprintf(&b, "- Pages visited: %d\n", run.TotalPages)
	fmt.Fprintf(&b, "- Commitments found: %d\n", run.TotalCommitments)
	fmt.Fprintf(&b, "- Failed scrapes: %d\n\n", run.FailedScrapes)

	for _, m := range run.Municipalities {
		fmt.Fprintf(&b, "## %s\n\n", m.Name)
		if m.Website != "" {
			fmt.Fprintf(&b, "Website: %s\n\n", m.Website)
		}

		for _, rec := range m.Commitments {
			fmt.Fprintf(&b, "### %s\n\n", commitmentTitle(rec))
			if rec.TotalUnits != nil {
				fmt.Fprintf(&b, "- Total units: %d\n", *rec.TotalUnits)
			}
			if rec.LowIncomeUnits != nil {
				fmt.Fprintf(&b, "- Low income units: %d\n", *rec.LowIncomeUnits)
			}
			if rec.ModerateIncomeUnits != nil {
				fmt.Fprintf(&b, "- Moderate income units: %d\n", *rec.ModerateIncomeUnits)
			}
			if rec.Deadline != "" {
				fmt.Fprintf(&b, "- Deadline: %s\n", rec.Deadline)
			}
			if name := rec.FirstProjectName(); name != "" {
				fmt.Fprintf(&b, "- Project: %s\n", name)
			}
			fmt.Fprintf(&b, "- Confidence: %.2f\n", rec.Confidence)
			fmt.Fprintf(&b, "- Source: %s\n\n", rec.SourceURL)
		}

		if len(m.Documents) > 0 {
			b.WriteString("Documents for offline review:\n\n")
			for _, doc := range m.Documents {
				fmt.Fprintf(&b, "- %s\n", doc)
			}
			b.WriteString("\n")
		}

		for _, e := range m.Errors {
			fmt.Fprintf(&b, "- Error: %s\n", e)
		}
		if len(m.Errors) > 0 {
			b.WriteString("\n")
		}
	}

	if run.LLMSummary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(run.LLMSummary)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderSummary prints a short run summary to the terminal.
func (r *Renderer) RenderSummary(run *Run) {
	fmt.Fprintf(r.out, "Scraped %d municipalities: %d pages, %d commitments, %d failures\n",
		len(run.Municipalities), run.TotalPages, run.TotalCommitments, run.FailedScrapes)

	for _, m := range run.Municipalities {
		if len(m.Commitments) == 0 {
			continue
		}
		fmt.Fprintf(r.out, "  %s: %d commitment(s)\n", m.Name, len(m.Commitments))
		for _, rec := range m.Commitments {
			fmt.Fprintf(r.out, "    - %s (confidence %.2f)\n", commitmentTitle(rec), rec.Confidence)
		}
	}
}

func commitmentTitle(rec *model.CommitmentRecord) string {
	switch {
	case rec.CommitmentType != "" && rec.FirstProjectName() != "":
		return fmt.Sprintf("%s: %s", rec.CommitmentType, rec.FirstProjectName())
	case rec.CommitmentType != "":
		return rec.CommitmentType
	case rec.FirstProjectName() != "":
		return rec.FirstProjectName()
	default:
		return "Commitment"
	}
}
