package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

// Summarizer turns a finished run into a short narrative via the OpenAI
// chat API. It runs after rendering and persistence; a failure here only
// costs the narrative.
type Summarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer creates a summarizer from the LLM configuration. Returns an
// error when the feature is enabled without an API key.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM summary enabled but no API key configured")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
	}, nil
}

// Summarize generates the narrative for a run.
func (s *Summarizer) Summarize(ctx context.Context, run *Run) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You summarize municipal affordable housing scrape results. " +
					"Use only the facts provided. Do not invent unit counts, " +
					"deadlines, or project names.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(run),
			},
		},
		MaxTokens:   800,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt lays out the run's facts, one line per commitment.
func buildPrompt(run *Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scrape run of %d municipalities found %d commitments across %d pages.\n\n",
		len(run.Municipalities), run.TotalCommitments, run.TotalPages)

	for _, m := range run.Municipalities {
		for _, rec := range m.Commitments {
			fmt.Fprintf(&b, "- %s:", m.Name)
			if rec.CommitmentType != "" {
				fmt.Fprintf(&b, " %s.", rec.CommitmentType)
			}
			if rec.TotalUnits != nil {
				fmt.Fprintf(&b, " %d total units.", *rec.TotalUnits)
			}
			if rec.Deadline != "" {
				fmt.Fprintf(&b, " Deadline %s.", rec.Deadline)
			}
			if name := rec.FirstProjectName(); name != "" {
				fmt.Fprintf(&b, " Project %q.", name)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nWrite a plain-language summary in at most two paragraphs.")
	return b.String()
}
