package extract

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/score"
)

// Mode selects the extraction path. Web pages get the lightweight single-total
// path; documents (PDF text and the like) get per-category unit extraction,
// project name and address collections, and the table pass.
type Mode int

const (
	ModeWebPage Mode = iota
	ModeDocument
)

// Engine runs the rule-based commitment extraction. It is a pure computation
// over immutable rule tables: no I/O, no shared mutable state, safe for
// concurrent use.
type Engine struct {
	rules *Rules
	mode  Mode
	year  int
	log   *zap.Logger
}

// Options configures an Engine. Zero values fall back to DefaultRules, the
// current year, and a no-op logger.
type Options struct {
	Mode   Mode
	Rules  *Rules
	Year   int
	Logger *zap.Logger
}

// New creates an extraction engine.
func New(opts Options) *Engine {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{rules: rules, mode: opts.Mode, year: year, log: log}
}

// Input is one text to extract from. Tables are consulted in document mode
// only; each table row is a slice of string cells.
type Input struct {
	Text               string
	SourceURL          string
	Municipality       string
	SourceDocumentType string
	Tables             [][]string
}

// Extract runs the full pipeline over one input and returns the extracted
// commitment record, or nil when the text carries no usable signal: no
// domain keyword, negation language, or nothing meaningful extracted.
func (e *Engine) Extract(in Input) *model.CommitmentRecord {
	lower := strings.ToLower(in.Text)

	if !e.hasKeyword(lower) {
		return nil
	}
	if e.isNegated(lower) {
		e.log.Debug("text rejected by negative filter", zap.String("source", in.SourceURL))
		return nil
	}

	rec := &model.CommitmentRecord{
		Municipality:       in.Municipality,
		SourceURL:          in.SourceURL,
		SourceDocumentType: in.SourceDocumentType,
	}

	excluded := e.scanExclusions(lower)

	if e.mode == ModeDocument {
		e.extractCategoryUnits(rec, lower, excluded)
		rec.ProjectNames = e.collectProjectNames(in.Text)
		rec.Addresses = e.collectAddresses(in.Text)
		if rec.SourceDocumentType == "" {
			rec.SourceDocumentType = e.detectDocumentType(lower)
		}
		rec.RawTextSnippet = e.locateSnippet(in.Text, e.rules.DocumentSnippetKeywords)
	} else {
		rec.TotalUnits = e.extractTotal(lower, excluded)
		rec.ProjectName = e.extractProjectName(in.Text)
		rec.RawTextSnippet = e.locateSnippet(in.Text, e.rules.PageSnippetKeywords)
	}

	rec.CommitmentType = e.classifyType(lower)
	rec.Deadline = e.extractDeadline(lower)

	if e.mode == ModeDocument && len(in.Tables) > 0 {
		e.enhanceFromTables(rec, in.Tables)
	}

	rec.Confidence = score.Confidence(rec)

	if !rec.HasSignal() {
		return nil
	}

	e.log.Debug("extracted commitment",
		zap.String("municipality", in.Municipality),
		zap.String("type", rec.CommitmentType),
		zap.Intp("total_units", rec.TotalUnits),
		zap.String("project", rec.FirstProjectName()),
		zap.Float64("confidence", rec.Confidence),
	)
	return rec
}

// hasKeyword is the keyword gate: a plain substring membership test.
func (e *Engine) hasKeyword(lower string) bool {
	for _, kw := range e.rules.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isNegated reports whether the text matches any negation pattern. Negation
// overrides every positive signal.
func (e *Engine) isNegated(lower string) bool {
	for _, re := range e.rules.NegativePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// classifyType walks the ordered type rules; the first rule with any trigger
// substring present wins.
func (e *Engine) classifyType(lower string) string {
	for _, rule := range e.rules.TypeRules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lower, trigger) {
				return rule.Label
			}
		}
	}
	return ""
}

// detectDocumentType labels the document kind (settlement agreement, housing
// element, consent order, ...) from the first matching pattern.
func (e *Engine) detectDocumentType(lower string) string {
	for _, rule := range e.rules.DocumentTypePatterns {
		if rule.Pattern.MatchString(lower) {
			return rule.Label
		}
	}
	return ""
}
