package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/store"
)

func intp(v int) *int { return &v }

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMunicipalityRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertMunicipality(ctx, store.Municipality{
		Name:            "Cranford",
		County:          "Union",
		OfficialWebsite: "https://cranford.example.com",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a row id")
	}

	m, err := s.GetMunicipality(ctx, "Cranford")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.County != "Union" || m.OfficialWebsite != "https://cranford.example.com" {
		t.Errorf("unexpected municipality: %+v", m)
	}

	// Re-insert must not duplicate.
	id2, err := s.InsertMunicipality(ctx, store.Municipality{Name: "Cranford"})
	if err != nil {
		t.Fatalf("reinsert: %v", err)
	}
	if id2 != id {
		t.Errorf("reinsert produced new id %d, want %d", id2, id)
	}

	ms, err := s.ListMunicipalities(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ms) != 1 {
		t.Errorf("municipality count = %d, want 1", len(ms))
	}
}

func TestBulkInsertMunicipalities(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	count, err := s.BulkInsertMunicipalities(ctx, []store.Municipality{
		{Name: "Cranford", OfficialWebsite: "https://cranford.example.com"},
		{Name: "Westfield"},
		{Name: ""}, // skipped
	})
	if err != nil {
		t.Fatalf("bulk insert: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestInsertCommitmentIfNew_DedupBySourceURL(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertMunicipality(ctx, store.Municipality{Name: "Cranford"})
	if err != nil {
		t.Fatalf("insert municipality: %v", err)
	}

	rec := &model.CommitmentRecord{
		Municipality:   "Cranford",
		CommitmentType: model.TypeSettlementAgreement,
		TotalUnits:     intp(250),
		LowIncomeUnits: intp(100),
		Deadline:       "2030",
		ProjectName:    "Maple Crossing Apartments",
		SourceURL:      "https://cranford.example.com/housing",
		Confidence:     0.9,
		RawTextSnippet: "settlement agreement requires 250 affordable units",
	}

	inserted, err := s.InsertCommitmentIfNew(ctx, id, rec)
	if err != nil {
		t.Fatalf("insert commitment: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to succeed")
	}

	inserted, err = s.InsertCommitmentIfNew(ctx, id, rec)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Error("expected duplicate source URL to be skipped")
	}

	got, err := s.ListCommitments(ctx, "Cranford")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("commitments = %d, want 1", len(got))
	}

	r := got[0].Record
	if r.TotalUnits == nil || *r.TotalUnits != 250 {
		t.Errorf("total_units = %v, want 250", r.TotalUnits)
	}
	if r.LowIncomeUnits == nil || *r.LowIncomeUnits != 100 {
		t.Errorf("low_income_units = %v, want 100", r.LowIncomeUnits)
	}
	if r.ModerateIncomeUnits != nil {
		t.Errorf("moderate_income_units = %v, want nil", r.ModerateIncomeUnits)
	}
	if r.CommitmentType != model.TypeSettlementAgreement || r.Deadline != "2030" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestInsertCommitment_SnippetTruncatedTo500(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertMunicipality(ctx, store.Municipality{Name: "Westfield"})
	if err != nil {
		t.Fatalf("insert municipality: %v", err)
	}

	rec := &model.CommitmentRecord{
		Municipality:   "Westfield",
		TotalUnits:     intp(10),
		SourceURL:      "https://westfield.example.com/plan",
		RawTextSnippet: strings.Repeat("a", 700),
	}
	if _, err := s.InsertCommitmentIfNew(ctx, id, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.ListCommitments(ctx, "Westfield")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("commitments = %d, want 1", len(got))
	}
	if n := len(got[0].Record.RawTextSnippet); n != store.SnippetMaxLen {
		t.Errorf("stored snippet length = %d, want %d", n, store.SnippetMaxLen)
	}
}

func TestScrapedPages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	url := "https://cranford.example.com/planning-board"
	seen, err := s.IsPageScraped(ctx, url)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if seen {
		t.Error("page should not be scraped yet")
	}

	if err := s.RecordScrapedPage(ctx, url, "planning board"); err != nil {
		t.Fatalf("record: %v", err)
	}

	seen, err = s.IsPageScraped(ctx, url)
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if !seen {
		t.Error("page should be recorded as scraped")
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.ScrapedPages != 1 {
		t.Errorf("scraped pages = %d, want 1", st.ScrapedPages)
	}
}
