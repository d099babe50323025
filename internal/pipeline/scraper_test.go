package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/store"
)

const scrapeHomepage = `<html><body>
<h1>Township of Cranford</h1>
<a href="/affordable-housing">Affordable Housing Program</a>
<a href="/docs/fair-share-plan.pdf">Fair Share Plan (PDF)</a>
<a href="/recreation">Parks and Recreation</a>
</body></html>`

const scrapeHousingPage = `<html><body>
<p>Under the settlement agreement approved by the Superior Court, the
Township is committed to provide 250 affordable units. The compliance
deadline is 2030.</p>
</body></html>`

func testScrapeConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Crawl.RespectRobots = false
	cfg.Crawl.RequestDelay = 0
	cfg.Crawl.RequestsPerSecond = 1000
	cfg.Crawl.Burst = 10
	return cfg
}

func TestScrapeMunicipality(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, scrapeHomepage)
	})
	mux.HandleFunc("/affordable-housing", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, scrapeHousingPage)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewScraper(testScrapeConfig(), nil, zap.NewNop())
	res, err := s.ScrapeMunicipality(context.Background(), store.Municipality{
		Name:            "Cranford",
		OfficialWebsite: server.URL,
	})
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}

	if res.PagesVisited != 2 {
		t.Errorf("pages visited = %d, want 2", res.PagesVisited)
	}
	if len(res.Commitments) != 1 {
		t.Fatalf("commitments = %d, want 1", len(res.Commitments))
	}

	rec := res.Commitments[0]
	if rec.Municipality != "Cranford" {
		t.Errorf("municipality = %q", rec.Municipality)
	}
	if rec.TotalUnits == nil || *rec.TotalUnits != 250 {
		t.Errorf("total units = %v, want 250", rec.TotalUnits)
	}
	if rec.CommitmentType != model.TypeSettlementAgreement {
		t.Errorf("type = %q, want %q", rec.CommitmentType, model.TypeSettlementAgreement)
	}
	if rec.Deadline != "2030" {
		t.Errorf("deadline = %q, want 2030", rec.Deadline)
	}
	if !strings.Contains(rec.SourceURL, "/affordable-housing") {
		t.Errorf("source URL = %q", rec.SourceURL)
	}

	if len(res.Documents) != 1 || !strings.Contains(res.Documents[0].URL, "fair-share-plan.pdf") {
		t.Errorf("documents = %+v, want the fair share plan PDF", res.Documents)
	}
}

func TestScrapeMunicipality_NoWebsite(t *testing.T) {
	s := NewScraper(testScrapeConfig(), nil, zap.NewNop())
	_, err := s.ScrapeMunicipality(context.Background(), store.Municipality{Name: "Westfield"})
	if err == nil {
		t.Fatal("expected error for municipality without a website")
	}
}

func TestScrapeMunicipality_HomepageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewScraper(testScrapeConfig(), nil, zap.NewNop())
	_, err := s.ScrapeMunicipality(context.Background(), store.Municipality{
		Name:            "Westfield",
		OfficialWebsite: server.URL,
	})
	if err == nil {
		t.Fatal("expected error for unreachable homepage")
	}
}

func TestScrapeMunicipality_PageErrorDoesNotFailRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `<html><body><a href="/affordable-housing">Affordable Housing</a></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewScraper(testScrapeConfig(), nil, zap.NewNop())
	res, err := s.ScrapeMunicipality(context.Background(), store.Municipality{
		Name:            "Cranford",
		OfficialWebsite: server.URL,
	})
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if len(res.PageErrors) != 1 {
		t.Errorf("page errors = %v, want exactly one", res.PageErrors)
	}
	if len(res.Commitments) != 0 {
		t.Errorf("commitments = %d, want 0", len(res.Commitments))
	}
}
