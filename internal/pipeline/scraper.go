package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/abwagner/nj-affordable-housing/internal/cache"
	"github.com/abwagner/nj-affordable-housing/internal/extract"
	"github.com/abwagner/nj-affordable-housing/internal/htmltext"
	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/store"
	"github.com/abwagner/nj-affordable-housing/internal/util"
	"github.com/abwagner/nj-affordable-housing/internal/validate"
)

// Scraper walks a municipality's official website looking for affordable
// housing commitments: fetch the homepage, follow planning and housing
// links, run each page's visible text through the extraction engine, and
// persist whatever survives validation.
type Scraper struct {
	fetcher   *Fetcher
	engine    *extract.Engine
	validator *validate.Validator
	limiter   *util.Limiter
	robots    *util.RobotsChecker
	pages     cache.Cache
	db        store.Store
	cfg       *model.Config
	log       *zap.Logger
}

// NewScraper wires a scraper from the configuration. The page cache is
// optional; pass a nil store to run without persistence (extract-only mode).
func NewScraper(cfg *model.Config, db store.Store, log *zap.Logger) *Scraper {
	if log == nil {
		log = zap.NewNop()
	}

	var pages cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		pages = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	} else if cfg.Cache.Enabled {
		pages = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}

	var robots *util.RobotsChecker
	if cfg.Crawl.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Scraper{
		fetcher: NewFetcher(cfg.HTTP),
		engine: extract.New(extract.Options{
			Mode:   extract.ModeWebPage,
			Logger: log,
		}),
		validator: validate.NewValidator(time.Now().Year()),
		limiter:   util.NewLimiter(cfg.Crawl.RequestsPerSecond, cfg.Crawl.Burst),
		robots:    robots,
		pages:     pages,
		db:        db,
		cfg:       cfg,
		log:       log,
	}
}

// MunicipalityResult summarizes one municipality scrape.
type MunicipalityResult struct {
	Municipality string
	Website      string
	PagesVisited int
	PagesSkipped int
	Commitments  []*model.CommitmentRecord
	Documents    []htmltext.Link
	PageErrors   []string
}

// ScrapeMunicipality scrapes one municipality's website. Individual page
// failures are recorded in the result, not returned as errors; only a
// missing website or an unreachable homepage fails the whole municipality.
func (s *Scraper) ScrapeMunicipality(ctx context.Context, m store.Municipality) (*MunicipalityResult, error) {
	if m.OfficialWebsite == "" {
		return nil, fmt.Errorf("municipality %q has no official website", m.Name)
	}

	res := &MunicipalityResult{Municipality: m.Name, Website: m.OfficialWebsite}

	home, err := s.fetchPage(ctx, m.OfficialWebsite)
	if err != nil {
		return nil, fmt.Errorf("fetch homepage: %w", err)
	}
	res.PagesVisited++

	doc, err := htmltext.Parse(home.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse homepage: %w", err)
	}

	// The homepage itself occasionally carries commitment language.
	s.processPage(ctx, m, home.FinalURL, "homepage", doc, res)

	// Planning and settlement documents are surfaced for offline text
	// extraction rather than fetched here.
	res.Documents = htmltext.DocumentLinks(doc, home.FinalURL)

	links := htmltext.RelevantLinks(doc, home.FinalURL)
	if max := s.cfg.Crawl.MaxPagesPerSite; len(links) > max {
		links = links[:max]
	}

	for _, link := range links {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		s.visitLink(ctx, m, link, res)
	}

	s.log.Info("municipality scraped",
		zap.String("municipality", m.Name),
		zap.Int("pages", res.PagesVisited),
		zap.Int("skipped", res.PagesSkipped),
		zap.Int("commitments", len(res.Commitments)))

	return res, nil
}

func (s *Scraper) visitLink(ctx context.Context, m store.Municipality, link htmltext.Link, res *MunicipalityResult) {
	if s.db != nil {
		seen, err := s.db.IsPageScraped(ctx, link.URL)
		if err != nil {
			s.log.Warn("scraped-page check failed", zap.String("url", link.URL), zap.Error(err))
		} else if seen {
			res.PagesSkipped++
			return
		}
	}

	delay := s.cfg.Crawl.RequestDelay
	if s.robots != nil {
		allowed, crawlDelay, err := s.robots.CanFetch(ctx, link.URL)
		if err != nil {
			res.PageErrors = append(res.PageErrors, fmt.Sprintf("%s: robots: %v", link.URL, err))
			return
		}
		if !allowed {
			s.log.Debug("blocked by robots.txt", zap.String("url", link.URL))
			res.PagesSkipped++
			return
		}
		if crawlDelay > delay {
			delay = crawlDelay
		}
	}

	if err := s.limiter.WaitWithDelay(ctx, link.URL, delay); err != nil {
		res.PageErrors = append(res.PageErrors, fmt.Sprintf("%s: %v", link.URL, err))
		return
	}

	page, err := s.fetchPage(ctx, link.URL)
	if err != nil {
		res.PageErrors = append(res.PageErrors, fmt.Sprintf("%s: %v", link.URL, err))
		return
	}
	res.PagesVisited++

	doc, err := htmltext.Parse(page.HTML)
	if err != nil {
		res.PageErrors = append(res.PageErrors, fmt.Sprintf("%s: parse: %v", link.URL, err))
		return
	}

	s.processPage(ctx, m, page.FinalURL, link.Type, doc, res)

	if s.db != nil {
		if err := s.db.RecordScrapedPage(ctx, link.URL, link.Type); err != nil {
			s.log.Warn("record scraped page failed", zap.String("url", link.URL), zap.Error(err))
		}
	}
}

// processPage runs one parsed page through the engine and persists any
// validated record.
func (s *Scraper) processPage(ctx context.Context, m store.Municipality, pageURL, pageType string, doc *html.Node, res *MunicipalityResult) {
	text := htmltext.VisibleText(doc)
	if text == "" {
		return
	}

	rec := s.engine.Extract(extract.Input{
		Text:         text,
		SourceURL:    pageURL,
		Municipality: m.Name,
	})
	if rec == nil {
		return
	}

	if err := s.validator.Validate(rec); err != nil {
		s.log.Warn("extracted record failed validation",
			zap.String("url", pageURL), zap.Error(err))
		return
	}

	res.Commitments = append(res.Commitments, rec)

	if s.db == nil {
		return
	}
	inserted, err := s.db.InsertCommitmentIfNew(ctx, m.ID, rec)
	if err != nil {
		res.PageErrors = append(res.PageErrors, fmt.Sprintf("%s: store: %v", pageURL, err))
		return
	}
	if !inserted {
		s.log.Debug("duplicate commitment skipped",
			zap.String("municipality", m.Name), zap.String("url", pageURL))
		return
	}
	s.log.Info("commitment recorded",
		zap.String("municipality", m.Name),
		zap.String("page_type", pageType),
		zap.String("url", pageURL),
		zap.Float64("confidence", rec.Confidence))
}

// fetchPage fetches through the page cache when one is configured.
func (s *Scraper) fetchPage(ctx context.Context, rawURL string) (*Page, error) {
	key := cache.CacheKey(rawURL)

	if s.pages != nil {
		if cached, ok := s.pages.Get(key); ok {
			return &Page{HTML: string(cached), FinalURL: rawURL}, nil
		}
	}

	page, err := s.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if s.pages != nil {
		if err := s.pages.Set(key, []byte(page.HTML), s.cfg.Cache.TTL); err != nil {
			s.log.Warn("page cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return page, nil
}
