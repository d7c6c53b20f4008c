package cian

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cian-scraper/config"
	"cian-scraper/models"
	"cian-scraper/services"
	"cian-scraper/utils"
)

// prevPageMarker is the pagination label that signals the search ran out
// of results and the site looped back.
const prevPageMarker = "Назад"

// botChallengeMarker shows up in the challenge interstitial body.
const botChallengeMarker = "Captcha"

// Sink receives every admitted record, in emission order.
type Sink interface {
	Append(rec *models.Record) error
}

// Scraper drives the whole pipeline: fetch a search page, extract its
// listing blocks, optionally enrich each from its detail page, assemble
// and admit records, and emit them to the sink. It owns the only loop in
// the system; data flows strictly forward.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	fetcher   Fetcher
	assembler *services.Assembler
	sink      Sink
	session   *Session
	budget    *utils.FailureBudget
}

// New creates a ready-to-use Scraper. The sink may be nil when no export
// is wanted; records are still collected in the session.
func New(cfg *config.Config, logger *utils.Logger, fetcher Fetcher,
	assembler *services.Assembler, sink Sink) *Scraper {

	return &Scraper{
		cfg:       cfg,
		logger:    logger,
		fetcher:   fetcher,
		assembler: assembler,
		sink:      sink,
		session:   NewSession(),
		budget: &utils.FailureBudget{
			MaxConsecutive: cfg.MaxRetries,
			Delay:          cfg.RetryDelay,
			PerPage:        cfg.RetryScope == config.RetryPerPage,
			Logger:         logger,
		},
	}
}

// Session exposes the crawl state for reporting.
func (s *Scraper) Session() *Session { return s.session }

// Run crawls the configured page range. It returns the records admitted so
// far together with a *FatalError when the transient-failure budget runs
// out; reaching the end of the results is a normal stop, not an error.
func (s *Scraper) Run(ctx context.Context) ([]*models.Record, error) {
	s.logger.Info("[cian] starting crawl — pages %d..%d, %s/%s, city %s",
		s.cfg.StartPage, s.cfg.EndPage, s.cfg.DealType, s.cfg.AccommodationType, s.cfg.City)
	if s.cfg.ExpressMode {
		s.logger.Info("[cian] express mode: detail pages and listing pacing are skipped")
	}

	for page := s.cfg.StartPage; page <= s.cfg.EndPage; page++ {
		s.budget.EnterPage()

		var exhausted bool
		for {
			done, err := s.crawlPage(ctx, page)
			if err == nil {
				s.budget.Succeeded()
				exhausted = done
				break
			}
			if s.budget.Failed(page, err) {
				return s.session.Records, &FatalError{Page: page, Err: err}
			}
		}

		if exhausted {
			s.logger.Info("[cian] end of results reached at page %d", page)
			break
		}
		if page < s.cfg.EndPage {
			time.Sleep(s.cfg.PageDelay)
		}
	}

	s.logger.Info("[cian] crawl complete — %d listings committed", s.session.Committed)
	return s.session.Records, nil
}

// crawlPage fetches and processes one search page. It returns true when
// the pagination shows the end of the results was passed.
func (s *Scraper) crawlPage(ctx context.Context, page int) (bool, error) {
	url := s.pageURL(page)
	s.logger.Debug("[cian] page %d: %s", page, url)

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return false, fmt.Errorf("page %d: %w", page, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, fmt.Errorf("page %d: parse document: %w", page, err)
	}

	if strings.Contains(doc.Text(), botChallengeMarker) {
		return false, ErrBotChallenge
	}
	if doc.Find("div[data-name='HeaderDefault']").Length() == 0 {
		return false, ErrMissingHeader
	}
	pagination := doc.Find("button[data-name='PaginationButton']")
	if pagination.Length() == 0 {
		return false, ErrMissingPagination
	}

	// A leading "previous" control means the requested page lies past the
	// last page of results. On the first page it is just ordinary chrome.
	if strings.TrimSpace(pagination.First().Text()) == prevPageMarker &&
		page != s.cfg.StartPage && page != 1 {
		return true, nil
	}

	blocks := doc.Find("article[data-name='CardComponent']")
	s.logger.Info("[cian] page %d: %d offers", page, blocks.Length())

	blocks.Each(func(_ int, block *goquery.Selection) {
		s.processBlock(ctx, block)
		if !s.cfg.ExpressMode {
			time.Sleep(s.cfg.ListingDelay)
		}
	})
	return false, nil
}

// processBlock runs one listing block through extraction, the homeowner
// filter, optional enrichment, assembly and admission. Field-level parse
// failures never abort the block; they degrade to sentinels inside the
// extractors.
func (s *Scraper) processBlock(ctx context.Context, block *goquery.Selection) {
	link := extractLink(block)
	if link == "" {
		s.logger.Debug("[cian] block without link skipped")
		return
	}

	author := extractAuthor(block)
	if s.cfg.ByHomeowner && !admittedByHomeownerFilter(author.AuthorType) {
		s.logger.Debug("[cian] homeowner filter dropped %s (%s)", link, author.AuthorType)
		return
	}

	common := models.CommonInfo{
		Link:              link,
		City:              s.cfg.City,
		DealType:          s.cfg.DealType,
		AccommodationType: s.cfg.AccommodationType,
	}
	location := extractLocation(block, s.cfg.City)
	price := extractPrice(block)
	spec := extractSpecification(block)

	var detail *models.DetailInfo
	if !s.cfg.ExpressMode {
		detailHTML, err := s.fetcher.Fetch(ctx, link)
		if err != nil {
			s.logger.Warn("[cian] detail fetch failed for %s: %v", link, err)
		} else {
			detail = Enrich(detailHTML)
			refineSpecification(&spec, detail)
		}
	}

	rec := s.assembler.Assemble(author, common, spec, price, detail, location)
	if !s.session.Admit(rec) {
		s.logger.Debug("[cian] duplicate skipped: %s", link)
		return
	}

	s.logger.Debug("[cian] committed %s — running mean %.0f rub over %d listings",
		link, s.session.MeanPrice, s.session.Committed)

	if s.sink != nil {
		if err := s.sink.Append(rec); err != nil {
			s.logger.Error("[cian] export append failed: %v", err)
		}
	}
}

// admittedByHomeownerFilter admits homeowners and explicitly unclassified
// authors. A block with no author marker at all is dropped rather than
// given the benefit of the doubt.
func admittedByHomeownerFilter(kind models.AuthorType) bool {
	return kind == models.AuthorHomeowner || kind == models.AuthorUnknown
}

// refineSpecification lets a successfully parsed detail value replace the
// summary value. A sentinel from the detail page keeps whatever the
// summary block yielded; silent last-writer-wins merging is not allowed.
func refineSpecification(spec *models.SpecificationInfo, detail *models.DetailInfo) {
	if detail.Floor != models.Sentinel {
		spec.Floor = detail.Floor
	}
	if detail.FloorsCount != models.Sentinel {
		spec.FloorsCount = detail.FloorsCount
	}
	if detail.RoomsCount != models.Sentinel {
		spec.RoomsCount = detail.RoomsCount
	}
}
