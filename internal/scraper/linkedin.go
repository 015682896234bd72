package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobcompass/internal/events"
	"jobcompass/internal/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const linkedInBaseURL = "https://www.linkedin.com"

// LinkedIn rotates its markup; these are the guest-view selectors the job
// cards currently use, with the list-item fallback for some regions.
const (
	selJobCard      = "div.base-card"
	selJobCardAlt   = "ul.jobs-search__results-list li"
	selCardTitle    = "h3.base-search-card__title"
	selCardCompany  = "h4.base-search-card__subtitle"
	selCardLocation = "span.job-search-card__location"
	selCardLink     = "a.base-card__full-link"
	selCardSnippet  = "p.base-search-card__snippet"
	selCardTime     = "time"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// LinkedInScraper scrapes the public guest search listing over plain HTTP.
type LinkedInScraper struct {
	baseURL    string
	client     *http.Client
	authCookie string
	enabled    bool
	logger     *zap.Logger
}

func NewLinkedInScraper(authCookie string, enabled bool, logger *zap.Logger) *LinkedInScraper {
	return &LinkedInScraper{
		baseURL: linkedInBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		authCookie: authCookie,
		enabled:    enabled,
		logger:     logger,
	}
}

func (s *LinkedInScraper) Source() models.Source {
	return models.Source("LinkedIn")
}

func (s *LinkedInScraper) Enabled() bool {
	return s.enabled
}

func (s *LinkedInScraper) Scrape(ctx context.Context, params events.ScrapeParameters) ([]events.RawJobEvent, error) {
	searchURL := s.buildSearchURL(params)
	s.logger.Info("scraping LinkedIn", zap.String("url", searchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgents[rand.Intn(len(defaultUserAgents))])
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	if s.authCookie != "" {
		req.AddCookie(&http.Cookie{Name: "li_at", Value: s.authCookie})
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from LinkedIn", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	cards := doc.Find(selJobCard)
	if cards.Length() == 0 {
		cards = doc.Find(selJobCardAlt)
	}

	s.logger.Info("found job cards", zap.Int("count", cards.Length()))

	scrapedAt := time.Now().UTC()
	jobs := make([]events.RawJobEvent, 0, cards.Length())

	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(jobs) >= params.MaxResults {
			return false
		}

		job, ok := s.extractJob(card, scrapedAt)
		if !ok {
			s.logger.Debug("skipping incomplete job card", zap.Int("index", i))
			return true
		}

		jobs = append(jobs, job)
		return true
	})

	s.logger.Info("scraped LinkedIn jobs", zap.Int("count", len(jobs)))
	return jobs, nil
}

func (s *LinkedInScraper) buildSearchURL(params events.ScrapeParameters) string {
	q := url.Values{}

	if params.Skill != "" {
		q.Set("keywords", params.Skill)
	}
	if params.Location != "" {
		q.Set("location", params.Location)
	}

	// f_TPR=r{seconds} limits results to postings newer than the window.
	q.Set("f_TPR", fmt.Sprintf("r%d", params.MaxJobAgeDays*86400))

	return s.baseURL + "/jobs/search/?" + q.Encode()
}

func (s *LinkedInScraper) extractJob(card *goquery.Selection, scrapedAt time.Time) (events.RawJobEvent, bool) {
	title := strings.TrimSpace(card.Find(selCardTitle).First().Text())
	jobURL, _ := card.Find(selCardLink).First().Attr("href")
	jobURL = strings.TrimSpace(jobURL)

	// Without a title and URL the event cannot be applied downstream.
	if title == "" || jobURL == "" {
		return events.RawJobEvent{}, false
	}

	postedDate := ""
	if timeEl := card.Find(selCardTime).First(); timeEl.Length() > 0 {
		if dt, ok := timeEl.Attr("datetime"); ok && dt != "" {
			postedDate = dt
		} else {
			postedDate = strings.TrimSpace(timeEl.Text())
		}
	}

	return events.RawJobEvent{
		Source:      s.Source(),
		Title:       title,
		Company:     strings.TrimSpace(card.Find(selCardCompany).First().Text()),
		Location:    strings.TrimSpace(card.Find(selCardLocation).First().Text()),
		Description: strings.TrimSpace(card.Find(selCardSnippet).First().Text()),
		URL:         jobURL,
		PostedDate:  postedDate,
		ScrapedAt:   scrapedAt,
	}, true
}
