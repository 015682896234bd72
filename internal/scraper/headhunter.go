package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobcompass/internal/events"
	"jobcompass/internal/models"

	"go.uber.org/zap"
)

const headHunterBaseURL = "https://api.hh.ru"

// hhSearchResponse is the slice of the HeadHunter search payload the
// scraper reads; the API returns far more.
type hhSearchResponse struct {
	Items []hhVacancy `json:"items"`
	Found int         `json:"found"`
}

type hhVacancy struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Area         hhArea     `json:"area"`
	Salary       *hhSalary  `json:"salary"`
	PublishedAt  time.Time  `json:"published_at"`
	Archived     bool       `json:"archived"`
	AlternateURL string     `json:"alternate_url"`
	Employer     hhEmployer `json:"employer"`
	Snippet      *hhSnippet `json:"snippet"`
}

type hhArea struct {
	Name string `json:"name"`
}

type hhSalary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
}

type hhEmployer struct {
	Name string `json:"name"`
}

type hhSnippet struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}

// HeadHunterScraper pulls postings from the public HeadHunter JSON API.
// Unlike LinkedIn there is no HTML to parse, but the output is the same
// raw event shape.
type HeadHunterScraper struct {
	baseURL string
	client  *http.Client
	enabled bool
	logger  *zap.Logger
}

func NewHeadHunterScraper(enabled bool, logger *zap.Logger) *HeadHunterScraper {
	return &HeadHunterScraper{
		baseURL: headHunterBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		enabled: enabled,
		logger:  logger,
	}
}

func (s *HeadHunterScraper) Source() models.Source {
	return models.Source("HeadHunter")
}

func (s *HeadHunterScraper) Enabled() bool {
	return s.enabled
}

func (s *HeadHunterScraper) Scrape(ctx context.Context, params events.ScrapeParameters) ([]events.RawJobEvent, error) {
	q := url.Values{}
	if params.Skill != "" {
		q.Set("text", params.Skill)
	}
	if params.MaxJobAgeDays > 0 {
		q.Set("period", strconv.Itoa(params.MaxJobAgeDays))
	}
	perPage := params.MaxResults
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	q.Set("per_page", strconv.Itoa(perPage))

	body, err := s.get(ctx, "/vacancies", q)
	if err != nil {
		return nil, fmt.Errorf("search vacancies: %w", err)
	}

	var response hhSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	s.logger.Info("found vacancies",
		zap.Int("found", response.Found),
		zap.Int("returned", len(response.Items)),
	)

	scrapedAt := time.Now().UTC()
	jobs := make([]events.RawJobEvent, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Archived || item.Name == "" || item.AlternateURL == "" {
			continue
		}
		jobs = append(jobs, s.toEvent(item, scrapedAt))
		if len(jobs) >= params.MaxResults && params.MaxResults > 0 {
			break
		}
	}

	return jobs, nil
}

// get fetches a path with bounded retries; rate-limit responses back off
// harder than plain failures.
func (s *HeadHunterScraper) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := s.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "JobCompass/1.0")
	req.Header.Set("Accept", "application/json")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response body: %w", err)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			s.logger.Warn("rate limit hit, backing off")
			lastErr = fmt.Errorf("rate limit exceeded")
		case resp.StatusCode == http.StatusBadRequest:
			return nil, fmt.Errorf("bad request: %s", string(body))
		default:
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("request failed after retries: %w", lastErr)
}

func (s *HeadHunterScraper) toEvent(item hhVacancy, scrapedAt time.Time) events.RawJobEvent {
	var description strings.Builder
	if item.Snippet != nil {
		if item.Snippet.Responsibility != "" {
			description.WriteString(item.Snippet.Responsibility)
		}
		if item.Snippet.Requirement != "" {
			if description.Len() > 0 {
				description.WriteString("\n")
			}
			description.WriteString(item.Snippet.Requirement)
		}
	}
	if salary := formatSalary(item.Salary); salary != "" {
		if description.Len() > 0 {
			description.WriteString("\n")
		}
		description.WriteString(salary)
	}

	return events.RawJobEvent{
		Source:      s.Source(),
		ExternalID:  item.ID,
		Title:       item.Name,
		Company:     item.Employer.Name,
		Location:    item.Area.Name,
		Description: description.String(),
		URL:         item.AlternateURL,
		PostedDate:  item.PublishedAt.UTC().Format("2006-01-02"),
		ScrapedAt:   scrapedAt,
	}
}

func formatSalary(salary *hhSalary) string {
	if salary == nil {
		return ""
	}
	switch {
	case salary.From != nil && salary.To != nil:
		return fmt.Sprintf("Salary: %d-%d %s", *salary.From, *salary.To, salary.Currency)
	case salary.From != nil:
		return fmt.Sprintf("Salary: from %d %s", *salary.From, salary.Currency)
	case salary.To != nil:
		return fmt.Sprintf("Salary: up to %d %s", *salary.To, salary.Currency)
	}
	return ""
}
