package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mlb-odds-mailer/internal/domain"
	"mlb-odds-mailer/internal/providers"
	"mlb-odds-mailer/internal/timeutil"
)

// Config controls how the client reaches The Odds API.
type Config struct {
	BaseURL         string
	APIKey          string
	HTTPClient      *http.Client
	Sport           string
	Regions         string
	Markets         string
	Bookmakers      string
	Timezone        string
	WindowStartHour int
}

// Client fetches a day's odds from The Odds API and maps them to domain
// outcomes.
type Client struct {
	baseURL         string
	apiKey          string
	httpClient      httpDoer
	sport           string
	regions         string
	markets         string
	bookmakers      string
	loc             *time.Location
	windowStartHour int
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:         normalizeBaseURL(cfg.BaseURL),
		apiKey:          cfg.APIKey,
		httpClient:      resolveHTTPClient(cfg.HTTPClient),
		sport:           orDefault(cfg.Sport, defaultSport),
		regions:         orDefault(cfg.Regions, defaultRegions),
		markets:         orDefault(cfg.Markets, defaultMarkets),
		bookmakers:      orDefault(cfg.Bookmakers, defaultBookmakers),
		loc:             resolveLocation(cfg.Timezone),
		windowStartHour: resolveWindowStartHour(cfg.WindowStartHour),
	}
}

// FetchOutcomes retrieves the combined outcome sequence for one calendar day.
func (c *Client) FetchOutcomes(ctx context.Context, day time.Time) ([]domain.Outcome, error) {
	req, err := c.buildRequest(ctx, day)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &providers.RateLimitError{
			Provider:   Name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &providers.StatusError{
			Provider:   Name,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var games []gameOdds
	if decodeErr := json.NewDecoder(resp.Body).Decode(&games); decodeErr != nil {
		return nil, fmt.Errorf("%s: decode response: %w", Name, decodeErr)
	}

	return flattenOutcomes(games), nil
}

func (c *Client) buildRequest(ctx context.Context, day time.Time) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sports/"+c.sport+"/odds", nil)
	if err != nil {
		return nil, err
	}

	start, end := timeutil.DayWindow(day, c.loc, c.windowStartHour)

	q := req.URL.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", c.markets)
	q.Set("oddsFormat", oddsFormatAmerican)
	q.Set("bookmakers", c.bookmakers)
	q.Set("commenceTimeFrom", timeutil.FormatStamp(start))
	q.Set("commenceTimeTo", timeutil.FormatStamp(end))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	return req, nil
}
