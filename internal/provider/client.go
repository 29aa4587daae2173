package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/records"
)

// ClientConfig configures the HTTP results client.
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RetryDelayBase    time.Duration
	RequestsPerSecond float64
}

// Client fetches draw results from a JSON results API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryDelayBase time.Duration
}

// latestResponse is the API shape of the latest draw.
type latestResponse struct {
	Date     string `json:"date"`
	DrawDate string `json:"drawDate"`
	Period   string `json:"period"`
	Results  struct {
		FirstPrize       string   `json:"firstPrize"`
		ThreeDigitPrefix []string `json:"threedigitPrefix"`
		ThreeDigitSuffix []string `json:"threedigitSuffix"`
		TwoDigit         string   `json:"twodigit"`
	} `json:"results"`
}

// historyEntry is the API shape of one historical draw. Multi-value fields
// arrive as space-separated strings.
type historyEntry struct {
	Date     string `json:"date"`
	First    string `json:"first_prize"`
	Prefix   string `json:"3digit_prefix"`
	Suffix   string `json:"3digit_suffix"`
	TwoDigit string `json:"2digit"`
}

// NewClient creates a results client.
func NewClient(cfg ClientConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(limit, 1),
		maxRetries:     maxRetries,
		retryDelayBase: cfg.RetryDelayBase,
	}
}

// Name identifies the client in logs.
func (c *Client) Name() string {
	return "http"
}

// FetchLatest retrieves the most recent draw.
func (c *Client) FetchLatest(ctx context.Context) (models.DrawRecord, error) {
	var resp latestResponse
	if err := c.getJSON(ctx, c.baseURL+"/latest", &resp); err != nil {
		return models.DrawRecord{}, fmt.Errorf("failed to fetch latest result: %w", err)
	}

	draw := models.DrawRecord{
		Date:               resp.Date,
		PrimaryValue:       resp.Results.FirstPrize,
		ThreeDigitPrefixes: nonNil(resp.Results.ThreeDigitPrefix),
		ThreeDigitSuffixes: nonNil(resp.Results.ThreeDigitSuffix),
		TwoDigitValue:      resp.Results.TwoDigit,
	}
	if draw.Date == "" && draw.PrimaryValue == "" {
		return models.DrawRecord{}, ErrNoResult
	}
	if err := draw.Validate(); err != nil {
		return models.DrawRecord{}, fmt.Errorf("invalid latest result: %w", err)
	}
	return draw, nil
}

// FetchHistory retrieves draws between start and end inclusive.
func (c *Client) FetchHistory(ctx context.Context, start, end time.Time) ([]models.DrawRecord, error) {
	q := url.Values{}
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	var entries []historyEntry
	if err := c.getJSON(ctx, c.baseURL+"/history?"+q.Encode(), &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	draws := make([]models.DrawRecord, 0, len(entries))
	for _, e := range entries {
		d := models.DrawRecord{
			Date:               e.Date,
			PrimaryValue:       e.First,
			ThreeDigitPrefixes: records.SplitTokens(e.Prefix),
			ThreeDigitSuffixes: records.SplitTokens(e.Suffix),
			TwoDigitValue:      e.TwoDigit,
		}
		if err := d.Validate(); err != nil {
			logger.Warn("Skipping invalid history entry %q: %v", e.Date, err)
			continue
		}
		draws = append(draws, d)
	}
	return draws, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	resp, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doRequest performs a GET with rate limiting and linear-backoff retries.
// Server errors and transport failures are retried; client errors are not.
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i) * c.retryDelayBase):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			logger.Debug("Request to %s failed (attempt %d/%d): %v", rawURL, i+1, c.maxRetries, err)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			logger.Debug("Request to %s failed (attempt %d/%d): %v", rawURL, i+1, c.maxRetries, lastErr)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
