// Package pricing provides the market data collaborators of the calculator:
// historical share prices and USD/EUR conversion rates, fronted by a
// short-lived cache. The tax engine itself never touches this package; the
// HTTP layer resolves prices here and passes plain numbers to the engine.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// YahooClient fetches historical prices from the Yahoo Finance chart API.
type YahooClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(log zerolog.Logger) *YahooClient {
	return &YahooClient{
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// chartResponse is the subset of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				ShortName string `json:"shortName"`
				LongName  string `json:"longName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PriceAt returns the USD closing price of a ticker on the given day. When
// the day is not a trading day (weekend, holiday) the most recent close at
// or before it wins; only when the window holds no such close does the next
// available close apply. The query spans ten days back and five forward so
// both directions are covered in one request.
func (c *YahooClient) PriceAt(ctx context.Context, ticker string, day time.Time) (float64, error) {
	target := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	start := target.AddDate(0, 0, -10)
	end := target.AddDate(0, 0, 5)
	cutoff := target.AddDate(0, 0, 1)

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", "1d")

	body, err := c.fetch(ctx, ticker, q)
	if err != nil {
		return 0, err
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return 0, fmt.Errorf("no quote data for %s around %s", ticker, target.Format("2006-01-02"))
	}
	closes := result.Indicators.Quote[0].Close

	var atOrBefore, last *float64
	for i, px := range closes {
		if px == nil || i >= len(result.Timestamp) {
			continue
		}
		last = px
		if time.Unix(result.Timestamp[i], 0).UTC().Before(cutoff) {
			atOrBefore = px
		}
	}
	if atOrBefore != nil {
		return *atOrBefore, nil
	}
	if last != nil {
		return *last, nil
	}
	return 0, fmt.Errorf("no closing price for %s around %s", ticker, target.Format("2006-01-02"))
}

// Name returns a display name for the ticker, falling back to the symbol
// itself when Yahoo has no name on record.
func (c *YahooClient) Name(ctx context.Context, ticker string) (string, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1d")

	body, err := c.fetch(ctx, ticker, q)
	if err != nil {
		return "", err
	}

	meta := body.Chart.Result[0].Meta
	if meta.LongName != "" {
		return meta.LongName, nil
	}
	if meta.ShortName != "" {
		return meta.ShortName, nil
	}
	return ticker, nil
}

func (c *YahooClient) fetch(ctx context.Context, ticker string, q url.Values) (*chartResponse, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())
	c.log.Debug().Str("ticker", ticker).Str("url", u).Msg("Fetching chart data")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build chart request: %w", err)
	}
	// Yahoo rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; rsutax/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d for %s", resp.StatusCode, ticker)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", ticker)
	}
	return &body, nil
}
