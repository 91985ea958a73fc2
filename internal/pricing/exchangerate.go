package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ExchangeRateClient fetches currency conversion rates from
// api.exchangerate-api.com (free tier, no auth).
type ExchangeRateClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewExchangeRateClient creates a new exchangerate-api.com client.
func NewExchangeRateClient(log zerolog.Logger) *ExchangeRateClient {
	return &ExchangeRateClient{
		baseURL: "https://api.exchangerate-api.com/v4/latest",
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "exchangerate-api").Logger(),
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the conversion rate from one currency to another
// (units of `to` per one unit of `from`).
func (c *ExchangeRateClient) Rate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return 1.0, nil
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, from)
	c.log.Debug().Str("from", from).Str("to", to).Str("url", u).Msg("Fetching rates")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned status %d for %s", resp.StatusCode, from)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode rate response: %w", err)
	}
	rate, ok := body.Rates[to]
	if !ok {
		return 0, fmt.Errorf("no %s rate in %s response", to, from)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("invalid %s/%s rate: %v", from, to, rate)
	}
	return rate, nil
}
