package service

import (
	"fmt"
	"net/http"
	"time"
)

type priceResponse struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	PriceUSD float64 `json:"price_usd"`
}

// handlePrice serves GET /v1/market/price?ticker=AAPL&date=2024-01-10.
// Omitting date resolves the most recent trading day.
func (s *CalculatorService) handlePrice(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("ticker query parameter is required"))
		return
	}
	day := time.Now().UTC().AddDate(0, 0, -5)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateFormat, raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw))
			return
		}
		day = parsed
	}

	price, err := s.market.PriceAt(r.Context(), ticker, day)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Errorf("fetch price for %s: %w", ticker, err))
		return
	}
	name, err := s.market.Name(r.Context(), ticker)
	if err != nil {
		// A missing display name shouldn't fail the lookup.
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to resolve ticker name")
		name = ticker
	}

	s.writeJSON(w, http.StatusOK, priceResponse{
		Ticker:   ticker,
		Name:     name,
		Date:     day.Format(dateFormat),
		PriceUSD: price,
	})
}

type rateResponse struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

// handleRate serves GET /v1/market/rate?from=USD&to=EUR.
func (s *CalculatorService) handleRate(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = "USD"
	}
	if to == "" {
		to = "EUR"
	}

	rate, err := s.market.Rate(r.Context(), from, to)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Errorf("fetch %s/%s rate: %w", from, to, err))
		return
	}
	s.writeJSON(w, http.StatusOK, rateResponse{From: from, To: to, Rate: rate})
}
