// Package service exposes the tax engine and its market data collaborators
// over a JSON HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/openequity/rsutax/backend/internal/store"
	"github.com/openequity/rsutax/backend/internal/tax"
)

const dateFormat = "2006-01-02"

// MarketData resolves share prices and conversion rates for the calculator
// endpoints. Implemented by pricing.Service.
type MarketData interface {
	PriceAt(ctx context.Context, ticker string, day time.Time) (float64, error)
	Name(ctx context.Context, ticker string) (string, error)
	Rate(ctx context.Context, from, to string) (float64, error)
}

// CalculatorService wires the tax engine, scenario store, and market data
// behind HTTP handlers.
type CalculatorService struct {
	store  store.Store
	market MarketData
	log    zerolog.Logger
}

// New creates a calculator service.
func New(st store.Store, market MarketData, log zerolog.Logger) *CalculatorService {
	return &CalculatorService{
		store:  st,
		market: market,
		log:    log.With().Str("service", "calculator").Logger(),
	}
}

// Routes returns the service's router.
func (s *CalculatorService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/tax/calculate", s.handleCalculate)
	r.Post("/v1/tax/compare", s.handleCompare)
	r.Get("/v1/tax/reference", s.handleReference)
	r.Get("/v1/market/price", s.handlePrice)
	r.Get("/v1/market/rate", s.handleRate)
	r.Post("/v1/scenarios", s.handleCreateScenario)
	r.Get("/v1/scenarios", s.handleListScenarios)
	r.Get("/v1/scenarios/{id}", s.handleGetScenario)
	r.Delete("/v1/scenarios/{id}", s.handleDeleteScenario)
	return r
}

// CalculationRequest is the JSON form of the engine input.
type CalculationRequest struct {
	Name            string   `json:"name,omitempty"`
	Ticker          string   `json:"ticker,omitempty"`
	VestingDate     string   `json:"vesting_date"`
	SellDate        string   `json:"sell_date"`
	NumShares       int      `json:"num_shares"`
	VestingValueUSD float64  `json:"vesting_value_usd"`
	CurrentValueUSD float64  `json:"current_value_usd"`
	USDToEUR        float64  `json:"usd_to_eur"`
	Regime          string   `json:"regime"`
	AnnualIncome    *float64 `json:"annual_income,omitempty"`
	TaxRate         *float64 `json:"tax_rate,omitempty"`
}

func (r CalculationRequest) toInput() (tax.Input, error) {
	vesting, err := time.Parse(dateFormat, r.VestingDate)
	if err != nil {
		return tax.Input{}, fmt.Errorf("invalid vesting_date %q: want YYYY-MM-DD", r.VestingDate)
	}
	sell, err := time.Parse(dateFormat, r.SellDate)
	if err != nil {
		return tax.Input{}, fmt.Errorf("invalid sell_date %q: want YYYY-MM-DD", r.SellDate)
	}
	regime, err := tax.ParseRegime(r.Regime)
	if err != nil {
		return tax.Input{}, err
	}

	// Annual income selects the progressive bracket engine and wins over a
	// flat rate when both are present.
	var mode tax.IncomeTaxMode
	switch {
	case r.AnnualIncome != nil:
		mode = tax.ProgressiveFromIncome(*r.AnnualIncome)
	case r.TaxRate != nil:
		if *r.TaxRate < 0 || *r.TaxRate > 0.45 {
			return tax.Input{}, fmt.Errorf("tax_rate must be between 0 and 0.45, got %g", *r.TaxRate)
		}
		mode = tax.FlatRate(*r.TaxRate)
	}

	return tax.Input{
		VestingDate:     vesting,
		SellDate:        sell,
		NumShares:       r.NumShares,
		VestingValueUSD: r.VestingValueUSD,
		CurrentValueUSD: r.CurrentValueUSD,
		USDToEUR:        r.USDToEUR,
		Regime:          regime,
		IncomeTax:       mode,
	}, nil
}

// Breakdown is the JSON form of the engine result.
type Breakdown struct {
	YearsHeld         float64 `json:"years_held"`
	HasTaperRelief    bool    `json:"has_taper_relief"`
	TaperReliefRate   float64 `json:"taper_relief_rate"`
	ReliefDescription string  `json:"relief_description"`

	VestingValueEUR float64 `json:"vesting_value_eur"`
	CurrentValueEUR float64 `json:"current_value_eur"`
	GrossProceed    float64 `json:"gross_proceed"`

	AcquisitionGain            float64 `json:"acquisition_gain"`
	AcquisitionGainAfterRelief float64 `json:"acquisition_gain_after_relief"`
	CapitalGain                float64 `json:"capital_gain"`

	EffectiveSocialRate       float64 `json:"effective_social_rate"`
	AcquisitionSocialSecurity float64 `json:"acquisition_social_security"`
	AcquisitionIncomeTax      float64 `json:"acquisition_income_tax"`
	CapitalGainTax            float64 `json:"capital_gain_tax"`
	SalarialeContribution     float64 `json:"salariale_contribution"`
	TotalTaxes                float64 `json:"total_taxes"`

	NetInPocket      float64 `json:"net_in_pocket"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"`

	Regime      string            `json:"regime"`
	RegimeNotes string            `json:"regime_notes"`
	Display     map[string]string `json:"display"`
}

func toBreakdown(res tax.Result) Breakdown {
	return Breakdown{
		YearsHeld:                  res.YearsHeld,
		HasTaperRelief:             res.HasTaperRelief,
		TaperReliefRate:            res.TaperReliefRate,
		ReliefDescription:          res.ReliefDescription,
		VestingValueEUR:            res.VestingValueEUR,
		CurrentValueEUR:            res.CurrentValueEUR,
		GrossProceed:               res.GrossProceed,
		AcquisitionGain:            res.AcquisitionGain,
		AcquisitionGainAfterRelief: res.AcquisitionGainAfterRelief,
		CapitalGain:                res.CapitalGain,
		EffectiveSocialRate:        res.EffectiveSocialRate,
		AcquisitionSocialSecurity:  res.AcquisitionSocialSecurity,
		AcquisitionIncomeTax:       res.AcquisitionIncomeTax,
		CapitalGainTax:             res.CapitalGainTax,
		SalarialeContribution:      res.SalarialeContribution,
		TotalTaxes:                 res.TotalTaxes,
		NetInPocket:                res.NetInPocket,
		EffectiveTaxRate:           res.EffectiveTaxRate,
		Regime:                     res.Regime.String(),
		RegimeNotes:                res.RegimeNotes,
		Display: map[string]string{
			"gross_proceed":  eur(res.GrossProceed),
			"total_taxes":    eur(res.TotalTaxes),
			"net_in_pocket":  eur(res.NetInPocket),
			"effective_rate": fmt.Sprintf("%.1f%%", res.EffectiveTaxRate),
		},
	}
}

// eur renders a currency-labeled amount for presentation, rounded to cents.
func eur(v float64) string {
	return money.NewFromFloat(v, money.EUR).Display()
}

func (s *CalculatorService) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	breakdown, err := s.calculate(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, breakdown)
}

func (s *CalculatorService) calculate(req CalculationRequest) (Breakdown, error) {
	in, err := req.toInput()
	if err != nil {
		return Breakdown{}, err
	}
	res, err := tax.Calculate(in)
	if err != nil {
		return Breakdown{}, err
	}
	return toBreakdown(res), nil
}

// CompareRequest holds the two scenarios of an A/B comparison.
type CompareRequest struct {
	A CalculationRequest `json:"a"`
	B CalculationRequest `json:"b"`
}

// CompareResponse pairs both breakdowns with their differences (B minus A).
type CompareResponse struct {
	A     Breakdown    `json:"a"`
	B     Breakdown    `json:"b"`
	Delta CompareDelta `json:"delta"`
}

type CompareDelta struct {
	NetInPocket      float64 `json:"net_in_pocket"`
	TotalTaxes       float64 `json:"total_taxes"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"`
}

func (s *CalculatorService) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	a, err := s.calculate(req.A)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("scenario a: %w", err))
		return
	}
	b, err := s.calculate(req.B)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("scenario b: %w", err))
		return
	}
	s.writeJSON(w, http.StatusOK, CompareResponse{
		A: a,
		B: b,
		Delta: CompareDelta{
			NetInPocket:      b.NetInPocket - a.NetInPocket,
			TotalTaxes:       b.TotalTaxes - a.TotalTaxes,
			EffectiveTaxRate: b.EffectiveTaxRate - a.EffectiveTaxRate,
		},
	})
}

func (s *CalculatorService) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *CalculatorService) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Request failed")
	} else {
		s.log.Debug().Err(err).Msg("Request rejected")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *CalculatorService) statusForStoreErr(err error) int {
	if errors.Is(err, store.ErrScenarioNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
