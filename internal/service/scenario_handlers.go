package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openequity/rsutax/backend/internal/store"
)

// scenarioResponse pairs a stored scenario with its calculated breakdown,
// so reads always reflect the current engine.
type scenarioResponse struct {
	Scenario *store.Scenario `json:"scenario"`
	Result   Breakdown       `json:"result"`
}

func (s *CalculatorService) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	// Reject unsaveable inputs up front by running the calculation once.
	breakdown, err := s.calculate(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	name := req.Name
	if name == "" {
		name = "Scenario " + time.Now().UTC().Format("2006-01-02 15:04:05")
	}
	vesting, _ := time.Parse(dateFormat, req.VestingDate)
	sell, _ := time.Parse(dateFormat, req.SellDate)
	scenario := &store.Scenario{
		ID:              uuid.New().String(),
		Name:            name,
		Ticker:          req.Ticker,
		VestingDate:     vesting,
		SellDate:        sell,
		NumShares:       req.NumShares,
		VestingValueUSD: req.VestingValueUSD,
		CurrentValueUSD: req.CurrentValueUSD,
		USDToEUR:        req.USDToEUR,
		Regime:          req.Regime,
		AnnualIncome:    req.AnnualIncome,
		TaxRate:         req.TaxRate,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.CreateScenario(r.Context(), scenario); err != nil {
		s.writeError(w, s.statusForStoreErr(err), fmt.Errorf("create scenario: %w", err))
		return
	}
	s.log.Info().Str("id", scenario.ID).Str("name", scenario.Name).Msg("Scenario created")
	s.writeJSON(w, http.StatusCreated, scenarioResponse{Scenario: scenario, Result: breakdown})
}

func (s *CalculatorService) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.store.ListScenarios(r.Context())
	if err != nil {
		s.writeError(w, s.statusForStoreErr(err), fmt.Errorf("list scenarios: %w", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

func (s *CalculatorService) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	scenario, err := s.store.GetScenario(r.Context(), id)
	if err != nil {
		s.writeError(w, s.statusForStoreErr(err), fmt.Errorf("get scenario %s: %w", id, err))
		return
	}
	breakdown, err := s.calculate(scenarioToRequest(scenario))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("recalculate scenario %s: %w", id, err))
		return
	}
	s.writeJSON(w, http.StatusOK, scenarioResponse{Scenario: scenario, Result: breakdown})
}

func (s *CalculatorService) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteScenario(r.Context(), id); err != nil {
		s.writeError(w, s.statusForStoreErr(err), fmt.Errorf("delete scenario %s: %w", id, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func scenarioToRequest(sc *store.Scenario) CalculationRequest {
	return CalculationRequest{
		Name:            sc.Name,
		Ticker:          sc.Ticker,
		VestingDate:     sc.VestingDate.Format(dateFormat),
		SellDate:        sc.SellDate.Format(dateFormat),
		NumShares:       sc.NumShares,
		VestingValueUSD: sc.VestingValueUSD,
		CurrentValueUSD: sc.CurrentValueUSD,
		USDToEUR:        sc.USDToEUR,
		Regime:          sc.Regime,
		AnnualIncome:    sc.AnnualIncome,
		TaxRate:         sc.TaxRate,
	}
}
