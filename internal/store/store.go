package store

import (
	"context"
	"errors"
	"time"
)

// ErrScenarioNotFound is returned when a scenario ID has no match.
var ErrScenarioNotFound = errors.New("scenario not found")

// Scenario is a saved set of calculator inputs that can be recalled and
// compared against another scenario.
type Scenario struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Ticker string `json:"ticker,omitempty"`

	VestingDate     time.Time `json:"vesting_date"`
	SellDate        time.Time `json:"sell_date"`
	NumShares       int       `json:"num_shares"`
	VestingValueUSD float64   `json:"vesting_value_usd"`
	CurrentValueUSD float64   `json:"current_value_usd"`
	USDToEUR        float64   `json:"usd_to_eur"`
	Regime          string    `json:"regime"`

	// Income-tax mode: annual income (progressive) takes precedence over the
	// flat rate when both are set.
	AnnualIncome *float64 `json:"annual_income,omitempty"`
	TaxRate      *float64 `json:"tax_rate,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Store defines the persistence operations used by the service.
type Store interface {
	CreateScenario(ctx context.Context, scenario *Scenario) error
	GetScenario(ctx context.Context, id string) (*Scenario, error)
	ListScenarios(ctx context.Context) ([]*Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
}
