// Package tax implements the French RSU tax calculation engine.
//
// The engine is a single linear pipeline over immutable inputs: holding
// period, EUR conversion, gains, taper relief, per-category taxes, totals.
// Every function is pure; concurrent callers need no coordination.
//
// Supported regimes:
//   - Macron I (plans authorized Aug 7, 2015 - Dec 29, 2016)
//   - Macron III (plans authorized Jan 1, 2018 - present)
//   - Unrestricted (non-qualified plans)
package tax

import (
	"errors"
	"fmt"
	"time"
)

// IncomeTaxMode selects how the acquisition gain is taxed on the income-tax
// side. Exactly one of the two modes is in effect; the constructors make a
// mixed state unrepresentable. The zero value falls back to a flat rate of
// DefaultFlatAcquisitionRate.
type IncomeTaxMode struct {
	progressive  bool
	annualIncome float64
	flatRate     float64
	flatSet      bool
}

// FlatRate taxes the post-relief acquisition gain at a fixed marginal rate.
func FlatRate(rate float64) IncomeTaxMode {
	return IncomeTaxMode{flatRate: rate, flatSet: true}
}

// ProgressiveFromIncome taxes the post-relief acquisition gain as an
// increment stacked on top of an existing annual income, using the 2025
// bracket table.
func ProgressiveFromIncome(annualIncome float64) IncomeTaxMode {
	return IncomeTaxMode{progressive: true, annualIncome: annualIncome}
}

// Progressive reports whether the mode uses the bracket engine, and the
// annual base income if so.
func (m IncomeTaxMode) Progressive() (annualIncome float64, ok bool) {
	return m.annualIncome, m.progressive
}

// Rate returns the flat rate in effect when the mode is not progressive.
func (m IncomeTaxMode) Rate() float64 {
	if m.flatSet {
		return m.flatRate
	}
	return DefaultFlatAcquisitionRate
}

// Input holds the parameters of one RSU sale calculation. All monetary
// per-share values are in USD; the engine converts to EUR internally.
type Input struct {
	VestingDate     time.Time
	SellDate        time.Time
	NumShares       int
	VestingValueUSD float64
	CurrentValueUSD float64
	USDToEUR        float64
	Regime          Regime
	IncomeTax       IncomeTaxMode
}

// Validate checks the caller contract. Calculation with invalid input is
// rejected outright rather than clamped.
func (in Input) Validate() error {
	if in.VestingDate.IsZero() || in.SellDate.IsZero() {
		return errors.New("vesting and sell dates are required")
	}
	if in.NumShares <= 0 {
		return fmt.Errorf("number of shares must be positive, got %d", in.NumShares)
	}
	if in.VestingValueUSD < 0 {
		return fmt.Errorf("vesting value must not be negative, got %g", in.VestingValueUSD)
	}
	if in.CurrentValueUSD < 0 {
		return fmt.Errorf("current value must not be negative, got %g", in.CurrentValueUSD)
	}
	if in.USDToEUR < 0 {
		return fmt.Errorf("USD to EUR rate must not be negative, got %g", in.USDToEUR)
	}
	if in.Regime < RegimeMacronI || in.Regime > RegimeUnrestricted {
		return fmt.Errorf("unknown tax regime: %d", in.Regime)
	}
	return nil
}

// Result carries every intermediate and final figure of one calculation.
// All monetary values are EUR.
type Result struct {
	// Holding period
	YearsHeld         float64
	HasTaperRelief    bool
	TaperReliefRate   float64
	ReliefDescription string

	// Values in EUR
	VestingValueEUR float64
	CurrentValueEUR float64
	GrossProceed    float64

	// Gains
	AcquisitionGain            float64
	AcquisitionGainAfterRelief float64
	CapitalGain                float64

	// Taxes
	EffectiveSocialRate       float64
	AcquisitionSocialSecurity float64
	AcquisitionIncomeTax      float64
	CapitalGainTax            float64
	SalarialeContribution     float64
	TotalTaxes                float64

	// Final
	NetInPocket      float64
	EffectiveTaxRate float64 // percent of gross proceeds

	Regime      Regime
	RegimeNotes string
}

// Calculate runs the full pipeline for one sale. It never fails on input
// that passes Validate; there is no I/O to fail.
func Calculate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	yearsHeld := YearsBetween(in.VestingDate, in.SellDate)

	vestingValueEUR := in.VestingValueUSD * in.USDToEUR
	currentValueEUR := in.CurrentValueUSD * in.USDToEUR

	grossProceed := float64(in.NumShares) * currentValueEUR
	acquisitionGain := float64(in.NumShares) * vestingValueEUR
	// Capital gain keys off the pre-relief acquisition gain: relief shrinks
	// the acquisition tax base, never the capital-gain base.
	capitalGain := grossProceed - acquisitionGain

	relief := resolveRelief(in.Regime, yearsHeld, acquisitionGain)
	acquisitionGainAfterRelief := acquisitionGain * (1 - relief.Rate)

	socialRate := socialSecurityRate(in.Regime, relief.OverThreshold)
	acquisitionSocialSecurity := acquisitionGainAfterRelief * socialRate

	var acquisitionIncomeTax float64
	if annualIncome, ok := in.IncomeTax.Progressive(); ok {
		acquisitionIncomeTax = TaxOnAdditionalIncome(annualIncome, acquisitionGainAfterRelief)
	} else {
		acquisitionIncomeTax = acquisitionGainAfterRelief * in.IncomeTax.Rate()
	}

	var capitalGainTax float64
	if capitalGain > 0 {
		capitalGainTax = capitalGain * CapitalGainPFURate
	}

	var salarialeContribution float64
	if in.Regime == RegimeMacronIII && relief.OverThreshold {
		salarialeContribution = acquisitionGain * SalarialeContributionRate
	}

	totalTaxes := acquisitionSocialSecurity + acquisitionIncomeTax + capitalGainTax + salarialeContribution
	netInPocket := grossProceed - totalTaxes

	var effectiveTaxRate float64
	if grossProceed > 0 {
		effectiveTaxRate = totalTaxes / grossProceed * 100
	}

	return Result{
		YearsHeld:                  yearsHeld,
		HasTaperRelief:             relief.Applies,
		TaperReliefRate:            relief.Rate,
		ReliefDescription:          relief.Description,
		VestingValueEUR:            vestingValueEUR,
		CurrentValueEUR:            currentValueEUR,
		GrossProceed:               grossProceed,
		AcquisitionGain:            acquisitionGain,
		AcquisitionGainAfterRelief: acquisitionGainAfterRelief,
		CapitalGain:                capitalGain,
		EffectiveSocialRate:        socialRate,
		AcquisitionSocialSecurity:  acquisitionSocialSecurity,
		AcquisitionIncomeTax:       acquisitionIncomeTax,
		CapitalGainTax:             capitalGainTax,
		SalarialeContribution:      salarialeContribution,
		TotalTaxes:                 totalTaxes,
		NetInPocket:                netInPocket,
		EffectiveTaxRate:           effectiveTaxRate,
		Regime:                     in.Regime,
		RegimeNotes:                regimeNotes(in.Regime, yearsHeld, acquisitionGain),
	}, nil
}

// regimeNotes explains which relief tier applied and why.
func regimeNotes(regime Regime, yearsHeld, acquisitionGain float64) string {
	switch regime {
	case RegimeMacronI:
		switch {
		case yearsHeld >= 8:
			return "Macron I: 65% abatement (held 8+ years)"
		case yearsHeld >= 2:
			return "Macron I: 50% abatement (held 2-8 years)"
		default:
			return fmt.Sprintf("Macron I: No abatement (held < 2 years, need %.1f more years)", 2-yearsHeld)
		}
	case RegimeMacronIII:
		if acquisitionGain > MacronIIIThreshold {
			return "Macron III: Over €300k threshold - treated as salary + 10% contribution"
		}
		return "Macron III: 50% automatic abatement (gain under €300k)"
	default:
		return "Unrestricted: No abatement - fully taxed as salary"
	}
}
