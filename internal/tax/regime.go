package tax

import "fmt"

// Regime identifies the French RSU tax regime applicable to a sale.
// The regime is fixed by the date of the plan's shareholder authorization,
// not by the sale date, so it is an explicit input rather than something
// derived from the vesting date.
type Regime int

const (
	// RegimeMacronI covers plans authorized August 7, 2015 - December 29, 2016.
	RegimeMacronI Regime = iota
	// RegimeMacronIII covers plans authorized January 1, 2018 onwards.
	RegimeMacronIII
	// RegimeUnrestricted covers non-qualified plans.
	RegimeUnrestricted
)

// String returns the wire name of the regime.
func (r Regime) String() string {
	switch r {
	case RegimeMacronI:
		return "macron_i"
	case RegimeMacronIII:
		return "macron_iii"
	case RegimeUnrestricted:
		return "unrestricted"
	default:
		return fmt.Sprintf("Regime(%d)", int(r))
	}
}

// ParseRegime maps a wire name back to a Regime.
func ParseRegime(s string) (Regime, error) {
	switch s {
	case "macron_i":
		return RegimeMacronI, nil
	case "macron_iii":
		return RegimeMacronIII, nil
	case "unrestricted":
		return RegimeUnrestricted, nil
	default:
		return 0, fmt.Errorf("unknown tax regime: %q", s)
	}
}

// ============================================================================
// Regime Rate Constants
// ============================================================================

const (
	// SocialRatePatrimony is the patrimony social-security rate (CSG/CRDS on
	// investment income) applied under Macron I and Macron III below the
	// threshold.
	SocialRatePatrimony = 0.172

	// SocialRateActivity is the activity social-security rate (9.2% CSG +
	// 0.5% CRDS) applied to gains treated as salary.
	SocialRateActivity = 0.097

	// MacronIIIThreshold is the acquisition-gain threshold above which
	// Macron III gains are treated as salary. The threshold itself is still
	// eligible for relief.
	MacronIIIThreshold = 300_000.0

	// SalarialeContributionRate is the additional employee contribution on
	// Macron III acquisition gains above the threshold.
	SalarialeContributionRate = 0.10

	// CapitalGainPFURate is the flat "prélèvement forfaitaire unique"
	// composite rate on capital gains (12.8% income tax + 17.2% social).
	CapitalGainPFURate = 0.30

	// DefaultFlatAcquisitionRate is used when no income-tax mode is supplied.
	DefaultFlatAcquisitionRate = 0.30
)

// Relief describes the taper relief (abatement) applicable to the
// acquisition gain.
type Relief struct {
	Applies       bool
	Rate          float64
	OverThreshold bool // Macron III only: acquisition gain above €300k
	Description   string
}

// resolveRelief determines the abatement for a regime. The acquisition gain
// must already be computed because the Macron III rule keys off it rather
// than the holding period.
func resolveRelief(regime Regime, yearsHeld, acquisitionGain float64) Relief {
	switch regime {
	case RegimeMacronI:
		// 50% abatement from 2 years held, 65% from 8. Boundaries belong to
		// the higher tier.
		if yearsHeld >= 8 {
			return Relief{Applies: true, Rate: 0.65, Description: "65% (held 8+ years)"}
		}
		if yearsHeld >= 2 {
			return Relief{Applies: true, Rate: 0.50, Description: "50% (held 2-8 years)"}
		}
		return Relief{Description: "None (need 2+ years)"}

	case RegimeMacronIII:
		if acquisitionGain <= MacronIIIThreshold {
			return Relief{Applies: true, Rate: 0.50, Description: "50% (under €300,000)"}
		}
		return Relief{OverThreshold: true, Description: "None (over €300,000)"}

	default: // RegimeUnrestricted
		return Relief{Description: "None (unrestricted)"}
	}
}

// socialSecurityRate returns the flat social-security rate for the regime.
// Macron III flips from the patrimony rate to the activity rate once the
// acquisition gain crosses the threshold.
func socialSecurityRate(regime Regime, overThreshold bool) float64 {
	switch regime {
	case RegimeMacronI:
		return SocialRatePatrimony
	case RegimeMacronIII:
		if overThreshold {
			return SocialRateActivity
		}
		return SocialRatePatrimony
	default:
		return SocialRateActivity
	}
}
