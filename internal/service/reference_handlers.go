package service

import (
	"net/http"

	"github.com/openequity/rsutax/backend/internal/tax"
)

// regimeReference describes one regime's rates for display.
type regimeReference struct {
	Regime             string  `json:"regime"`
	Label              string  `json:"label"`
	SocialSecurityRate float64 `json:"social_security_rate"`
	ReliefRule         string  `json:"relief_rule"`
}

type bracketReference struct {
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
}

type referenceResponse struct {
	Regimes                   []regimeReference  `json:"regimes"`
	MacronIIIThreshold        float64            `json:"macron_iii_threshold"`
	SalarialeContributionRate float64            `json:"salariale_contribution_rate"`
	CapitalGainPFURate        float64            `json:"capital_gain_pfu_rate"`
	Brackets2025              []bracketReference `json:"brackets_2025"`
}

// handleReference serves the static regime, rate, and bracket tables so a
// frontend can render them without hardcoding the figures.
func (s *CalculatorService) handleReference(w http.ResponseWriter, r *http.Request) {
	brackets := tax.Brackets()
	out := referenceResponse{
		Regimes: []regimeReference{
			{
				Regime:             tax.RegimeMacronI.String(),
				Label:              "Macron I (Aug 2015 - Dec 2016)",
				SocialSecurityRate: tax.SocialRatePatrimony,
				ReliefRule:         "50% abatement from 2 years held, 65% from 8 years",
			},
			{
				Regime:             tax.RegimeMacronIII.String(),
				Label:              "Macron III (Jan 2018 - present)",
				SocialSecurityRate: tax.SocialRatePatrimony,
				ReliefRule:         "50% automatic abatement up to €300,000 of acquisition gain; above, salary treatment at 9.7% social + 10% contribution",
			},
			{
				Regime:             tax.RegimeUnrestricted.String(),
				Label:              "Unrestricted (Non-qualified)",
				SocialSecurityRate: tax.SocialRateActivity,
				ReliefRule:         "No abatement, fully taxed as salary",
			},
		},
		MacronIIIThreshold:        tax.MacronIIIThreshold,
		SalarialeContributionRate: tax.SalarialeContributionRate,
		CapitalGainPFURate:        tax.CapitalGainPFURate,
		Brackets2025:              make([]bracketReference, 0, len(brackets)),
	}
	for _, b := range brackets {
		out.Brackets2025 = append(out.Brackets2025, bracketReference{Threshold: b.Threshold, Rate: b.Rate})
	}
	s.writeJSON(w, http.StatusOK, out)
}
