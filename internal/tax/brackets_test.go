package tax

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMarginalRate(t *testing.T) {
	tests := []struct {
		name   string
		income float64
		want   float64
	}{
		{"zero income", 0, 0},
		{"negative income", -5_000, 0},
		{"first bracket", 10_000, 0},
		{"exactly on second threshold", 11_497, 0},
		{"just above second threshold", 11_498, 0.11},
		{"second bracket", 20_000, 0.11},
		{"exactly on third threshold", 29_315, 0.11},
		{"just above third threshold", 29_316, 0.30},
		{"third bracket", 50_000, 0.30},
		{"fourth bracket", 100_000, 0.41},
		{"fifth bracket", 200_000, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarginalRate(tt.income); got != tt.want {
				t.Errorf("MarginalRate(%v) = %v, want %v", tt.income, got, tt.want)
			}
		})
	}
}

func TestProgressiveTax(t *testing.T) {
	tests := []struct {
		name   string
		income float64
		want   float64
	}{
		{"zero income", 0, 0},
		{"negative income", -1_000, 0},
		{"all in zero bracket", 10_000, 0},
		{"exactly at first boundary", 11_497, 0},
		{"second bracket", 20_000, 8_503 * 0.11},
		{"third bracket", 50_000, 17_818*0.11 + 20_685*0.30},
		{"fourth bracket", 100_000, 17_818*0.11 + 54_508*0.30 + 16_177*0.41},
		{"fifth bracket", 200_000, 17_818*0.11 + 54_508*0.30 + 96_471*0.41 + 19_706*0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressiveTax(tt.income)
			if !approxEqual(got, tt.want, 1e-6) {
				t.Errorf("ProgressiveTax(%v) = %.4f, want %.4f", tt.income, got, tt.want)
			}
		})
	}
}

func TestProgressiveTaxMonotonic(t *testing.T) {
	prev := 0.0
	for income := 0.0; income <= 500_000; income += 997 {
		got := ProgressiveTax(income)
		if got < prev {
			t.Fatalf("ProgressiveTax not monotonic at income %v: %v < %v", income, got, prev)
		}
		prev = got
	}
}

func TestTaxOnAdditionalIncome(t *testing.T) {
	tests := []struct {
		name      string
		base      float64
		increment float64
		want      float64
	}{
		{"same bracket", 50_000, 10_000, 3_000},
		{"spanning brackets", 25_000, 10_000, (17_818*0.11 + 5_685*0.30) - 13_503*0.11},
		{"from zero income", 0, 20_000, 8_503 * 0.11},
		{"zero increment", 50_000, 0, 0},
		{"into highest bracket", 170_000, 20_000, 10_294*0.41 + 9_706*0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TaxOnAdditionalIncome(tt.base, tt.increment)
			if !approxEqual(got, tt.want, 1e-6) {
				t.Errorf("TaxOnAdditionalIncome(%v, %v) = %.4f, want %.4f", tt.base, tt.increment, got, tt.want)
			}
		})
	}
}

// An increment that spans brackets must be taxed strictly below the flat
// marginal-rate approximation: only the top slice sits in the top bracket.
func TestTaxOnAdditionalIncomeBelowFlatMarginal(t *testing.T) {
	cases := []struct {
		base      float64
		increment float64
	}{
		{25_000, 10_000},  // 11% -> 30%
		{70_000, 30_000},  // 30% -> 41%
		{150_000, 60_000}, // 41% -> 45%
		{5_000, 30_000},   // 0% -> 30%
	}
	for _, c := range cases {
		progressive := TaxOnAdditionalIncome(c.base, c.increment)
		flat := c.increment * MarginalRate(c.base+c.increment)
		if progressive <= 0 {
			t.Errorf("base %v + %v: progressive tax = %v, want > 0", c.base, c.increment, progressive)
		}
		if progressive >= flat {
			t.Errorf("base %v + %v: progressive %.2f should be below flat marginal %.2f",
				c.base, c.increment, progressive, flat)
		}
	}
}

func TestTaxOnAdditionalIncomeZeroIdentity(t *testing.T) {
	for _, base := range []float64{0, 11_497, 25_000, 83_823, 200_000, 1_000_000} {
		if got := TaxOnAdditionalIncome(base, 0); got != 0 {
			t.Errorf("TaxOnAdditionalIncome(%v, 0) = %v, want 0", base, got)
		}
	}
}
