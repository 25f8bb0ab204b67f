package econ

import (
	"math"
	"testing"
)

func TestMonthlyRates(t *testing.T) {
	p := DefaultParams()
	if got := p.MonthlyDepositRate(); math.Abs(got-0.05/12) > 1e-12 {
		t.Fatalf("deposit rate got %v", got)
	}
	if got := p.MonthlyLoanRate(); math.Abs(got-0.10/12) > 1e-12 {
		t.Fatalf("loan rate got %v", got)
	}
}

func TestReferencePrice(t *testing.T) {
	p := DefaultParams()
	if got := p.ReferencePrice(); got != 16 {
		t.Fatalf("reference price got %v want 16", got)
	}
}

func TestMarketingUpgradeCost(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		level int
		want  float64
	}{
		{level: 1, want: 400},
		{level: 2, want: float64(int(400 * math.Pow(2, 1.5)))},
		{level: 4, want: 3200},
	}
	for _, tc := range tests {
		if got := p.MarketingUpgradeCost(tc.level); got != tc.want {
			t.Fatalf("level=%d got=%v want=%v", tc.level, got, tc.want)
		}
	}
}

func TestRDCostPerPointRises(t *testing.T) {
	p := DefaultParams()
	low := p.RDCostPerPoint(3, 8)
	high := p.RDCostPerPoint(7, 8)
	if high <= low {
		t.Fatalf("research should cost more at higher quality: %v vs %v", low, high)
	}
	cheapCost := p.RDCostPerPoint(3, 5)
	if cheapCost <= low {
		t.Fatalf("research should cost more after cost reductions: %v vs %v", low, cheapCost)
	}
	if got := p.RDCostPerPoint(3, 8); got < 0.01 {
		t.Fatalf("cost per point below floor: %v", got)
	}
}
