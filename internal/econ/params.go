// Package econ defines the session-scoped economic parameters shared by
// every firm and by the market model. The parameter record replaces what
// the rules describe as "constants": most values never change after session
// start, but the salary rate is rescaled by wage-hike market events, so the
// whole record travels with the session rather than living at module level.
package econ

import "math"

// Params holds every tunable of one simulation session.
type Params struct {
	InitialCash        float64 `json:"initial_cash"`
	TargetNetWorth     float64 `json:"target_net_worth"`
	MaxTurns           int     `json:"max_turns"`
	InitialCompetitors int     `json:"initial_competitors"`

	BaseDemand             float64 `json:"base_demand"`
	PriceSensitivity       float64 `json:"price_sensitivity"`
	QualitySensitivity     float64 `json:"quality_sensitivity"`
	MarketingSensitivity   float64 `json:"marketing_sensitivity"`
	CompetitionSensitivity float64 `json:"competition_sensitivity"`

	InitialProductionCost float64 `json:"initial_production_cost"`
	ProductionCostFloor   float64 `json:"production_cost_floor"`
	InitialQuality        int     `json:"initial_quality"`
	InitialMarketing      int     `json:"initial_marketing"`
	InitialWorkers        int     `json:"initial_workers"`

	// SalaryRate is per worker per turn. Wage-hike events rescale it for
	// the remainder of the session.
	SalaryRate      float64 `json:"salary_rate"`
	OutputPerWorker int     `json:"output_per_worker"`
	HiringCost      float64 `json:"hiring_cost"`
	FiringCost      float64 `json:"firing_cost"`

	RDCostFactor        float64 `json:"rd_cost_factor"`
	RDPointsPerUpgrade  int     `json:"rd_points_per_upgrade"`
	MarketingCostFactor float64 `json:"marketing_cost_factor"`

	// Annual rates, applied monthly (one turn = one month).
	DepositRate  float64 `json:"deposit_rate"`
	LoanRate     float64 `json:"loan_rate"`
	MaxLoanRatio float64 `json:"max_loan_ratio"`
}

// DefaultParams returns the standard campaign tuning.
func DefaultParams() Params {
	return Params{
		InitialCash:        10000,
		TargetNetWorth:     25000,
		MaxTurns:           120,
		InitialCompetitors: 2,

		BaseDemand:             200,
		PriceSensitivity:       1.6,
		QualitySensitivity:     1.3,
		MarketingSensitivity:   1.1,
		CompetitionSensitivity: 0.75,

		InitialProductionCost: 8,
		ProductionCostFloor:   5,
		InitialQuality:        3,
		InitialMarketing:      1,
		InitialWorkers:        0,

		SalaryRate:      150,
		OutputPerWorker: 10,
		HiringCost:      250,
		FiringCost:      500,

		RDCostFactor:        600,
		RDPointsPerUpgrade:  120,
		MarketingCostFactor: 400,

		DepositRate:  0.05,
		LoanRate:     0.10,
		MaxLoanRatio: 2.0,
	}
}

// ReferencePrice is the fixed benchmark price inside the demand model's
// price-sensitivity factor. Kept at twice the initial production cost rather
// than a tracked market average — a deliberate legacy of the balance tuning.
func (p Params) ReferencePrice() float64 {
	return p.InitialProductionCost * 2
}

// MonthlyDepositRate is the per-turn interest credited on positive cash.
func (p Params) MonthlyDepositRate() float64 {
	return p.DepositRate / 12
}

// MonthlyLoanRate is the per-turn interest charged on outstanding loans.
func (p Params) MonthlyLoanRate() float64 {
	return p.LoanRate / 12
}

// MarketingUpgradeCost is the price of raising the marketing level by one
// step from the given level. The cost curve is superlinear so late levels
// are a serious investment.
func (p Params) MarketingUpgradeCost(level int) float64 {
	return float64(int(p.MarketingCostFactor * math.Pow(float64(level), 1.5)))
}

// RDCostPerPoint is the price of one research point at the firm's current
// quality and production cost, as quoted to the decision boundary. Research
// gets more expensive the further quality and cost reduction have advanced.
func (p Params) RDCostPerPoint(quality int, productionCost float64) float64 {
	cost := p.RDCostFactor * (float64(quality) + math.Max(1, 25-productionCost))
	return math.Max(0.01, cost/float64(p.RDPointsPerUpgrade))
}
