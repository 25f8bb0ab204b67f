// Package policy implements the competitor decision heuristic: a fixed
// five-step routine (production, pricing, staffing, investment, loans) with
// uniform jitter at each step. Competitors are bounded-rational — they react
// to their own sales history, the market trend, and the player's price, and
// they throttle spending to protect a cash buffer covering next turn's
// fixed obligations.
package policy

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
)

// Profile is one competitor's fixed temperament, derived from its
// difficulty rating at spawn time. It persists with the session so a
// restored competitor behaves identically.
type Profile struct {
	// Difficulty in [0.1, 1.0] scales aggressiveness across all steps.
	Difficulty               float64 `json:"difficulty"`
	TargetInventoryRatio     float64 `json:"target_inventory_ratio"`
	InvestmentAggressiveness float64 `json:"investment_aggressiveness"`
	PricingMargin            float64 `json:"pricing_margin"`
	MinTargetInventory       int     `json:"min_target_inventory"`
}

// NewProfile derives a competitor temperament from a difficulty rating.
func NewProfile(difficulty float64, p econ.Params, rng *rand.Rand) Profile {
	return Profile{
		Difficulty:               difficulty,
		TargetInventoryRatio:     1.5 + (difficulty-0.5)*0.4,
		InvestmentAggressiveness: 0.1 + difficulty*0.15,
		PricingMargin:            1.5 + uniform(rng, -0.1, 0.2)*(1+difficulty),
		MinTargetInventory:       max(5, int(float64(p.InitialWorkers*p.OutputPerWorker)*0.2)),
	}
}

// Decide runs one turn of competitor decisions against the firm's own
// state, the current market trend, and the player's posted price. Bankrupt
// firms are inert.
func Decide(f *firm.Firm, prof Profile, trend, playerPrice float64, p econ.Params, rng *rand.Rand) {
	if f.Bankrupt {
		return
	}
	f.ResetTurnSpending()

	// Next turn's estimated fixed costs plus a safety margin. Spending
	// below this line is only allowed when the shelves are empty and the
	// firm has to gamble on restocking.
	buffer := float64(f.Workers)*p.SalaryRate + f.Loan*p.MonthlyLoanRate() + 500

	targetInventory, neededProduction := decideProduction(f, prof, trend, buffer, p, rng)
	decidePricing(f, prof, targetInventory, playerPrice, rng)
	decideStaffing(f, prof, neededProduction, buffer, p, rng)
	decideInvestment(f, prof, buffer, p, rng)
	decideLoans(f, buffer, p)
}

// decideProduction restocks toward the target inventory and returns both
// the target (pricing compares stock against it) and the pre-production
// gap (staffing sizes the workforce for the demand that caused it, not for
// whatever gap is left after this turn's restock).
func decideProduction(f *firm.Firm, prof Profile, trend, buffer float64, p econ.Params, rng *rand.Rand) (targetInventory, needed int) {
	var predicted float64
	if f.Turn.UnitsSold > 0 {
		predicted = float64(f.Turn.UnitsSold) * trend * uniform(rng, 0.8, 1.2)
	} else {
		// No sales history — guess from a fraction of capacity so a firm
		// that never sold still builds starting stock.
		guess := float64(f.Capacity(p)) * (0.4 + 0.3*prof.Difficulty)
		predicted = math.Max(0, guess*trend*uniform(rng, 0.7, 1.1))
	}

	targetInventory = max(prof.MinTargetInventory, int(predicted*prof.TargetInventoryRatio))
	needed = max(0, targetInventory-f.Inventory)
	affordable := int(f.Cash / f.ProductionCost)
	produce := min(needed, f.Capacity(p), affordable)

	if produce > 0 && f.Inventory > 0 && f.Cash-float64(produce)*f.ProductionCost < buffer {
		leavingBuffer := int((f.Cash - buffer) / f.ProductionCost)
		produce = max(0, min(produce, leavingBuffer))
	}

	f.Produce(produce)
	return targetInventory, needed
}

func decidePricing(f *firm.Firm, prof Profile, targetInventory int, playerPrice float64, rng *rand.Rand) {
	base := f.ProductionCost * prof.PricingMargin
	if float64(f.Inventory) > float64(targetInventory)*1.5 {
		base *= uniform(rng, 0.9, 0.98)
	} else if float64(f.Inventory) < float64(targetInventory)*0.7 && f.Inventory > 0 {
		base *= uniform(rng, 1.02, 1.1)
	}
	// Weak reactive pull toward the player's price, stronger at higher
	// difficulty. Never price below cost plus one.
	pull := 1.0 + (playerPrice-base)/math.Max(1, base)*(prof.Difficulty*0.15)
	f.SetPrice(math.Max(f.ProductionCost+1, float64(int(base*pull))))
}

func decideStaffing(f *firm.Firm, prof Profile, neededProduction int, buffer float64, p econ.Params, rng *rand.Rand) {
	targetCapacity := float64(neededProduction)*1.2 + 5
	neededWorkers := int(math.Ceil(targetCapacity / math.Max(1, float64(p.OutputPerWorker))))
	targetWorkers := max(1, neededWorkers+rng.IntN(3)-1)

	if targetWorkers > f.Workers {
		n := targetWorkers - f.Workers
		cost := float64(n) * p.HiringCost
		if f.Cash > cost+float64(targetWorkers)*p.SalaryRate+2000 {
			f.Hire(n, p)
		}
	} else if targetWorkers < f.Workers {
		n := f.Workers - targetWorkers
		cost := float64(n) * p.FiringCost
		if f.Cash > cost+buffer {
			f.Fire(n, p)
		}
	}
}

func decideInvestment(f *firm.Firm, prof Profile, buffer float64, p econ.Params, rng *rand.Rand) {
	budget := f.Cash * prof.InvestmentAggressiveness
	if f.Cash <= buffer+1000 || budget <= 300 {
		return
	}
	split := uniform(rng, 0.4, 0.7)
	marketingBudget := budget * split
	rdBudget := budget * (1 - split)

	upgradeCost := p.MarketingUpgradeCost(f.Marketing)
	if f.Marketing < 10 && marketingBudget >= upgradeCost && f.Cash-marketingBudget > buffer {
		f.Cash -= upgradeCost
		f.Marketing++
		f.Turn.MarketingSpend = upgradeCost
	}

	// Competitors buy research at a slightly steeper quote than the player
	// boundary offers; the extra point cost stands in for their lack of a
	// dedicated research plan.
	costPerPoint := p.RDCostFactor*(float64(f.Quality)+math.Max(1, 20-f.ProductionCost))/math.Max(1, float64(p.RDPointsPerUpgrade)) + 1
	costPerPoint = math.Max(0.01, costPerPoint)
	if rdBudget > 0 && f.Cash-f.Turn.MarketingSpend-rdBudget > buffer {
		points := int(rdBudget / costPerPoint)
		cost := float64(points) * costPerPoint
		if points > 0 && cost <= f.Cash-f.Turn.MarketingSpend-buffer {
			f.Cash -= cost
			f.RDPoints += points
			f.Turn.RDSpend = cost
			applyBreakthroughs(f, p, rng)
		}
	}
}

// applyBreakthroughs converts accumulated research points into upgrades,
// one per threshold crossed. While quality is middling the firm mostly
// chases quality; once it is high the focus shifts to cost reduction.
func applyBreakthroughs(f *firm.Firm, p econ.Params, rng *rand.Rand) {
	for f.RDPoints >= p.RDPointsPerUpgrade {
		f.RDPoints -= p.RDPointsPerUpgrade
		if f.Quality >= 10 && f.ProductionCost <= p.ProductionCostFloor {
			break
		}
		qualityChance := 0.6
		if f.Quality >= 7 {
			qualityChance = 0.3
		}
		switch {
		case rng.Float64() < qualityChance && f.Quality < 10:
			f.Quality++
		case f.ProductionCost > p.ProductionCostFloor:
			f.ProductionCost = math.Max(p.ProductionCostFloor, f.ProductionCost-float64(1+rng.IntN(2)))
		case f.Quality < 10:
			f.Quality++
		}
	}
}

func decideLoans(f *firm.Firm, buffer float64, p econ.Params) {
	if f.Cash < buffer {
		if ceiling := f.MaxAffordableLoan(p); ceiling > 500 {
			f.DrawLoan(math.Min(math.Max(500, buffer-f.Cash), ceiling))
		}
	} else if f.Loan > 0 && f.Cash > f.Loan*1.5+buffer+10000 {
		repay := math.Min(f.Loan, f.Cash-buffer-5000)
		if repay > 0 {
			f.RepayLoan(repay)
		}
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
