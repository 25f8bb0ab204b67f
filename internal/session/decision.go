package session

import (
	"math"

	"github.com/talgya/tycoon/internal/firm"
	"github.com/talgya/tycoon/internal/policy"
)

// RDFocus is the player's preference when a research breakthrough offers a
// quality-versus-cost choice.
type RDFocus int

const (
	RDFocusAuto RDFocus = iota // quality while possible, else cost
	RDFocusQuality
	RDFocusCost
)

// Decision is the player's bundle of actions for one turn. The boundary
// layer collects it with affordability ceilings already shown to the
// player; applyDecision clamps every field again so an out-of-range value
// degrades to the feasible maximum instead of corrupting state.
type Decision struct {
	Hire           int
	Fire           int
	Produce        int
	Price          int
	MarketingSpend int
	RDSpend        int
	LoanDraw       int
	LoanRepay      int
	RDFocus        RDFocus
}

// DecisionSource supplies one turn of decisions for a firm. Two variants
// exist: HumanInput replays the decision handed to AdvanceTurn, and
// PolicyDriven evaluates the competitor heuristic.
type DecisionSource interface {
	Decide(s *Session, f *firm.Firm)
}

// HumanInput feeds the externally captured player decision into the firm.
type HumanInput struct {
	pending *Decision
}

// Decide applies the pending decision, if any, exactly once.
func (h *HumanInput) Decide(s *Session, f *firm.Firm) {
	if h.pending == nil {
		return
	}
	s.applyDecision(f, *h.pending)
	h.pending = nil
}

// PolicyDriven runs the competitor heuristic with a fixed profile.
type PolicyDriven struct {
	Profile policy.Profile
}

// Decide evaluates the competitor policy against the market trend and the
// player's posted price.
func (d *PolicyDriven) Decide(s *Session, f *firm.Firm) {
	policy.Decide(f, d.Profile, s.Market.Trend, s.PlayerFirm().Price, s.Params, s.rng)
}

// applyDecision executes a player decision in the fixed order staffing →
// production → pricing → marketing → research → loans, clamping each field
// to what the firm can actually afford at that moment.
func (s *Session) applyDecision(f *firm.Firm, d Decision) {
	p := s.Params
	f.ResetTurnSpending()

	// Staffing. Hiring and firing both keep a small cash cushion.
	hire := max(0, d.Hire)
	if p.HiringCost > 0 {
		hire = min(hire, int(math.Max(0, f.Cash-500)/p.HiringCost))
	}
	f.Hire(hire, p)

	fire := min(max(0, d.Fire), f.Workers)
	if p.FiringCost > 0 {
		fire = min(fire, int(math.Max(0, f.Cash-500)/p.FiringCost))
	}
	f.Fire(fire, p)

	// Production, bounded by workforce capacity and cash.
	produce := min(max(0, d.Produce), f.Capacity(p), int(f.Cash/f.ProductionCost))
	f.Produce(produce)

	if d.Price >= 1 {
		f.SetPrice(float64(d.Price))
	}

	// Marketing spend buys exactly one level when it meets the quote;
	// anything short of the quote buys nothing.
	if f.Marketing < 10 {
		cost := p.MarketingUpgradeCost(f.Marketing)
		if float64(d.MarketingSpend) >= cost && f.Cash >= cost {
			f.Cash -= cost
			f.Marketing++
			f.Turn.MarketingSpend = cost
		}
	}

	// Research: spend converts to whole points at the current quote.
	if d.RDSpend > 0 {
		perPoint := p.RDCostPerPoint(f.Quality, f.ProductionCost)
		points := int(float64(d.RDSpend) / perPoint)
		cost := float64(points) * perPoint
		if points > 0 && cost <= f.Cash {
			f.Cash -= cost
			f.RDPoints += points
			f.Turn.RDSpend = cost
			s.applyFocusedBreakthroughs(f, d.RDFocus)
		}
	}

	// Loans: draw first, then repay.
	if d.LoanDraw > 0 {
		f.DrawLoan(math.Min(float64(d.LoanDraw), f.MaxAffordableLoan(p)))
	}
	if d.LoanRepay > 0 {
		f.RepayLoan(math.Min(float64(d.LoanRepay), math.Max(0, f.Cash)))
	}
}

// applyFocusedBreakthroughs spends accumulated research points on upgrades,
// honoring the player's quality/cost focus where both are still open.
func (s *Session) applyFocusedBreakthroughs(f *firm.Firm, focus RDFocus) {
	p := s.Params
	for f.RDPoints >= p.RDPointsPerUpgrade {
		f.RDPoints -= p.RDPointsPerUpgrade
		qualityCapped := f.Quality >= 10
		costFloored := f.ProductionCost <= p.ProductionCostFloor
		if qualityCapped && costFloored {
			f.RDPoints = 0
			break
		}

		choice := focus
		if choice == RDFocusAuto {
			choice = RDFocusQuality
		}
		if choice == RDFocusQuality && qualityCapped {
			choice = RDFocusCost
		}
		if choice == RDFocusCost && costFloored {
			choice = RDFocusQuality
		}

		if choice == RDFocusQuality {
			f.Quality++
		} else {
			f.ProductionCost = math.Max(p.ProductionCostFloor, f.ProductionCost-float64(1+s.rng.IntN(3)))
		}
	}
}
