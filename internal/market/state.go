// Package market implements the per-turn market resolution: trend drift,
// random events, aggregate demand prediction, and the allocation of that
// demand across competing firms by competitiveness score.
package market

import (
	"fmt"
	"math/rand/v2"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
)

// NoEvent is the event description shown on quiet turns.
const NoEvent = "No significant market events."

// State is the session-wide market condition.
type State struct {
	BaseDemand float64 `json:"base_demand"`
	Trend      float64 `json:"trend"`
	LastEvent  string  `json:"last_event"` // display only
}

// NewState creates the opening market condition.
func NewState(p econ.Params) State {
	return State{
		BaseDemand: p.BaseDemand,
		Trend:      1.0,
		LastEvent:  NoEvent,
	}
}

// UpdateTrend drifts the demand trend by a small uniform step, keeping it
// inside [0.5, 1.5].
func (s *State) UpdateTrend(rng *rand.Rand) {
	s.Trend += uniform(rng, -0.05, 0.05)
	s.clampTrend()
}

func (s *State) clampTrend() {
	if s.Trend < 0.5 {
		s.Trend = 0.5
	}
	if s.Trend > 1.5 {
		s.Trend = 1.5
	}
}

// GenerateEvent rolls for at most one market event per turn: a 15% chance
// of a negative event, a disjoint 15% chance of a positive one. Events may
// mutate the trend, every active firm's cost basis, the session salary
// rate, the player's marketing, or grant research points.
func (s *State) GenerateEvent(firms []*firm.Firm, player *firm.Firm, p *econ.Params, rng *rand.Rand) {
	s.LastEvent = NoEvent
	roll := rng.Float64()
	switch {
	case roll < 0.15:
		s.negativeEvent(firms, p, rng)
	case roll > 0.85:
		s.positiveEvent(firms, player, rng)
	}
	s.clampTrend()
}

func (s *State) negativeEvent(firms []*firm.Firm, p *econ.Params, rng *rand.Rand) {
	switch rng.IntN(3) {
	case 0: // recession, only bites while the trend has room to fall
		if s.Trend > 0.7 {
			s.Trend *= uniform(rng, 0.7, 0.9)
			s.LastEvent = "Economic downturn! Market demand trend has decreased."
		}
	case 1: // supply shock: universal cost inflation
		inc := uniform(rng, 1.05, 1.20)
		for _, f := range firms {
			if !f.Bankrupt {
				f.ProductionCost *= inc
			}
		}
		s.LastEvent = fmt.Sprintf("Supply chain disruption! Production costs up %.1f%%.", (inc-1)*100)
	case 2: // wage hike: rescales the session salary rate permanently
		p.SalaryRate = float64(int(p.SalaryRate * uniform(rng, 1.10, 1.25)))
		s.LastEvent = fmt.Sprintf("Industry wage hike! Worker salary is now $%.0f per turn.", p.SalaryRate)
	}
}

func (s *State) positiveEvent(firms []*firm.Firm, player *firm.Firm, rng *rand.Rand) {
	switch rng.IntN(3) {
	case 0: // boom, only while the trend has room to rise
		if s.Trend < 1.3 {
			s.Trend *= uniform(rng, 1.1, 1.3)
			s.LastEvent = "Economic boom! Market demand trend has increased."
		}
	case 1: // unexpected positive press for the player only
		if player != nil && !player.Bankrupt && player.Marketing < 10 {
			player.Marketing = min(10, player.Marketing+1+rng.IntN(2))
			s.LastEvent = fmt.Sprintf("Positive PR for %s! Marketing level up.", player.Name)
		} else {
			s.LastEvent = "Market conditions stable."
		}
	case 2: // industry-wide research windfall
		points := 30 + rng.IntN(31)
		for _, f := range firms {
			if !f.Bankrupt {
				f.RDPoints += points
			}
		}
		s.LastEvent = fmt.Sprintf("Tech breakthrough! All firms gain %d R&D points.", points)
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
