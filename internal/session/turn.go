package session

import (
	"errors"
	"log/slog"

	"github.com/talgya/tycoon/internal/market"
	"github.com/talgya/tycoon/internal/policy"
)

// ErrSessionOver is returned when AdvanceTurn is called after a terminal
// state was reached.
var ErrSessionOver = errors.New("session is over")

// AdvanceTurn resolves one full turn. The decision is consumed when the
// player firm is human-driven and ignored otherwise. The resolution order
// is fixed — reordering it changes the economics:
//
//	player decision → capture loan balances → competitor decisions →
//	trend drift → market event → demand → allocation → per-firm sales,
//	salaries, interest → net income → solvency and respawn → clock.
func (s *Session) AdvanceTurn(dec *Decision) (*TurnReport, error) {
	if s.Status.Terminal() {
		return nil, ErrSessionOver
	}
	resolvedTurn := s.Turn

	// The player acts first: a loan drawn by the player accrues interest
	// this same turn, matching the balance capture below.
	player := s.Members[0]
	if h, ok := player.Source.(*HumanInput); ok {
		h.pending = dec
	}
	if !player.Firm.Bankrupt {
		player.Source.Decide(s, player.Firm)
	}

	// Loan balances at the start of resolution are the interest base;
	// competitor draws later this turn start accruing next turn.
	balances := make([]float64, len(s.Members))
	for i, m := range s.Members {
		balances[i] = m.Firm.Loan
	}

	for _, m := range s.Members[1:] {
		if !m.Firm.Bankrupt {
			m.Source.Decide(s, m.Firm)
		}
	}

	firms := s.firms()
	s.Market.UpdateTrend(s.rng)
	s.Market.GenerateEvent(firms, player.Firm, &s.Params, s.rng)
	if s.Market.LastEvent != market.NoEvent {
		s.record("market", s.Market.LastEvent)
	}

	demand := s.Market.TotalDemand(firms, s.Params, s.rng)
	alloc := market.AllocateSales(firms, demand, s.Params, s.rng)

	for i, m := range s.Members {
		f := m.Firm
		if f.Bankrupt {
			continue
		}
		f.ApplySales(alloc[i])
		f.PaySalaries(s.Params)
		f.ApplyInterest(balances[i], s.Params)

		expenses := f.Turn.COGS + f.Turn.Salaries + f.Turn.MarketingSpend +
			f.Turn.RDSpend + f.Turn.InterestPaid + f.Turn.HiringCost + f.Turn.FiringCost
		f.Turn.NetIncome = f.Turn.Revenue - expenses
		f.TotalNetIncome += f.Turn.NetIncome
	}

	departed, arrived := s.resolveSolvency()

	s.Turn++
	playerFirm := player.Firm
	switch {
	case playerFirm.Bankrupt:
		s.Status = StatusLostBankruptcy
	case playerFirm.NetWorth() >= s.Params.TargetNetWorth:
		s.Status = StatusWon
	case s.Turn > s.Params.MaxTurns:
		s.Status = StatusLostTimeout
	}

	report := s.buildReport(resolvedTurn, firms, demand, departed, arrived)

	slog.Info("turn resolved",
		"turn", resolvedTurn,
		"trend", s.Market.Trend,
		"event", s.Market.LastEvent,
		"demand", demand,
		"player_cash", playerFirm.Cash,
		"player_net_worth", playerFirm.NetWorth(),
		"status", s.Status.String(),
	)

	return report, nil
}

// resolveSolvency runs the bankruptcy check over the roster, deferring all
// roster mutation until after the pass: bankrupt AI firms are collected for
// removal and their replacements for addition, keeping the competitor
// population size constant. A bankrupt player firm stays in the roster; the
// caller turns it into the terminal state.
func (s *Session) resolveSolvency() (departed, arrived []string) {
	next := make([]*Member, 0, len(s.Members))
	var newcomers []*Member

	for _, m := range s.Members {
		f := m.Firm
		wasBankrupt := f.Bankrupt
		if f.CheckSolvency() && !wasBankrupt {
			s.record("bankruptcy", f.Name+" has declared bankruptcy")
			if !f.IsPlayer {
				departed = append(departed, f.Name)
				difficulty := uniform(s.rng, 0.4, 0.7)
				nf := s.Spawner.Competitor(s.Params, s.rng)
				prof := policy.NewProfile(difficulty, s.Params, s.rng)
				newcomers = append(newcomers, &Member{Firm: nf, Source: &PolicyDriven{Profile: prof}})
				arrived = append(arrived, nf.Name)
				s.record("entry", nf.Name+" enters the market")
				continue
			}
		}
		next = append(next, m)
	}

	s.Members = append(next, newcomers...)
	return departed, arrived
}
