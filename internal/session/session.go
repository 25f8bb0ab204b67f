// Package session ties the simulation together: it owns the firm roster,
// the market state, the turn counter, and the per-turn resolution sequence.
// The session is strictly single-threaded; the only pause point is waiting
// for the player's decision, which the caller supplies to AdvanceTurn.
package session

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
	"github.com/talgya/tycoon/internal/market"
	"github.com/talgya/tycoon/internal/policy"
)

// Status is the session's position in its lifecycle.
type Status int

const (
	StatusRunning Status = iota
	StatusWon
	StatusLostBankruptcy
	StatusLostTimeout
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusWon:
		return "won"
	case StatusLostBankruptcy:
		return "lost-bankruptcy"
	case StatusLostTimeout:
		return "lost-timeout"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (s Status) Terminal() bool {
	return s != StatusRunning
}

// Member pairs a firm with the source of its decisions.
type Member struct {
	Firm   *firm.Firm
	Source DecisionSource
}

// Event is a notable occurrence retained for display and persistence.
type Event struct {
	Turn        int    `json:"turn"`
	Description string `json:"description"`
	Category    string `json:"category"` // "market", "bankruptcy", "entry"
}

// maxEvents bounds the retained event history.
const maxEvents = 1024

// Session is one full game: roster, market, clock, and outcome.
type Session struct {
	ID      string
	Params  econ.Params
	Market  market.State
	Members []*Member // player first; order is the allocation input order
	Turn    int
	Status  Status
	Events  []Event

	Spawner   *firm.Spawner
	Sentiment market.Sentiment

	seed int64
	src  *rand.PCG
	rng  *rand.Rand
}

// New starts a fresh session. The player firm is human-driven unless
// autoPlayer is set, in which case it gets a competitor profile too —
// used by the headless autopilot mode.
func New(p econ.Params, seed int64, playerName string, autoPlayer bool) *Session {
	src := rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)
	s := &Session{
		ID:        uuid.NewString(),
		Params:    p,
		Market:    market.NewState(p),
		Turn:      1,
		Status:    StatusRunning,
		Spawner:   firm.NewSpawner(),
		Sentiment: market.NewSentiment(seed),
		seed:      seed,
		src:       src,
		rng:       rand.New(src),
	}

	player := firm.New(playerName, true, p.InitialCash, p)
	var playerSource DecisionSource
	if autoPlayer {
		prof := policy.NewProfile(uniform(s.rng, 0.4, 0.7), p, s.rng)
		playerSource = &PolicyDriven{Profile: prof}
	} else {
		playerSource = &HumanInput{}
	}
	s.Members = append(s.Members, &Member{Firm: player, Source: playerSource})

	// Initial competitor field: difficulties cycle through two bands with
	// a little personal variation.
	bands := []float64{0.5, 0.7}
	for i := 0; i < p.InitialCompetitors; i++ {
		difficulty := bands[i%len(bands)] + uniform(s.rng, -0.05, 0.05)
		difficulty = clamp(difficulty, 0.1, 1.0)
		f := s.Spawner.Competitor(p, s.rng)
		prof := policy.NewProfile(difficulty, p, s.rng)
		s.Members = append(s.Members, &Member{Firm: f, Source: &PolicyDriven{Profile: prof}})
	}

	return s
}

// PlayerFirm returns the player-controlled firm.
func (s *Session) PlayerFirm() *firm.Firm {
	return s.Members[0].Firm
}

// Competitors returns the active AI firms in roster order.
func (s *Session) Competitors() []*firm.Firm {
	out := make([]*firm.Firm, 0, len(s.Members)-1)
	for _, m := range s.Members[1:] {
		out = append(out, m.Firm)
	}
	return out
}

// firms returns the roster's firms positionally aligned with Members.
func (s *Session) firms() []*firm.Firm {
	out := make([]*firm.Firm, len(s.Members))
	for i, m := range s.Members {
		out[i] = m.Firm
	}
	return out
}

func (s *Session) record(category, description string) {
	s.Events = append(s.Events, Event{Turn: s.Turn, Description: description, Category: category})
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
