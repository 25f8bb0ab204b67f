package session

import (
	"fmt"
	"math/rand/v2"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
	"github.com/talgya/tycoon/internal/market"
	"github.com/talgya/tycoon/internal/policy"
)

// FirmState is one roster entry in a snapshot. Profile is nil for a
// human-driven firm and set for policy-driven ones, player included in
// autopilot sessions.
type FirmState struct {
	Firm    firm.Firm       `json:"firm"`
	Profile *policy.Profile `json:"profile,omitempty"`
}

// Snapshot is the complete serializable session state. Restoring it —
// including the random-source state — continues the session exactly as the
// original would have.
type Snapshot struct {
	ID        string        `json:"id"`
	Seed      int64         `json:"seed"`
	Turn      int           `json:"turn"`
	SpawnSeq  int           `json:"spawn_seq"`
	Status    Status        `json:"status"`
	Params    econ.Params   `json:"params"`
	Market    market.State  `json:"market"`
	Firms     []FirmState   `json:"firms"`
	RandState []byte        `json:"rand_state"`
	Events    []Event       `json:"events"`
}

// Snapshot captures the session, deep-copying the roster.
func (s *Session) Snapshot() (Snapshot, error) {
	randState, err := s.src.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal random state: %w", err)
	}

	snap := Snapshot{
		ID:        s.ID,
		Seed:      s.seed,
		Turn:      s.Turn,
		SpawnSeq:  s.Spawner.Seq(),
		Status:    s.Status,
		Params:    s.Params,
		Market:    s.Market,
		RandState: randState,
		Events:    append([]Event(nil), s.Events...),
	}
	for _, m := range s.Members {
		fs := FirmState{Firm: *m.Firm}
		if pd, ok := m.Source.(*PolicyDriven); ok {
			prof := pd.Profile
			fs.Profile = &prof
		}
		snap.Firms = append(snap.Firms, fs)
	}
	return snap, nil
}

// Restore rebuilds a session from a snapshot.
func Restore(snap Snapshot) (*Session, error) {
	if len(snap.Firms) == 0 {
		return nil, fmt.Errorf("snapshot has no firms")
	}

	src := rand.NewPCG(0, 0)
	if err := src.UnmarshalBinary(snap.RandState); err != nil {
		return nil, fmt.Errorf("unmarshal random state: %w", err)
	}

	s := &Session{
		ID:        snap.ID,
		Params:    snap.Params,
		Market:    snap.Market,
		Turn:      snap.Turn,
		Status:    snap.Status,
		Events:    append([]Event(nil), snap.Events...),
		Spawner:   firm.NewSpawner(),
		Sentiment: market.NewSentiment(snap.Seed),
		seed:      snap.Seed,
		src:       src,
		rng:       rand.New(src),
	}
	s.Spawner.SetSeq(snap.SpawnSeq)

	for i, fs := range snap.Firms {
		f := fs.Firm
		var source DecisionSource
		switch {
		case fs.Profile != nil:
			source = &PolicyDriven{Profile: *fs.Profile}
		case f.IsPlayer:
			source = &HumanInput{}
		default:
			return nil, fmt.Errorf("firm %q: competitor without a policy profile", f.Name)
		}
		s.Members = append(s.Members, &Member{Firm: &f, Source: source})
		if i == 0 && !f.IsPlayer {
			return nil, fmt.Errorf("snapshot roster does not start with the player firm")
		}
	}

	return s, nil
}
