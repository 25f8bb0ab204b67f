package firm

import (
	"fmt"
	"math/rand/v2"

	"github.com/talgya/tycoon/internal/econ"
)

// Spawner issues competitor firms with a strictly increasing spawn
// sequence, used both for naming and for save/restore continuity.
type Spawner struct {
	seq int
}

// NewSpawner creates a spawner starting at sequence zero.
func NewSpawner() *Spawner {
	return &Spawner{}
}

// Seq returns the last issued sequence number.
func (s *Spawner) Seq() int {
	return s.seq
}

// SetSeq restores the sequence counter from a saved session.
func (s *Spawner) SetSeq(n int) {
	s.seq = n
}

// Competitor creates the next AI firm. Starting cash varies a little below
// the player's so freshly spawned rivals enter slightly behind.
func (s *Spawner) Competitor(p econ.Params, rng *rand.Rand) *Firm {
	s.seq++
	name := fmt.Sprintf("Competitor Mk%d", s.seq)
	cash := p.InitialCash * (0.85 + rng.Float64()*0.15)
	return New(name, false, cash, p)
}
