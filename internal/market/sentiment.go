package market

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Sentiment is a smooth consumer-confidence curve over the turn axis,
// sampled from gradient noise so consecutive turns read as a continuous
// mood rather than independent rolls. Display only — it never feeds the
// demand or allocation math.
type Sentiment struct {
	noise opensimplex.Noise
}

// NewSentiment builds the session's confidence curve from its seed.
func NewSentiment(seed int64) Sentiment {
	return Sentiment{noise: opensimplex.NewNormalized(seed)}
}

// At returns the confidence index for a turn, in [0, 100].
func (s Sentiment) At(turn int) float64 {
	return s.noise.Eval2(float64(turn)*0.15, 0.5) * 100
}
