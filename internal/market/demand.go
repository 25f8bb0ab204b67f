package market

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
)

// TotalDemand predicts the number of units the whole market wants this
// turn, from the average price, quality, and marketing of the active firms.
// Each factor compares the population average against a fixed reference
// (the benchmark price for price, level 5 for quality and marketing) raised
// to its sensitivity exponent; a cheap, good, well-marketed field grows the
// pie for everyone. Returns zero when no firm is still trading.
func (s *State) TotalDemand(firms []*firm.Firm, p econ.Params, rng *rand.Rand) int {
	var active int
	var sumPrice, sumQuality, sumMarketing float64
	for _, f := range firms {
		if f.Bankrupt {
			continue
		}
		active++
		sumPrice += f.Price
		sumQuality += float64(f.Quality)
		sumMarketing += float64(f.Marketing)
	}
	if active == 0 {
		return 0
	}

	avgPrice := math.Max(1, sumPrice/float64(active))
	avgQuality := sumQuality / float64(active)
	avgMarketing := sumMarketing / float64(active)

	priceFactor := math.Pow(p.ReferencePrice()/avgPrice, p.PriceSensitivity)
	qualityFactor := math.Pow(avgQuality/5.0, p.QualitySensitivity)
	marketingFactor := math.Pow(avgMarketing/5.0, p.MarketingSensitivity)

	demand := s.BaseDemand * s.Trend * priceFactor * qualityFactor * marketingFactor
	demand *= uniform(rng, 0.9, 1.1)
	if demand < 0 {
		return 0
	}
	return int(demand)
}
