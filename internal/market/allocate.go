package market

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
)

// scoreBonus keeps every active firm's allocation chance nonzero even when
// its computed competitiveness rounds to nothing.
const scoreBonus = 0.01

// Competitiveness is the deterministic part of a firm's allocation score:
// cheaper, better, louder firms score higher. The competition-sensitivity
// exponent damps all three axes uniformly.
func Competitiveness(f *firm.Firm, p econ.Params) float64 {
	price := math.Pow(1/math.Max(1, f.Price), p.PriceSensitivity*p.CompetitionSensitivity)
	quality := math.Pow(float64(f.Quality), p.QualitySensitivity*p.CompetitionSensitivity)
	marketing := math.Pow(float64(f.Marketing), p.MarketingSensitivity*p.CompetitionSensitivity)
	return price * quality * marketing
}

type contender struct {
	idx       int
	inventory int
	score     float64
}

// AllocateSales splits totalDemand across the firms by competitiveness.
// The result is positionally aligned with the input slice; bankrupt firms
// and firms with no stock always receive zero. Two passes: a proportional
// floor pass, then the rounding remainder handed out one unit at a time in
// score-rank order to whoever still has stock. No firm ever sells beyond
// its inventory and total sales never exceed totalDemand.
func AllocateSales(firms []*firm.Firm, totalDemand int, p econ.Params, rng *rand.Rand) []int {
	alloc := make([]int, len(firms))
	var active []contender
	for i, f := range firms {
		if f.Bankrupt || f.Inventory <= 0 {
			continue
		}
		score := (Competitiveness(f, p) + scoreBonus) * uniform(rng, 0.95, 1.05)
		active = append(active, contender{idx: i, inventory: f.Inventory, score: score})
	}
	distribute(active, totalDemand, alloc)
	return alloc
}

// distribute fills alloc (indexed by contender.idx) from totalDemand.
// Stable sort keeps equal scores in their original roster order.
func distribute(active []contender, totalDemand int, alloc []int) {
	if totalDemand <= 0 || len(active) == 0 {
		return
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].score > active[j].score
	})

	var totalScore float64
	for _, c := range active {
		totalScore += c.score
	}
	if totalScore <= 0 {
		return
	}

	// Pass 1: proportional floor shares, capped by stock and by what is
	// still unallocated.
	allocated := 0
	for _, c := range active {
		share := int(math.Floor(float64(totalDemand) * c.score / totalScore))
		share = min(share, c.inventory, totalDemand-allocated)
		alloc[c.idx] = share
		allocated += share
	}

	// Pass 2: hand the remainder out one unit at a time, best score first,
	// looping until demand or all spare inventory runs out.
	remaining := totalDemand - allocated
	for remaining > 0 {
		handed := false
		for i := range active {
			if remaining <= 0 {
				break
			}
			c := &active[i]
			if c.inventory > alloc[c.idx] {
				alloc[c.idx]++
				remaining--
				handed = true
			}
		}
		if !handed {
			break
		}
	}
}
