package market

import (
	"math/rand/v2"
	"testing"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/firm"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func stockedFirm(name string, price float64, inventory int, p econ.Params) *firm.Firm {
	f := firm.New(name, false, p.InitialCash, p)
	f.Price = price
	f.Inventory = inventory
	return f
}

func TestDistributeProportional(t *testing.T) {
	active := []contender{
		{idx: 0, inventory: 1000, score: 3.0},
		{idx: 1, inventory: 1000, score: 1.0},
	}
	alloc := make([]int, 2)
	distribute(active, 80, alloc)

	if alloc[0] != 60 || alloc[1] != 20 {
		t.Fatalf("got %v want [60 20]", alloc)
	}
}

func TestDistributeRespectsInventory(t *testing.T) {
	active := []contender{
		{idx: 0, inventory: 10, score: 3.0},
		{idx: 1, inventory: 1000, score: 1.0},
	}
	alloc := make([]int, 2)
	distribute(active, 80, alloc)

	if alloc[0] != 10 {
		t.Fatalf("firm 0 sold %d, has only 10 in stock", alloc[0])
	}
	// The leader's shortfall spills over to the runner-up.
	if alloc[0]+alloc[1] != 80 {
		t.Fatalf("total %d want 80 (stock was sufficient)", alloc[0]+alloc[1])
	}
}

func TestDistributeExhaustsInventory(t *testing.T) {
	active := []contender{
		{idx: 0, inventory: 5, score: 2.0},
		{idx: 1, inventory: 7, score: 1.0},
	}
	alloc := make([]int, 2)
	distribute(active, 100, alloc)

	if alloc[0] != 5 || alloc[1] != 7 {
		t.Fatalf("got %v, all stock should sell when demand exceeds it", alloc)
	}
}

func TestAllocateSalesSkipsBankruptAndEmpty(t *testing.T) {
	p := econ.DefaultParams()
	rng := testRNG(7)

	healthy := stockedFirm("a", 20, 50, p)
	broke := stockedFirm("b", 20, 50, p)
	broke.Bankrupt = true
	empty := stockedFirm("c", 20, 0, p)

	alloc := AllocateSales([]*firm.Firm{healthy, broke, empty}, 40, p, rng)
	if alloc[1] != 0 || alloc[2] != 0 {
		t.Fatalf("bankrupt/empty firms must sell nothing: %v", alloc)
	}
	if alloc[0] != 40 {
		t.Fatalf("sole active firm should take full demand, got %d", alloc[0])
	}
}

func TestAllocateSalesConservation(t *testing.T) {
	p := econ.DefaultParams()
	rng := testRNG(11)

	for trial := 0; trial < 200; trial++ {
		firms := []*firm.Firm{
			stockedFirm("a", 15+float64(rng.IntN(20)), rng.IntN(60), p),
			stockedFirm("b", 15+float64(rng.IntN(20)), rng.IntN(60), p),
			stockedFirm("c", 15+float64(rng.IntN(20)), rng.IntN(60), p),
		}
		demand := rng.IntN(150)
		alloc := AllocateSales(firms, demand, p, rng)

		total, stock := 0, 0
		for i, f := range firms {
			if alloc[i] < 0 || alloc[i] > f.Inventory {
				t.Fatalf("trial %d: firm %d allocated %d with %d in stock", trial, i, alloc[i], f.Inventory)
			}
			total += alloc[i]
			stock += f.Inventory
		}
		if total > demand {
			t.Fatalf("trial %d: sold %d above demand %d", trial, total, demand)
		}
		if stock >= demand && total != demand {
			t.Fatalf("trial %d: demand %d unmet (%d) despite %d in stock", trial, demand, total, stock)
		}
	}
}

func TestCompetitivenessPriceMonotonic(t *testing.T) {
	p := econ.DefaultParams()
	cheap := stockedFirm("a", 15, 1, p)
	dear := stockedFirm("b", 30, 1, p)

	if Competitiveness(cheap, p) <= Competitiveness(dear, p) {
		t.Fatalf("cheaper firm must score higher at equal quality and marketing")
	}
}

func TestTrendStaysClamped(t *testing.T) {
	p := econ.DefaultParams()
	rng := testRNG(3)
	s := NewState(p)

	for i := 0; i < 500; i++ {
		s.UpdateTrend(rng)
		if s.Trend < 0.5 || s.Trend > 1.5 {
			t.Fatalf("trend %v escaped bounds at step %d", s.Trend, i)
		}
	}
}

func TestGenerateEventKeepsTrendBounded(t *testing.T) {
	p := econ.DefaultParams()
	rng := testRNG(5)
	s := NewState(p)
	player := stockedFirm("player", 20, 10, p)
	player.IsPlayer = true
	firms := []*firm.Firm{player, stockedFirm("rival", 18, 10, p)}

	for i := 0; i < 500; i++ {
		s.UpdateTrend(rng)
		s.GenerateEvent(firms, player, &p, rng)
		if s.Trend < 0.5 || s.Trend > 1.5 {
			t.Fatalf("trend %v escaped bounds after event %q", s.Trend, s.LastEvent)
		}
	}
	if p.SalaryRate < econ.DefaultParams().SalaryRate {
		t.Fatalf("wage events never lower the salary rate, got %v", p.SalaryRate)
	}
}

func TestTotalDemandNoActiveFirms(t *testing.T) {
	p := econ.DefaultParams()
	rng := testRNG(1)
	s := NewState(p)

	dead := stockedFirm("a", 20, 5, p)
	dead.Bankrupt = true

	if got := s.TotalDemand([]*firm.Firm{dead}, p, rng); got != 0 {
		t.Fatalf("demand with no active firms got %d", got)
	}
}

func TestSentimentRange(t *testing.T) {
	sen := NewSentiment(42)
	for turn := 1; turn <= 120; turn++ {
		v := sen.At(turn)
		if v < 0 || v > 100 {
			t.Fatalf("sentiment %v out of range at turn %d", v, turn)
		}
	}
}
