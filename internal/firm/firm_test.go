package firm

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/talgya/tycoon/internal/econ"
)

func TestNewFirmDefaults(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, p.InitialCash, p)

	if f.Price != 20 {
		t.Fatalf("opening price got %v want 20", f.Price)
	}
	if f.Quality != 3 || f.Marketing != 1 || f.Workers != 0 {
		t.Fatalf("unexpected starting attributes: q=%d m=%d w=%d", f.Quality, f.Marketing, f.Workers)
	}
	if f.ID == "" {
		t.Fatalf("expected a firm id")
	}
}

func TestProduceBounds(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, 100, p)

	f.Produce(-5)
	if f.Inventory != 0 || f.Cash != 100 {
		t.Fatalf("negative production should be ignored")
	}

	f.Produce(20) // 20 * 8 = 160 > 100 cash
	if f.Inventory != 0 || f.Cash != 100 {
		t.Fatalf("unaffordable production should be ignored")
	}

	f.Produce(10)
	if f.Inventory != 10 || f.Cash != 20 {
		t.Fatalf("got inventory=%d cash=%v", f.Inventory, f.Cash)
	}
}

func TestApplySales(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, 1000, p)
	f.Inventory = 10

	f.ApplySales(4)
	if f.Turn.UnitsSold != 4 || f.Inventory != 6 {
		t.Fatalf("sold=%d inventory=%d", f.Turn.UnitsSold, f.Inventory)
	}
	if f.Turn.Revenue != 80 || f.Turn.COGS != 32 || f.Turn.GrossProfit != 48 {
		t.Fatalf("revenue=%v cogs=%v gross=%v", f.Turn.Revenue, f.Turn.COGS, f.Turn.GrossProfit)
	}
	if f.TotalGrossProfit != 48 {
		t.Fatalf("total gross profit got %v", f.TotalGrossProfit)
	}

	// Over-allocation zeroes the sales fields and moves nothing.
	cash := f.Cash
	f.ApplySales(100)
	if f.Turn.UnitsSold != 0 || f.Turn.Revenue != 0 || f.Inventory != 6 || f.Cash != cash {
		t.Fatalf("out-of-range sale should book nothing")
	}
}

func TestPaySalaries(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, 1000, p)
	f.Workers = 5

	f.PaySalaries(p)
	if f.Turn.Salaries != 750 {
		t.Fatalf("salaries got %v want 750", f.Turn.Salaries)
	}
	if f.Cash != 250 {
		t.Fatalf("cash got %v want 250", f.Cash)
	}
}

func TestSolvency(t *testing.T) {
	p := econ.DefaultParams()

	// Under water on paper but holding cash keeps trading.
	f := New("Acme", true, 200, p)
	f.Loan = 700 // net worth 200 - 700 = -500
	if f.CheckSolvency() {
		t.Fatalf("positive cash should avoid bankruptcy")
	}

	f.Cash = -50
	if !f.CheckSolvency() {
		t.Fatalf("negative net worth and negative cash should be bankrupt")
	}

	// One-way: recovered numbers do not clear the flag.
	f.Cash = 10000
	f.Loan = 0
	if !f.CheckSolvency() {
		t.Fatalf("bankruptcy must be permanent")
	}
}

func TestMaxAffordableLoan(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, 1000, p)

	if got := f.MaxAffordableLoan(p); got != 2000 {
		t.Fatalf("headroom got %v want 2000", got)
	}

	f.DrawLoan(500)
	// Assets rose to 1500, so headroom is 1500*2 - 500.
	if got := f.MaxAffordableLoan(p); got != 2500 {
		t.Fatalf("headroom got %v want 2500", got)
	}
}

func TestRepayLoanClamps(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, 1000, p)
	f.DrawLoan(300)

	f.RepayLoan(1000)
	if f.Loan != 0 {
		t.Fatalf("loan got %v want 0", f.Loan)
	}
	if f.Turn.LoanRepayment != 300 {
		t.Fatalf("repayment booked %v want 300", f.Turn.LoanRepayment)
	}
	if f.Cash != 1000 {
		t.Fatalf("cash got %v want 1000", f.Cash)
	}
}

// Every cash movement in a turn must reconcile: the change in cash equals
// the sum of the individual deltas, including the two that the Financials
// record does not carry (production spend and deposit interest).
func TestCashReconciliation(t *testing.T) {
	p := econ.DefaultParams()
	f := New("Acme", true, 10000, p)
	start := f.Cash

	f.Hire(3, p)
	f.Produce(40)
	f.SetPrice(22)
	f.DrawLoan(1000)
	loanAtStart := f.Loan
	f.ApplySales(25)
	f.PaySalaries(p)
	cashBeforeInterest := f.Cash
	f.ApplyInterest(loanAtStart, p)
	f.RepayLoan(400)

	deposit := 0.0
	if cashBeforeInterest > 0 {
		deposit = cashBeforeInterest * p.MonthlyDepositRate()
	}
	delta := -f.Turn.HiringCost -
		40*p.InitialProductionCost + // production spend, not a Financials line
		1000 + // loan draw
		f.Turn.Revenue -
		f.Turn.Salaries +
		deposit -
		f.Turn.InterestPaid -
		f.Turn.LoanRepayment

	if math.Abs((f.Cash-start)-delta) > 1e-9 {
		t.Fatalf("cash moved %v but recorded deltas sum to %v", f.Cash-start, delta)
	}
}

func TestSpawnerNames(t *testing.T) {
	p := econ.DefaultParams()
	rng := rand.New(rand.NewPCG(1, 2))
	sp := NewSpawner()

	a := sp.Competitor(p, rng)
	b := sp.Competitor(p, rng)
	if a.Name != "Competitor Mk1" || b.Name != "Competitor Mk2" {
		t.Fatalf("names got %q, %q", a.Name, b.Name)
	}
	if a.Cash < p.InitialCash*0.85 || a.Cash > p.InitialCash {
		t.Fatalf("competitor cash %v outside handicap range", a.Cash)
	}
	if sp.Seq() != 2 {
		t.Fatalf("sequence got %d", sp.Seq())
	}
}
