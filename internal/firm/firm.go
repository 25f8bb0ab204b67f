// Package firm models one competing business: its balance-sheet state and
// the operations that mutate it during turn resolution. Operations assume
// pre-validated arguments — the decision boundary clamps player input and
// the resolver supplies allocation results it has already bounded — so
// contract violations degrade to defensive no-ops rather than errors.
package firm

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/tycoon/internal/econ"
)

// Firm is the full economic state of one business, player or AI controlled.
type Firm struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsPlayer bool   `json:"is_player"`

	Cash           float64 `json:"cash"`
	Inventory      int     `json:"inventory"`
	ProductionCost float64 `json:"production_cost"`
	Quality        int     `json:"quality"`   // 1-10
	Marketing      int     `json:"marketing"` // 1-10
	Price          float64 `json:"price"`
	RDPoints       int     `json:"rd_points"`
	Loan           float64 `json:"loan"`
	Workers        int     `json:"workers"`
	Bankrupt       bool    `json:"bankrupt"`

	// Turn holds the financial breakdown of the last completed turn.
	Turn Financials `json:"turn"`

	TotalGrossProfit float64 `json:"total_gross_profit"`
	TotalNetIncome   float64 `json:"total_net_income"`
}

// Financials records every cash-affecting line item of a single turn.
type Financials struct {
	UnitsSold      int     `json:"units_sold"`
	Revenue        float64 `json:"revenue"`
	COGS           float64 `json:"cogs"`
	GrossProfit    float64 `json:"gross_profit"`
	Salaries       float64 `json:"salaries"`
	MarketingSpend float64 `json:"marketing_spend"`
	RDSpend        float64 `json:"rd_spend"`
	InterestPaid   float64 `json:"interest_paid"`
	HiringCost     float64 `json:"hiring_cost"`
	FiringCost     float64 `json:"firing_cost"`
	LoanRepayment  float64 `json:"loan_repayment"`
	NetIncome      float64 `json:"net_income"`
}

// New creates a firm with the session's starting attributes and the given
// opening cash. The opening price is a fixed markup on production cost —
// both players and competitors reprice from there.
func New(name string, isPlayer bool, cash float64, p econ.Params) *Firm {
	return &Firm{
		ID:             uuid.NewString(),
		Name:           name,
		IsPlayer:       isPlayer,
		Cash:           cash,
		ProductionCost: p.InitialProductionCost,
		Quality:        p.InitialQuality,
		Marketing:      p.InitialMarketing,
		Price:          p.InitialProductionCost * 2.5,
		Workers:        p.InitialWorkers,
	}
}

// Capacity is the maximum number of units the current workforce can
// produce in one turn.
func (f *Firm) Capacity(p econ.Params) int {
	return f.Workers * p.OutputPerWorker
}

// Assets values the firm's holdings: cash plus inventory at cost basis.
func (f *Firm) Assets() float64 {
	return f.Cash + float64(f.Inventory)*f.ProductionCost
}

// NetWorth is assets minus outstanding loan principal.
func (f *Firm) NetWorth() float64 {
	return f.Assets() - f.Loan
}

// MaxAffordableLoan is the additional principal the firm may still borrow
// under the loan-to-asset ceiling.
func (f *Firm) MaxAffordableLoan(p econ.Params) float64 {
	return math.Max(0, f.Assets()*p.MaxLoanRatio-f.Loan)
}

// Produce converts cash into inventory at the current unit cost. Negative
// or unaffordable quantities are ignored.
func (f *Firm) Produce(units int) {
	if units <= 0 {
		return
	}
	cost := float64(units) * f.ProductionCost
	if cost > f.Cash {
		return
	}
	f.Cash -= cost
	f.Inventory += units
}

// SetPrice assigns a new unit price. Prices below 1 are ignored.
func (f *Firm) SetPrice(price float64) {
	if price < 1 {
		return
	}
	f.Price = price
}

// ApplySales books the turn's allocated unit sales: revenue in, inventory
// out, gross profit accumulated. An out-of-range quantity (negative, or
// more than is in stock) zeroes the sales fields and changes nothing else —
// the allocator is responsible for never exceeding inventory.
func (f *Firm) ApplySales(unitsSold int) {
	f.Turn.UnitsSold = 0
	f.Turn.Revenue = 0
	f.Turn.COGS = 0
	f.Turn.GrossProfit = 0
	if unitsSold <= 0 || unitsSold > f.Inventory {
		return
	}
	revenue := float64(unitsSold) * f.Price
	cogs := float64(unitsSold) * f.ProductionCost
	f.Inventory -= unitsSold
	f.Cash += revenue
	f.Turn.UnitsSold = unitsSold
	f.Turn.Revenue = revenue
	f.Turn.COGS = cogs
	f.Turn.GrossProfit = revenue - cogs
	f.TotalGrossProfit += revenue - cogs
}

// PaySalaries deducts the workforce's wages. Cash may go negative; that is
// a solvency matter, not an error.
func (f *Firm) PaySalaries(p econ.Params) {
	cost := float64(f.Workers) * p.SalaryRate
	f.Cash -= cost
	f.Turn.Salaries = cost
}

// ApplyInterest credits deposit interest on positive cash and charges loan
// interest on the balance captured at the start of the turn. Using the
// start-of-turn balance keeps interest independent of the order in which
// sales and loan actions moved cash mid-turn.
func (f *Firm) ApplyInterest(loanBalanceAtStart float64, p econ.Params) {
	f.Turn.InterestPaid = 0
	if f.Cash > 0 {
		f.Cash += f.Cash * p.MonthlyDepositRate()
	}
	if loanBalanceAtStart > 0 {
		paid := loanBalanceAtStart * p.MonthlyLoanRate()
		f.Cash -= paid
		f.Turn.InterestPaid = paid
	}
}

// Hire adds workers and books the one-time hiring cost.
func (f *Firm) Hire(n int, p econ.Params) {
	if n <= 0 {
		return
	}
	cost := float64(n) * p.HiringCost
	f.Cash -= cost
	f.Workers += n
	f.Turn.HiringCost = cost
}

// Fire releases workers and books the one-time severance cost.
func (f *Firm) Fire(n int, p econ.Params) {
	if n <= 0 || n > f.Workers {
		return
	}
	cost := float64(n) * p.FiringCost
	f.Cash -= cost
	f.Workers -= n
	f.Turn.FiringCost = cost
}

// DrawLoan adds principal and the matching cash.
func (f *Firm) DrawLoan(amount float64) {
	if amount <= 0 {
		return
	}
	f.Loan += amount
	f.Cash += amount
}

// RepayLoan retires principal. Repayment is a balance-sheet movement, not
// an expense, so it does not enter net income.
func (f *Firm) RepayLoan(amount float64) {
	if amount <= 0 {
		return
	}
	if amount > f.Loan {
		amount = f.Loan
	}
	f.Loan -= amount
	f.Cash -= amount
	f.Turn.LoanRepayment = amount
}

// CheckSolvency marks the firm bankrupt when both net worth and cash are
// negative. A firm under water on paper but holding cash keeps trading.
// The transition is one-way: once bankrupt, always bankrupt.
func (f *Firm) CheckSolvency() bool {
	if f.Bankrupt {
		return true
	}
	if f.NetWorth() < 0 && f.Cash < 0 {
		f.Bankrupt = true
	}
	return f.Bankrupt
}

// ResetTurnSpending zeroes the discretionary line items ahead of a new
// turn's decisions. Sales, salary, and interest fields are overwritten
// unconditionally during resolution and need no reset.
func (f *Firm) ResetTurnSpending() {
	f.Turn.MarketingSpend = 0
	f.Turn.RDSpend = 0
	f.Turn.HiringCost = 0
	f.Turn.FiringCost = 0
	f.Turn.LoanRepayment = 0
}
