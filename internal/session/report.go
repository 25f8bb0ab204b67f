package session

import "github.com/talgya/tycoon/internal/firm"

// FirmReport is one firm's financial breakdown for a resolved turn.
type FirmReport struct {
	Name     string `json:"name"`
	IsPlayer bool   `json:"is_player"`

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

	Cash      float64 `json:"cash"`
	NetWorth  float64 `json:"net_worth"`
	Loan      float64 `json:"loan"`
	Inventory int     `json:"inventory"`
	Workers   int     `json:"workers"`
	Quality   int     `json:"quality"`
	Marketing int     `json:"marketing"`
	Price     float64 `json:"price"`
	Bankrupt  bool    `json:"bankrupt"`
}

// TurnReport is the full outcome of one resolved turn, handed back to the
// boundary layer for display.
type TurnReport struct {
	Turn        int          `json:"turn"`
	Trend       float64      `json:"trend"`
	Event       string       `json:"event"`
	Sentiment   float64      `json:"sentiment"`
	TotalDemand int          `json:"total_demand"`
	Status      string       `json:"status"`
	Firms       []FirmReport `json:"firms"`
	Departed    []string     `json:"departed,omitempty"`
	Arrived     []string     `json:"arrived,omitempty"`
}

func (s *Session) buildReport(turn int, firms []*firm.Firm, demand int, departed, arrived []string) *TurnReport {
	r := &TurnReport{
		Turn:        turn,
		Trend:       s.Market.Trend,
		Event:       s.Market.LastEvent,
		Sentiment:   s.Sentiment.At(turn),
		TotalDemand: demand,
		Status:      s.Status.String(),
		Departed:    departed,
		Arrived:     arrived,
	}
	for _, f := range firms {
		r.Firms = append(r.Firms, FirmReport{
			Name:           f.Name,
			IsPlayer:       f.IsPlayer,
			UnitsSold:      f.Turn.UnitsSold,
			Revenue:        f.Turn.Revenue,
			COGS:           f.Turn.COGS,
			GrossProfit:    f.Turn.GrossProfit,
			Salaries:       f.Turn.Salaries,
			MarketingSpend: f.Turn.MarketingSpend,
			RDSpend:        f.Turn.RDSpend,
			InterestPaid:   f.Turn.InterestPaid,
			HiringCost:     f.Turn.HiringCost,
			FiringCost:     f.Turn.FiringCost,
			LoanRepayment:  f.Turn.LoanRepayment,
			NetIncome:      f.Turn.NetIncome,
			Cash:           f.Cash,
			NetWorth:       f.NetWorth(),
			Loan:           f.Loan,
			Inventory:      f.Inventory,
			Workers:        f.Workers,
			Quality:        f.Quality,
			Marketing:      f.Marketing,
			Price:          f.Price,
			Bankrupt:       f.Bankrupt,
		})
	}
	return r
}
