package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/tycoon/internal/config"
	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/market"
	"github.com/talgya/tycoon/internal/persistence"
	"github.com/talgya/tycoon/internal/session"
)

func newPlayCmd(cfg config.Config) *cobra.Command {
	var savePath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := persistence.Open(savePath)
			if err != nil {
				return err
			}
			defer db.Close()

			s, err := openSession(db, cfg, seed)
			if err != nil {
				return err
			}
			return playLoop(db, s)
		},
	}

	cmd.Flags().StringVar(&savePath, "save", cfg.SavePath, "save file path")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Seed, "random seed for a fresh campaign")
	return cmd
}

// openSession resumes the saved campaign when one exists and the player
// wants it back; a corrupt save degrades to a fresh start instead of
// aborting.
func openSession(db *persistence.DB, cfg config.Config, seed int64) (*session.Session, error) {
	if db.HasSession() {
		resume, err := promptYesNo("Found a saved campaign. Resume it?", true)
		if err != nil {
			return nil, err
		}
		if resume {
			snap, err := db.LoadSnapshot()
			if err == nil {
				s, rerr := session.Restore(snap)
				if rerr == nil {
					printSuccess(fmt.Sprintf("Resumed %q at turn %d.", s.PlayerFirm().Name, s.Turn))
					return s, nil
				}
				err = rerr
			}
			printError(fmt.Sprintf("Save file is unusable (%v). Starting fresh.", err))
		}
	}

	name, err := promptString("Company name", cfg.PlayerName)
	if err != nil {
		return nil, err
	}
	s := session.New(econ.DefaultParams(), seed, name, false)
	printSuccess(fmt.Sprintf("Welcome, %s. Reach %s net worth within %d months.",
		name, money(s.Params.TargetNetWorth), s.Params.MaxTurns))
	return s, nil
}

func promptString(label, def string) (string, error) {
	fmt.Printf("%s [%s]: ", label, def)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	return text, nil
}

func playLoop(db *persistence.DB, s *session.Session) error {
	for !s.Status.Terminal() {
		renderStatus(s)

		action, err := promptChoice("Action", []string{"play", "events", "save", "quit"}, "play")
		if err != nil {
			return err
		}
		switch action {
		case "events":
			renderEvents(s.Events, 12)
			continue
		case "save":
			if err := saveSession(db, s); err != nil {
				printError("Save failed: " + err.Error())
			} else {
				printSuccess("Campaign saved.")
			}
			continue
		case "quit":
			saveFirst, err := promptYesNo("Save before quitting?", true)
			if err != nil {
				return err
			}
			if saveFirst {
				if err := saveSession(db, s); err != nil {
					return err
				}
				printSuccess("Campaign saved.")
			}
			return nil
		}

		dec, err := collectDecision(s)
		if err != nil {
			return err
		}
		report, err := s.AdvanceTurn(dec)
		if err != nil {
			return err
		}
		renderReport(report)
	}

	renderOutcome(s)
	if err := saveSession(db, s); err != nil {
		printError("Final save failed: " + err.Error())
	}
	return nil
}

func saveSession(db *persistence.DB, s *session.Session) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return db.SaveSnapshot(snap)
}

func renderStatus(s *session.Session) {
	f := s.PlayerFirm()
	p := s.Params

	fmt.Println()
	accent.Printf("══ Month %d of %d ══\n", s.Turn, p.MaxTurns)
	neutral.Printf("Market trend %.2f   Consumer sentiment %.0f/100\n",
		s.Market.Trend, s.Sentiment.At(s.Turn))

	fmt.Printf("Cash       %s\n", money(f.Cash))
	fmt.Printf("Net worth  %s  (target %s)\n", money(f.NetWorth()), money(p.TargetNetWorth))
	if f.Loan > 0 {
		warn.Printf("Loan       %s\n", money(f.Loan))
	}
	fmt.Printf("Inventory  %d units   Price %s   Unit cost %s\n",
		f.Inventory, money(f.Price), money(f.ProductionCost))
	fmt.Printf("Workers    %d  (capacity %d units, salary %s each)\n",
		f.Workers, f.Capacity(p), money(p.SalaryRate))
	fmt.Printf("Quality    %s %d/10\n", bar(f.Quality, 10), f.Quality)
	fmt.Printf("Marketing  %s %d/10   R&D points %d/%d\n",
		bar(f.Marketing, 10), f.Marketing, f.RDPoints, p.RDPointsPerUpgrade)

	competitors := s.Competitors()
	if len(competitors) > 0 {
		accent.Println("── Competition ──")
		fmt.Printf("  %-18s %10s %8s %10s\n", "Firm", "Price", "Quality", "Marketing")
		for _, c := range competitors {
			fmt.Printf("  %-18s %10s %8d %10d\n", c.Name, money(c.Price), c.Quality, c.Marketing)
		}
	}
}

// collectDecision walks the player through one turn's choices, showing the
// affordable ceiling for each. Values are clamped again inside the engine,
// so stale ceilings cannot corrupt anything.
func collectDecision(s *session.Session) (*session.Decision, error) {
	f := s.PlayerFirm()
	p := s.Params
	dec := &session.Decision{Price: int(f.Price)}

	maxHire := 0
	if f.Cash > 500 {
		maxHire = int((f.Cash - 500) / p.HiringCost)
	}
	if maxHire > 0 {
		hire, err := promptIntRange(fmt.Sprintf("Hire workers (%s each)", money(p.HiringCost)), 0, maxHire, 0)
		if err != nil {
			return nil, err
		}
		dec.Hire = hire
	}
	if dec.Hire == 0 && f.Workers > 0 {
		fire, err := promptIntRange(fmt.Sprintf("Fire workers (%s severance each)", money(p.FiringCost)), 0, f.Workers, 0)
		if err != nil {
			return nil, err
		}
		dec.Fire = fire
	}

	workers := f.Workers + dec.Hire - dec.Fire
	capacity := workers * p.OutputPerWorker
	maxProduce := capacity
	if affordable := int(f.Cash / f.ProductionCost); affordable < maxProduce {
		maxProduce = affordable
	}
	if maxProduce > 0 {
		produce, err := promptIntRange(fmt.Sprintf("Produce units (%s each)", money(f.ProductionCost)), 0, maxProduce, 0)
		if err != nil {
			return nil, err
		}
		dec.Produce = produce
	} else if workers == 0 {
		printWarn("No workers, no production this month.")
	}

	price, err := promptIntRange("Unit price", 1, 1_000_000, int(f.Price))
	if err != nil {
		return nil, err
	}
	dec.Price = price

	if f.Marketing < 10 {
		quote := p.MarketingUpgradeCost(f.Marketing)
		if f.Cash >= quote {
			buy, err := promptYesNo(fmt.Sprintf("Upgrade marketing to level %d for %s?", f.Marketing+1, money(quote)), false)
			if err != nil {
				return nil, err
			}
			if buy {
				dec.MarketingSpend = int(quote)
			}
		}
	}

	if f.Cash >= 1 {
		quote := p.RDCostPerPoint(f.Quality, f.ProductionCost)
		printInfo(fmt.Sprintf("R&D costs %s per point; %d points trigger a breakthrough.",
			money(quote), p.RDPointsPerUpgrade))
		rd, err := promptIntRange("R&D budget", 0, int(f.Cash), 0)
		if err != nil {
			return nil, err
		}
		dec.RDSpend = rd
		if rd > 0 {
			focus, err := promptChoice("R&D focus", []string{"auto", "quality", "cost"}, "auto")
			if err != nil {
				return nil, err
			}
			switch focus {
			case "quality":
				dec.RDFocus = session.RDFocusQuality
			case "cost":
				dec.RDFocus = session.RDFocusCost
			}
		}
	}

	ceiling := int(f.MaxAffordableLoan(p))
	if ceiling > 0 {
		draw, err := promptIntRange(fmt.Sprintf("Draw loan (%.0f%% APR)", p.LoanRate*100), 0, ceiling, 0)
		if err != nil {
			return nil, err
		}
		dec.LoanDraw = draw
	}
	if dec.LoanDraw == 0 && f.Loan > 0 && f.Cash > 0 {
		maxRepay := int(f.Loan)
		if cash := int(f.Cash); cash < maxRepay {
			maxRepay = cash
		}
		repay, err := promptIntRange("Repay loan", 0, maxRepay, 0)
		if err != nil {
			return nil, err
		}
		dec.LoanRepay = repay
	}

	return dec, nil
}

func renderReport(r *session.TurnReport) {
	fmt.Println()
	accent.Printf("── Month %d results ──\n", r.Turn)
	if r.Event != market.NoEvent {
		warn.Println(r.Event)
	}
	neutral.Printf("Total market demand: %d units\n", r.TotalDemand)

	fmt.Printf("  %-18s %6s %12s %12s %12s\n", "Firm", "Sold", "Revenue", "Net income", "Net worth")
	for _, fr := range r.Firms {
		line := neutral
		if fr.IsPlayer {
			line = accent
		}
		if fr.Bankrupt {
			line = danger
		}
		line.Printf("  %-18s %6d %12s %12s %12s\n",
			fr.Name, fr.UnitsSold, money(fr.Revenue), money(fr.NetIncome), money(fr.NetWorth))
	}

	for _, fr := range r.Firms {
		if !fr.IsPlayer {
			continue
		}
		fmt.Printf("  Your breakdown: COGS %s, salaries %s, marketing %s, R&D %s, interest %s\n",
			money(fr.COGS), money(fr.Salaries), money(fr.MarketingSpend),
			money(fr.RDSpend), money(fr.InterestPaid))
	}

	for _, name := range r.Departed {
		danger.Printf("%s has gone bankrupt and left the market.\n", name)
	}
	for _, name := range r.Arrived {
		success.Printf("%s has entered the market.\n", name)
	}
}

func renderOutcome(s *session.Session) {
	f := s.PlayerFirm()
	fmt.Println()
	switch s.Status {
	case session.StatusWon:
		success.Printf("YOU WIN! %s reached %s net worth in %d months.\n",
			f.Name, money(f.NetWorth()), s.Turn-1)
	case session.StatusLostBankruptcy:
		danger.Printf("BANKRUPT. %s could not cover its obligations.\n", f.Name)
	case session.StatusLostTimeout:
		danger.Printf("TIME UP. %s finished at %s net worth, short of %s.\n",
			f.Name, money(f.NetWorth()), money(s.Params.TargetNetWorth))
	}
	fmt.Printf("Lifetime gross profit %s, lifetime net income %s.\n",
		money(f.TotalGrossProfit), money(f.TotalNetIncome))
}
