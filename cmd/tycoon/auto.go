package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/talgya/tycoon/internal/config"
	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/session"
)

// newAutoCmd runs headless campaigns where the player firm is policy-driven
// too. Useful for balance checks: a competently played firm should win a
// reasonable share of seeds.
func newAutoCmd(cfg config.Config) *cobra.Command {
	var games int
	var seed int64

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Run autopilot campaigns and summarize outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes := map[session.Status]int{}
			totalTurns := 0

			for g := 0; g < games; g++ {
				s := session.New(econ.DefaultParams(), seed+int64(g), "Autopilot Inc", true)
				for !s.Status.Terminal() {
					if _, err := s.AdvanceTurn(nil); err != nil {
						return err
					}
				}
				outcomes[s.Status]++
				totalTurns += s.Turn - 1

				f := s.PlayerFirm()
				slog.Info("campaign finished",
					"game", g+1,
					"seed", seed+int64(g),
					"status", s.Status.String(),
					"turns", s.Turn-1,
					"net_worth", f.NetWorth(),
				)
			}

			accent.Printf("%d campaigns:\n", games)
			fmt.Printf("  won             %d\n", outcomes[session.StatusWon])
			fmt.Printf("  lost-bankruptcy %d\n", outcomes[session.StatusLostBankruptcy])
			fmt.Printf("  lost-timeout    %d\n", outcomes[session.StatusLostTimeout])
			if games > 0 {
				fmt.Printf("  avg length      %.1f turns\n", float64(totalTurns)/float64(games))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&games, "games", 10, "number of campaigns to run")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Seed, "seed of the first campaign; later ones increment it")
	return cmd
}
