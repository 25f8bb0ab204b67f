package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/tycoon/internal/config"
	"github.com/talgya/tycoon/internal/persistence"
)

// newReportCmd prints the state of a saved campaign without resuming it.
func newReportCmd(cfg config.Config) *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a saved campaign's standings and recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := persistence.Open(savePath)
			if err != nil {
				return err
			}
			defer db.Close()

			if !db.HasSession() {
				return fmt.Errorf("no saved campaign in %s", savePath)
			}
			snap, err := db.LoadSnapshot()
			if err != nil {
				return err
			}

			accent.Printf("Campaign %s — turn %d, %s\n", snap.ID, snap.Turn, snap.Status)
			fmt.Printf("  %-18s %12s %12s %10s %6s %8s\n",
				"Firm", "Cash", "Net worth", "Price", "Qual", "Workers")
			for _, fs := range snap.Firms {
				f := fs.Firm
				line := neutral
				if f.IsPlayer {
					line = accent
				}
				if f.Bankrupt {
					line = danger
				}
				line.Printf("  %-18s %12s %12s %10s %6d %8d\n",
					f.Name, money(f.Cash), money(f.NetWorth()),
					money(f.Price), f.Quality, f.Workers)
			}

			events, err := db.RecentEvents(15)
			if err != nil {
				return err
			}
			// RecentEvents is newest-first; show oldest-first.
			for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
				events[i], events[j] = events[j], events[i]
			}
			renderEvents(events, 15)
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "save", cfg.SavePath, "save file path")
	return cmd
}
