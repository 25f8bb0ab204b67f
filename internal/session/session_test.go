package session

import (
	"math"
	"reflect"
	"testing"

	"github.com/talgya/tycoon/internal/econ"
)

func TestNewSessionRoster(t *testing.T) {
	p := econ.DefaultParams()
	s := New(p, 42, "Acme", false)

	if len(s.Members) != 1+p.InitialCompetitors {
		t.Fatalf("roster size got %d want %d", len(s.Members), 1+p.InitialCompetitors)
	}
	if !s.Members[0].Firm.IsPlayer {
		t.Fatalf("player must be first in the roster")
	}
	if _, ok := s.Members[0].Source.(*HumanInput); !ok {
		t.Fatalf("player source got %T want *HumanInput", s.Members[0].Source)
	}
	for _, m := range s.Members[1:] {
		if _, ok := m.Source.(*PolicyDriven); !ok {
			t.Fatalf("competitor source got %T", m.Source)
		}
	}
	if s.PlayerFirm().Name != "Acme" {
		t.Fatalf("player name got %q", s.PlayerFirm().Name)
	}
}

func TestHumanDecisionApplied(t *testing.T) {
	p := econ.DefaultParams()
	s := New(p, 7, "Acme", false)

	_, err := s.AdvanceTurn(&Decision{Hire: 2, Price: 25})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}

	f := s.PlayerFirm()
	if f.Workers != 2 {
		t.Fatalf("workers got %d want 2", f.Workers)
	}
	if f.Price != 25 {
		t.Fatalf("price got %v want 25", f.Price)
	}
	if f.Turn.HiringCost != 2*p.HiringCost {
		t.Fatalf("hiring cost got %v", f.Turn.HiringCost)
	}
}

func TestAutopilotInvariants(t *testing.T) {
	p := econ.DefaultParams()
	s := New(p, 99, "Auto", true)

	for turns := 0; !s.Status.Terminal() && turns < p.MaxTurns+1; turns++ {
		report, err := s.AdvanceTurn(nil)
		if err != nil {
			t.Fatalf("turn %d: %v", s.Turn, err)
		}

		if len(s.Members) != 1+p.InitialCompetitors {
			t.Fatalf("turn %d: roster size %d, respawn must keep it constant", report.Turn, len(s.Members))
		}
		for _, fr := range report.Firms {
			if fr.Inventory < 0 {
				t.Fatalf("turn %d: %s has negative inventory", report.Turn, fr.Name)
			}
			expenses := fr.COGS + fr.Salaries + fr.MarketingSpend + fr.RDSpend +
				fr.InterestPaid + fr.HiringCost + fr.FiringCost
			if !fr.Bankrupt && math.Abs(fr.NetIncome-(fr.Revenue-expenses)) > 1e-6 {
				t.Fatalf("turn %d: %s net income %v does not match its line items (%v)",
					report.Turn, fr.Name, fr.NetIncome, fr.Revenue-expenses)
			}
		}
	}
	if !s.Status.Terminal() {
		t.Fatalf("session never reached a terminal state, turn %d", s.Turn)
	}
}

func TestWinCondition(t *testing.T) {
	p := econ.DefaultParams()
	p.TargetNetWorth = 1 // starting cash clears this immediately
	s := New(p, 5, "Acme", false)

	report, err := s.AdvanceTurn(nil)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Status != StatusWon {
		t.Fatalf("status got %v want won", s.Status)
	}
	if report.Status != "won" {
		t.Fatalf("report status got %q", report.Status)
	}
}

func TestTimeoutCondition(t *testing.T) {
	p := econ.DefaultParams()
	p.MaxTurns = 3
	s := New(p, 5, "Acme", false)

	for !s.Status.Terminal() {
		if _, err := s.AdvanceTurn(nil); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if s.Status != StatusLostTimeout {
		t.Fatalf("status got %v want lost-timeout", s.Status)
	}
	if s.Turn != p.MaxTurns+1 {
		t.Fatalf("clock got %d want %d", s.Turn, p.MaxTurns+1)
	}
}

func TestPlayerBankruptcyEndsSession(t *testing.T) {
	p := econ.DefaultParams()
	s := New(p, 5, "Acme", false)

	player := s.PlayerFirm()
	player.Cash = -100000
	player.Loan = 50000

	if _, err := s.AdvanceTurn(nil); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Status != StatusLostBankruptcy {
		t.Fatalf("status got %v want lost-bankruptcy", s.Status)
	}
	if !player.Bankrupt {
		t.Fatalf("player firm should be marked bankrupt")
	}

	if _, err := s.AdvanceTurn(nil); err != ErrSessionOver {
		t.Fatalf("advancing a finished session got %v want ErrSessionOver", err)
	}
}

// A restored session must replay the exact same future as the original.
func TestSnapshotRestoreReplay(t *testing.T) {
	p := econ.DefaultParams()
	s := New(p, 1234, "Auto", true)

	for i := 0; i < 10 && !s.Status.Terminal(); i++ {
		if _, err := s.AdvanceTurn(nil); err != nil {
			t.Fatalf("warmup turn: %v", err)
		}
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	for i := 0; i < 5 && !s.Status.Terminal(); i++ {
		want, err := s.AdvanceTurn(nil)
		if err != nil {
			t.Fatalf("original turn: %v", err)
		}
		got, err := restored.AdvanceTurn(nil)
		if err != nil {
			t.Fatalf("restored turn: %v", err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("replay diverged at step %d:\nwant %+v\ngot  %+v", i, want, got)
		}
	}
}

func TestRestoreRejectsBadRosters(t *testing.T) {
	p := econ.DefaultParams()
	s := New(p, 9, "Acme", false)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	bad := snap
	bad.Firms = nil
	if _, err := Restore(bad); err == nil {
		t.Fatalf("expected error for empty roster")
	}

	bad = snap
	bad.Firms = append([]FirmState(nil), snap.Firms...)
	bad.Firms[1].Profile = nil // competitor without a temperament
	if _, err := Restore(bad); err == nil {
		t.Fatalf("expected error for competitor without profile")
	}
}
