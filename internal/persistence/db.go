// Package persistence provides SQLite-based save files for game sessions.
// A save is a full-replace write of one session snapshot; restoring it
// yields a session that continues identically from where it left off.
package persistence

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tycoon/internal/econ"
	"github.com/talgya/tycoon/internal/market"
	"github.com/talgya/tycoon/internal/session"
)

// DB wraps a SQLite connection holding one saved session.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a save file at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the save file.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS firms (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		is_player INTEGER NOT NULL,
		cash REAL NOT NULL,
		inventory INTEGER NOT NULL,
		production_cost REAL NOT NULL,
		quality INTEGER NOT NULL,
		marketing INTEGER NOT NULL,
		price REAL NOT NULL,
		rd_points INTEGER NOT NULL,
		loan REAL NOT NULL,
		workers INTEGER NOT NULL,
		bankrupt INTEGER NOT NULL,
		total_gross_profit REAL NOT NULL,
		total_net_income REAL NOT NULL,
		turn_json TEXT NOT NULL,
		profile_json TEXT
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasSession reports whether the file contains a saved session.
func (db *DB) HasSession() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM session_meta WHERE key = 'id'"); err != nil {
		return false
	}
	return n > 0
}

// SaveSnapshot writes the snapshot, replacing any previous save.
func (db *DB) SaveSnapshot(snap session.Snapshot) error {
	slog.Info("saving session", "id", snap.ID, "turn", snap.Turn, "firms", len(snap.Firms))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveFirms(tx, snap.Firms); err != nil {
		return fmt.Errorf("save firms: %w", err)
	}
	if err := saveEvents(tx, snap.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := saveMeta(tx, snap); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return tx.Commit()
}

func saveFirms(tx *sqlx.Tx, firms []session.FirmState) error {
	if _, err := tx.Exec("DELETE FROM firms"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO firms
		(position, id, name, is_player, cash, inventory, production_cost,
		 quality, marketing, price, rd_points, loan, workers, bankrupt,
		 total_gross_profit, total_net_income, turn_json, profile_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, fs := range firms {
		f := fs.Firm
		turnJSON, err := json.Marshal(f.Turn)
		if err != nil {
			return fmt.Errorf("marshal firm %q financials: %w", f.Name, err)
		}
		var profileJSON *string
		if fs.Profile != nil {
			b, err := json.Marshal(fs.Profile)
			if err != nil {
				return fmt.Errorf("marshal firm %q profile: %w", f.Name, err)
			}
			s := string(b)
			profileJSON = &s
		}

		_, err = stmt.Exec(
			pos, f.ID, f.Name, boolToInt(f.IsPlayer),
			f.Cash, f.Inventory, f.ProductionCost,
			f.Quality, f.Marketing, f.Price, f.RDPoints, f.Loan,
			f.Workers, boolToInt(f.Bankrupt),
			f.TotalGrossProfit, f.TotalNetIncome,
			string(turnJSON), profileJSON,
		)
		if err != nil {
			return fmt.Errorf("insert firm %q: %w", f.Name, err)
		}
	}
	return nil
}

func saveEvents(tx *sqlx.Tx, events []session.Event) error {
	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}
	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (turn, description, category) VALUES (?, ?, ?)",
			e.Turn, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func saveMeta(tx *sqlx.Tx, snap session.Snapshot) error {
	paramsJSON, err := json.Marshal(snap.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	marketJSON, err := json.Marshal(snap.Market)
	if err != nil {
		return fmt.Errorf("marshal market: %w", err)
	}

	meta := map[string]string{
		"id":         snap.ID,
		"seed":       strconv.FormatInt(snap.Seed, 10),
		"turn":       strconv.Itoa(snap.Turn),
		"spawn_seq":  strconv.Itoa(snap.SpawnSeq),
		"status":     strconv.Itoa(int(snap.Status)),
		"params":     string(paramsJSON),
		"market":     string(marketJSON),
		"rand_state": hex.EncodeToString(snap.RandState),
	}
	for _, key := range []string{"id", "seed", "turn", "spawn_seq", "status", "params", "market", "rand_state"} {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO session_meta (key, value) VALUES (?, ?)",
			key, meta[key],
		); err != nil {
			return err
		}
	}
	return nil
}

// LoadSnapshot reads the saved session back out.
func (db *DB) LoadSnapshot() (session.Snapshot, error) {
	var snap session.Snapshot

	meta, err := db.loadMeta()
	if err != nil {
		return snap, fmt.Errorf("load meta: %w", err)
	}

	snap.ID = meta["id"]
	if snap.Seed, err = strconv.ParseInt(meta["seed"], 10, 64); err != nil {
		return snap, fmt.Errorf("parse seed: %w", err)
	}
	if snap.Turn, err = strconv.Atoi(meta["turn"]); err != nil {
		return snap, fmt.Errorf("parse turn: %w", err)
	}
	if snap.SpawnSeq, err = strconv.Atoi(meta["spawn_seq"]); err != nil {
		return snap, fmt.Errorf("parse spawn_seq: %w", err)
	}
	status, err := strconv.Atoi(meta["status"])
	if err != nil {
		return snap, fmt.Errorf("parse status: %w", err)
	}
	snap.Status = session.Status(status)

	var params econ.Params
	if err := json.Unmarshal([]byte(meta["params"]), &params); err != nil {
		return snap, fmt.Errorf("unmarshal params: %w", err)
	}
	snap.Params = params

	var mkt market.State
	if err := json.Unmarshal([]byte(meta["market"]), &mkt); err != nil {
		return snap, fmt.Errorf("unmarshal market: %w", err)
	}
	snap.Market = mkt

	if snap.RandState, err = hex.DecodeString(meta["rand_state"]); err != nil {
		return snap, fmt.Errorf("decode rand_state: %w", err)
	}

	if snap.Firms, err = db.loadFirms(); err != nil {
		return snap, fmt.Errorf("load firms: %w", err)
	}
	if snap.Events, err = db.loadEvents(); err != nil {
		return snap, fmt.Errorf("load events: %w", err)
	}

	slog.Info("session loaded", "id", snap.ID, "turn", snap.Turn, "firms", len(snap.Firms))
	return snap, nil
}

func (db *DB) loadMeta() (map[string]string, error) {
	rows, err := db.conn.Queryx("SELECT key, value FROM session_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if meta["id"] == "" {
		return nil, fmt.Errorf("no saved session")
	}
	return meta, nil
}

type firmRow struct {
	Position         int     `db:"position"`
	ID               string  `db:"id"`
	Name             string  `db:"name"`
	IsPlayer         int     `db:"is_player"`
	Cash             float64 `db:"cash"`
	Inventory        int     `db:"inventory"`
	ProductionCost   float64 `db:"production_cost"`
	Quality          int     `db:"quality"`
	Marketing        int     `db:"marketing"`
	Price            float64 `db:"price"`
	RDPoints         int     `db:"rd_points"`
	Loan             float64 `db:"loan"`
	Workers          int     `db:"workers"`
	Bankrupt         int     `db:"bankrupt"`
	TotalGrossProfit float64 `db:"total_gross_profit"`
	TotalNetIncome   float64 `db:"total_net_income"`
	TurnJSON         string  `db:"turn_json"`
	ProfileJSON      *string `db:"profile_json"`
}

func (db *DB) loadFirms() ([]session.FirmState, error) {
	var rows []firmRow
	if err := db.conn.Select(&rows, "SELECT * FROM firms ORDER BY position"); err != nil {
		return nil, err
	}

	states := make([]session.FirmState, 0, len(rows))
	for _, r := range rows {
		var fs session.FirmState
		f := &fs.Firm
		f.ID = r.ID
		f.Name = r.Name
		f.IsPlayer = r.IsPlayer != 0
		f.Cash = r.Cash
		f.Inventory = r.Inventory
		f.ProductionCost = r.ProductionCost
		f.Quality = r.Quality
		f.Marketing = r.Marketing
		f.Price = r.Price
		f.RDPoints = r.RDPoints
		f.Loan = r.Loan
		f.Workers = r.Workers
		f.Bankrupt = r.Bankrupt != 0
		f.TotalGrossProfit = r.TotalGrossProfit
		f.TotalNetIncome = r.TotalNetIncome

		if err := json.Unmarshal([]byte(r.TurnJSON), &f.Turn); err != nil {
			return nil, fmt.Errorf("unmarshal firm %q financials: %w", r.Name, err)
		}
		if r.ProfileJSON != nil {
			if err := json.Unmarshal([]byte(*r.ProfileJSON), &fs.Profile); err != nil {
				return nil, fmt.Errorf("unmarshal firm %q profile: %w", r.Name, err)
			}
		}
		states = append(states, fs)
	}
	return states, nil
}

func (db *DB) loadEvents() ([]session.Event, error) {
	var events []session.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events ORDER BY id")
	return events, err
}

// RecentEvents returns the most recent events, newest first.
func (db *DB) RecentEvents(limit int) ([]session.Event, error) {
	var events []session.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
