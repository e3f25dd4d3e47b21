// Package persistence provides SQLite-backed storage of completed
// simulation runs, so a facilitator can pull a run's seed back out and
// reproduce it. The engine core itself never touches this — persistence is
// strictly a host-layer concern.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/accord/internal/sim"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
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

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		proposal_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		steps_completed INTEGER NOT NULL,
		complete INTEGER NOT NULL,
		hotline_attempts INTEGER NOT NULL,
		hotline_successes INTEGER NOT NULL,
		proposal_json TEXT NOT NULL,
		party_stats_json TEXT NOT NULL,
		summary_json TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		type TEXT NOT NULL,
		severity REAL NOT NULL,
		agreement_violation INTEGER NOT NULL,
		de_escalated INTEGER NOT NULL,
		actors_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_incidents_run ON incidents(run_id, step);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun writes a run, its incidents, and its summary.
func (db *DB) SaveRun(run *sim.Run) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	proposalJSON, _ := json.Marshal(run.Proposal)
	statsJSON, _ := json.Marshal(run.PartyStats)
	var summaryJSON []byte
	if run.Summary != nil {
		summaryJSON, _ = json.Marshal(run.Summary)
	}

	complete := 0
	if run.Complete {
		complete = 1
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO runs
		(id, proposal_id, seed, duration, steps_completed, complete,
		 hotline_attempts, hotline_successes, proposal_json, party_stats_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Proposal.ID, run.Seed, run.Duration, run.StepsCompleted, complete,
		run.HotlineAttempts, run.HotlineSuccesses,
		string(proposalJSON), string(statsJSON), string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM incidents WHERE run_id = ?", run.ID); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO incidents
		(run_id, step, type, severity, agreement_violation, de_escalated, actors_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, inc := range run.Incidents {
		actorsJSON, _ := json.Marshal(inc.Actors)
		violation, deesc := 0, 0
		if inc.AgreementViolation {
			violation = 1
		}
		if inc.DeEscalated {
			deesc = 1
		}
		if _, err := stmt.Exec(run.ID, inc.Step, string(inc.Type), inc.Severity, violation, deesc, string(actorsJSON)); err != nil {
			return fmt.Errorf("insert incident at step %d: %w", inc.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("run saved", "run_id", run.ID, "incidents", len(run.Incidents))
	return nil
}

type runRow struct {
	ID               string  `db:"id"`
	ProposalID       string  `db:"proposal_id"`
	Seed             int64   `db:"seed"`
	Duration         int     `db:"duration"`
	StepsCompleted   int     `db:"steps_completed"`
	Complete         int     `db:"complete"`
	HotlineAttempts  int     `db:"hotline_attempts"`
	HotlineSuccesses int     `db:"hotline_successes"`
	ProposalJSON     string  `db:"proposal_json"`
	PartyStatsJSON   string  `db:"party_stats_json"`
	SummaryJSON      *string `db:"summary_json"`
	CreatedAt        string  `db:"created_at"`
}

type incidentRow struct {
	RunID              string  `db:"run_id"`
	Step               int     `db:"step"`
	Type               string  `db:"type"`
	Severity           float64 `db:"severity"`
	AgreementViolation int     `db:"agreement_violation"`
	DeEscalated        int     `db:"de_escalated"`
	ActorsJSON         string  `db:"actors_json"`
}

// LoadRun reads a run back, incidents in step order.
func (db *DB) LoadRun(id string) (*sim.Run, error) {
	var row runRow
	if err := db.conn.Get(&row, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	run, err := row.toRun()
	if err != nil {
		return nil, err
	}

	var incRows []incidentRow
	if err := db.conn.Select(&incRows,
		"SELECT run_id, step, type, severity, agreement_violation, de_escalated, actors_json FROM incidents WHERE run_id = ? ORDER BY step, id", id); err != nil {
		return nil, fmt.Errorf("load incidents for %s: %w", id, err)
	}
	for _, ir := range incRows {
		inc := sim.Incident{
			Step:               ir.Step,
			Type:               sim.IncidentType(ir.Type),
			Severity:           ir.Severity,
			AgreementViolation: ir.AgreementViolation == 1,
			DeEscalated:        ir.DeEscalated == 1,
		}
		if err := json.Unmarshal([]byte(ir.ActorsJSON), &inc.Actors); err != nil {
			return nil, fmt.Errorf("decode incident actors: %w", err)
		}
		run.Incidents = append(run.Incidents, inc)
	}
	return run, nil
}

func (r runRow) toRun() (*sim.Run, error) {
	run := &sim.Run{
		ID:               r.ID,
		Seed:             r.Seed,
		Duration:         r.Duration,
		StepsCompleted:   r.StepsCompleted,
		Complete:         r.Complete == 1,
		HotlineAttempts:  r.HotlineAttempts,
		HotlineSuccesses: r.HotlineSuccesses,
	}
	if err := json.Unmarshal([]byte(r.ProposalJSON), &run.Proposal); err != nil {
		return nil, fmt.Errorf("decode proposal: %w", err)
	}
	if err := json.Unmarshal([]byte(r.PartyStatsJSON), &run.PartyStats); err != nil {
		return nil, fmt.Errorf("decode party stats: %w", err)
	}
	if r.SummaryJSON != nil && *r.SummaryJSON != "" {
		run.Summary = &sim.Summary{}
		if err := json.Unmarshal([]byte(*r.SummaryJSON), run.Summary); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	}
	return run, nil
}

// RunInfo is a listing row for stored runs.
type RunInfo struct {
	ID             string `json:"id" db:"id"`
	ProposalID     string `json:"proposal_id" db:"proposal_id"`
	Seed           int64  `json:"seed" db:"seed"`
	StepsCompleted int    `json:"steps_completed" db:"steps_completed"`
	Complete       bool   `json:"complete" db:"-"`
	CompleteInt    int    `json:"-" db:"complete"`
	Incidents      int    `json:"incidents" db:"incidents"`
	CreatedAt      string `json:"created_at" db:"created_at"`
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunInfo, error) {
	var rows []RunInfo
	err := db.conn.Select(&rows, `
		SELECT r.id, r.proposal_id, r.seed, r.steps_completed, r.complete, r.created_at,
		       (SELECT COUNT(*) FROM incidents i WHERE i.run_id = r.id) AS incidents
		FROM runs r ORDER BY r.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Complete = rows[i].CompleteInt == 1
	}
	return rows, nil
}
