/*
Package sqlite provides the SQLite-backed persistence for presence records,
certificate notes and the employee roster.

PURPOSE:
  Implements the persistence half of the local remote-sync adapter and the
  consumption source for the leave-balance validator. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:        Roster records with hire/termination dates
  presence_records: One row per (employee, day); the at-most-one-state
                    invariant is a UNIQUE constraint
  presence_notes:   Medical-certificate protocol numbers, keyed like cells

SPARSE SEMANTICS:
  riposo is the absence of a record. SavePresence with StateRiposo deletes
  the row, so the table mirrors the engine's sparse map.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

SEE ALSO:
  - store/memory: In-memory twin used by tests
  - remote/local.go: Composes this store with the balance validator
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/backoffice/presence-engine/presence"
)

// Store persists presence data in SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) a store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		hire_date TEXT,
		termination_date TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	-- One state per (employee, day). riposo is the absence of a row.
	CREATE TABLE IF NOT EXISTS presence_records (
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		state TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(employee_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_presence_employee_day
		ON presence_records(employee_id, day);
	CREATE INDEX IF NOT EXISTS idx_presence_state
		ON presence_records(employee_id, state);

	CREATE TABLE IF NOT EXISTS presence_notes (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		protocol TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, day)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, emp presence.Employee) error {
	var hire, term sql.NullString
	if emp.HireDate != nil {
		hire = sql.NullString{String: emp.HireDate.String(), Valid: true}
	}
	if emp.TerminationDate != nil {
		term = sql.NullString{String: emp.TerminationDate.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, display_name, hire_date, termination_date, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			hire_date = excluded.hire_date,
			termination_date = excluded.termination_date,
			active = excluded.active`,
		string(emp.ID), emp.DisplayName, hire, term, boolToInt(emp.Active),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListEmployees(ctx context.Context) ([]presence.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, hire_date, termination_date, active
		FROM employees ORDER BY display_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []presence.Employee
	for rows.Next() {
		var (
			emp        presence.Employee
			id         string
			hire, term sql.NullString
			active     int
		)
		if err := rows.Scan(&id, &emp.DisplayName, &hire, &term, &active); err != nil {
			return nil, err
		}
		emp.ID = presence.EmployeeID(id)
		emp.Active = active != 0
		if emp.HireDate, err = scanDay(hire); err != nil {
			return nil, err
		}
		if emp.TerminationDate, err = scanDay(term); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// =============================================================================
// PRESENCE RECORDS
// =============================================================================

// SavePresence upserts one day's state. StateRiposo deletes the row.
func (s *Store) SavePresence(ctx context.Context, emp presence.EmployeeID, day presence.Day, state presence.State) error {
	if state == presence.StateRiposo {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM presence_records WHERE employee_id = ? AND day = ?`,
			string(emp), day.String())
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO presence_records (employee_id, day, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, day) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at`,
		string(emp), day.String(), string(state), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetPresence returns one day's state, StateRiposo when no row exists.
func (s *Store) GetPresence(ctx context.Context, emp presence.EmployeeID, day presence.Day) (presence.State, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM presence_records WHERE employee_id = ? AND day = ?`,
		string(emp), day.String()).Scan(&state)
	if err == sql.ErrNoRows {
		return presence.StateRiposo, nil
	}
	if err != nil {
		return "", err
	}
	return presence.State(state), nil
}

// MonthRecords returns every stored cell of a month keyed by cell.
func (s *Store) MonthRecords(ctx context.Context, year int, month time.Month) (map[presence.CellKey]presence.State, error) {
	from := presence.Day{Year: year, Month: month, Date: 1}
	to := presence.Day{Year: year, Month: month, Date: presence.DaysInMonth(year, month)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, day, state FROM presence_records
		WHERE day >= ? AND day <= ?`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[presence.CellKey]presence.State)
	for rows.Next() {
		var id, dayStr, state string
		if err := rows.Scan(&id, &dayStr, &state); err != nil {
			return nil, err
		}
		day, err := presence.ParseDay(dayStr)
		if err != nil {
			return nil, err
		}
		out[presence.CellKey{Employee: presence.EmployeeID(id), Day: day}] = presence.State(state)
	}
	return out, rows.Err()
}

// SaveAllPresentMonth inserts presente for every empty non-Sunday cell of
// the month, leaving existing records alone. This is the backend side of
// the "bulk imposta" companion write.
func (s *Store) SaveAllPresentMonth(ctx context.Context, year int, month time.Month, emps []presence.EmployeeID) error {
	now := time.Now().UTC().Format(time.RFC3339)
	days := presence.DaysInMonth(year, month)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, emp := range emps {
		for n := 1; n <= days; n++ {
			day := presence.Day{Year: year, Month: month, Date: n}
			if day.IsSunday() {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO presence_records (employee_id, day, state, updated_at)
				VALUES (?, ?, ?, ?)`,
				string(emp), day.String(), string(presence.StatePresente), now); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// =============================================================================
// NOTES
// =============================================================================

func (s *Store) SaveNote(ctx context.Context, emp presence.EmployeeID, day presence.Day, protocol string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO presence_notes (id, employee_id, day, protocol, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, day) DO UPDATE SET protocol = excluded.protocol`,
		uuid.NewString(), string(emp), day.String(), protocol,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetNote(ctx context.Context, emp presence.EmployeeID, day presence.Day) (string, error) {
	var protocol string
	err := s.db.QueryRowContext(ctx,
		`SELECT protocol FROM presence_notes WHERE employee_id = ? AND day = ?`,
		string(emp), day.String()).Scan(&protocol)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return protocol, err
}

// =============================================================================
// BALANCE CONSUMPTION SOURCE
// =============================================================================

// ConsumedDays counts committed days of a leave code in a calendar year.
// Implements balance.ConsumptionSource.
func (s *Store) ConsumedDays(ctx context.Context, emp presence.EmployeeID, code presence.LeaveCode, year int) (decimal.Decimal, error) {
	state, ok := presence.StateForCode(code)
	if !ok {
		return decimal.Zero, nil
	}

	from := presence.Day{Year: year, Month: time.January, Date: 1}
	to := presence.Day{Year: year, Month: time.December, Date: 31}

	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM presence_records
		WHERE employee_id = ? AND state = ? AND day >= ? AND day <= ?`,
		string(emp), string(state), from.String(), to.String()).Scan(&n)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(n), nil
}

// Reset drops all data. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"presence_records", "presence_notes", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func scanDay(v sql.NullString) (*presence.Day, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := presence.ParseDay(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
