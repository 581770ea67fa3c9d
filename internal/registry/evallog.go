package registry

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// EvalRecord is one row of the evaluation history.
type EvalRecord struct {
	ID            string    `json:"id"`
	ProteinID     string    `json:"protein_id"`
	MeetsCriteria bool      `json:"meets_criteria"`
	Reason        string    `json:"reason,omitempty"`
	Error         string    `json:"error,omitempty"`
	Forced        bool      `json:"forced,omitempty"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}

// EvalLog is an append-only SQLite log of evaluation attempts. The registry
// file keeps only the latest verdict per protein; the log keeps all of
// them, including forced re-evaluations.
type EvalLog struct {
	db      *sql.DB
	entropy *rand.Rand
}

// OpenEvalLog opens or creates the evaluation log at the given path.
func OpenEvalLog(dbPath string) (*EvalLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	l := &EvalLog{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

func (l *EvalLog) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), l.entropy).String()
}

func (l *EvalLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id             TEXT PRIMARY KEY,
		protein_id     TEXT NOT NULL,
		meets_criteria INTEGER NOT NULL,
		reason         TEXT,
		error          TEXT,
		forced         INTEGER NOT NULL DEFAULT 0,
		evaluated_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_evaluations_protein ON evaluations(protein_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_time ON evaluations(evaluated_at DESC);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record appends one evaluation attempt.
func (l *EvalLog) Record(ctx context.Context, rec EvalRecord) error {
	if rec.ID == "" {
		rec.ID = l.newID()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, protein_id, meets_criteria, reason, error, forced, evaluated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ProteinID, boolInt(rec.MeetsCriteria), nullable(rec.Reason),
		nullable(rec.Error), boolInt(rec.Forced), rec.EvaluatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

// History returns recorded attempts newest first. An empty proteinID spans
// every protein; limit <= 0 means 50.
func (l *EvalLog) History(ctx context.Context, proteinID string, limit int) ([]EvalRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, protein_id, meets_criteria, reason, error, forced, evaluated_at
	          FROM evaluations`
	var args []interface{}
	if proteinID != "" {
		query += ` WHERE protein_id = ?`
		args = append(args, strings.ToLower(proteinID))
	}
	query += ` ORDER BY evaluated_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []EvalRecord
	for rows.Next() {
		rec, err := scanEval(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Close closes the log database.
func (l *EvalLog) Close() error {
	return l.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEval(row scanner) (EvalRecord, error) {
	var rec EvalRecord
	var meets, forced int
	var reason, errMsg sql.NullString
	var evaluatedAt string

	err := row.Scan(&rec.ID, &rec.ProteinID, &meets, &reason, &errMsg, &forced, &evaluatedAt)
	if err != nil {
		return rec, err
	}

	rec.MeetsCriteria = meets != 0
	rec.Forced = forced != 0
	if reason.Valid {
		rec.Reason = reason.String
	}
	if errMsg.Valid {
		rec.Error = errMsg.String
	}
	rec.EvaluatedAt, _ = time.Parse(time.RFC3339, evaluatedAt)
	return rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
