package audit

// #region imports
import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/orchestrator"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS generation_audit (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id    TEXT NOT NULL,
	prompt        TEXT NOT NULL,
	success       INTEGER NOT NULL,
	score         REAL NOT NULL,
	level         TEXT NOT NULL,
	attempt_count INTEGER NOT NULL,
	attempts_json TEXT NOT NULL,
	warning       TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region entry

// Entry is one persisted audit row.
type Entry struct {
	RequestID    string
	Prompt       string
	Success      bool
	Score        float64
	Level        string
	AttemptCount int
	AttemptsJSON string
	Warning      string
	CreatedAt    time.Time
}

// #endregion entry

// #region recorder

// Recorder appends request outcomes to the generation_audit table.
// Append is fire-and-forget: failures are logged and swallowed, never
// surfaced to the caller.
type Recorder struct {
	db  *sql.DB
	log *zap.Logger
}

// NewRecorder initializes the audit table and returns a recorder.
func NewRecorder(db *sql.DB, log *zap.Logger) (*Recorder, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "migrate audit table")
	}
	return &Recorder{db: db, log: log}, nil
}

// #endregion recorder

// #region append

// Append persists the attempt log for a finished request.
func (r *Recorder) Append(requestID, prompt string, res orchestrator.Result) {
	attemptsJSON, err := json.Marshal(res.Attempts)
	if err != nil {
		r.log.Warn("audit append skipped", zap.String("request_id", requestID), zap.Error(err))
		return
	}

	success := 0
	if res.Success {
		success = 1
	}

	_, err = r.db.Exec(`
		INSERT INTO generation_audit
			(request_id, prompt, success, score, level, attempt_count, attempts_json, warning, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requestID,
		prompt,
		success,
		res.Quality.Overall,
		string(res.Quality.Level),
		res.AttemptCount,
		string(attemptsJSON),
		nullIfEmpty(res.Warning),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		r.log.Warn("audit append failed", zap.String("request_id", requestID), zap.Error(err))
	}
}

// #endregion append

// #region recent

// Recent returns the latest n audit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT request_id, prompt, success, score, level, attempt_count, attempts_json, warning, created_at
		FROM generation_audit ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, errors.Wrap(err, "query audit")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var success int
		var warning sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RequestID, &e.Prompt, &success, &e.Score, &e.Level,
			&e.AttemptCount, &e.AttemptsJSON, &warning, &createdStr); err != nil {
			return nil, errors.Wrap(err, "scan audit row")
		}
		e.Success = success == 1
		if warning.Valid {
			e.Warning = warning.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion recent

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
