package params

// #region imports
import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS scenario_params (
	scenario_code TEXT PRIMARY KEY,
	temperature   REAL NOT NULL,
	max_tokens    INTEGER NOT NULL,
	top_p         REAL NOT NULL,
	best_score    REAL NOT NULL,
	success_count INTEGER NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// #endregion schema

// #region record

// Record is one persisted scenario row: the best-known config for a failure
// scenario and how often a config has been learned under it.
type Record struct {
	ScenarioCode string
	Config       faq.ParameterConfig
	BestScore    float64
	SuccessCount int
	UpdatedAt    time.Time
}

// #endregion record

// #region store-struct

// Store persists per-scenario generation parameters in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	// Single connection: sqlite serializes writers anyway, and this keeps
	// concurrent upserts from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.Wrap(err, "pragma")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. audit).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store-struct

// #region get-best

// GetBest returns the learned config for a scenario code, or ok=false when
// none has been stored yet.
func (s *Store) GetBest(ctx context.Context, code string) (faq.ParameterConfig, bool, error) {
	var cfg faq.ParameterConfig
	err := s.db.QueryRowContext(ctx,
		`SELECT temperature, max_tokens, top_p FROM scenario_params WHERE scenario_code = ?`,
		code,
	).Scan(&cfg.Temperature, &cfg.MaxTokens, &cfg.TopP)
	if err == sql.ErrNoRows {
		return faq.ParameterConfig{}, false, nil
	}
	if err != nil {
		return faq.ParameterConfig{}, false, errors.Wrapf(err, "get best for %s", code)
	}
	return cfg, true, nil
}

// #endregion get-best

// #region upsert

// Upsert applies the keep-better rule in a single conflict-clause statement
// so concurrent learn calls for the same code cannot lose the higher score
// or a success_count increment: insert with success_count=1; on conflict
// always increment success_count, and replace the config, best_score, and
// updated_at only when the new score is strictly greater than the stored one.
func (s *Store) Upsert(ctx context.Context, code string, cfg faq.ParameterConfig, score float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scenario_params
			(scenario_code, temperature, max_tokens, top_p, best_score, success_count, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(scenario_code) DO UPDATE SET
			temperature   = CASE WHEN excluded.best_score > scenario_params.best_score THEN excluded.temperature ELSE scenario_params.temperature END,
			max_tokens    = CASE WHEN excluded.best_score > scenario_params.best_score THEN excluded.max_tokens ELSE scenario_params.max_tokens END,
			top_p         = CASE WHEN excluded.best_score > scenario_params.best_score THEN excluded.top_p ELSE scenario_params.top_p END,
			updated_at    = CASE WHEN excluded.best_score > scenario_params.best_score THEN excluded.updated_at ELSE scenario_params.updated_at END,
			best_score    = CASE WHEN excluded.best_score > scenario_params.best_score THEN excluded.best_score ELSE scenario_params.best_score END,
			success_count = scenario_params.success_count + 1`,
		code, cfg.Temperature, cfg.MaxTokens, cfg.TopP, score, now,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert %s", code)
	}
	return nil
}

// #endregion upsert

// #region ranked

// Ranked lists all scenario records ordered best first: highest score, then
// highest success count, then most recent update.
func (s *Store) Ranked(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scenario_code, temperature, max_tokens, top_p, best_score, success_count, updated_at
		FROM scenario_params
		ORDER BY best_score DESC, success_count DESC, updated_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list scenario params")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var updatedStr string
		if err := rows.Scan(
			&rec.ScenarioCode,
			&rec.Config.Temperature, &rec.Config.MaxTokens, &rec.Config.TopP,
			&rec.BestScore, &rec.SuccessCount, &updatedStr,
		); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion ranked
