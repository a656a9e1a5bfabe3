package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	repo := &SQLiteRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		completed_at DATETIME NOT NULL,
		description_count INTEGER NOT NULL,
		total_votes INTEGER NOT NULL,
		jobs_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_session_id ON results(session_id);
	CREATE INDEX IF NOT EXISTS idx_results_completed_at ON results(completed_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteRepository) SaveResults(ctx context.Context, record *ResultsRecord) error {
	jobsJSON, err := json.Marshal(record.Jobs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO results (id, session_id, completed_at, description_count, total_votes, jobs_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.SessionID,
		record.CompletedAt.UTC(),
		record.descriptionCount(),
		record.totalVotes(),
		string(jobsJSON),
	)

	return err
}

func (r *SQLiteRepository) GetResults(ctx context.Context, id string) (*ResultsRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM results WHERE id = ?`
	return scanRecord(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, since time.Time) ([]ResultsRecord, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM results
		WHERE completed_at >= ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func (r *SQLiteRepository) GetStats(ctx context.Context) (*ResultsStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(description_count) as descriptions,
			SUM(total_votes) as votes
		FROM results
	`

	return scanStats(r.db.QueryRowContext(ctx, query))
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
