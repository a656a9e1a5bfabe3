package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL,
		description_count INTEGER NOT NULL,
		total_votes INTEGER NOT NULL,
		jobs_json JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_session_id ON results(session_id);
	CREATE INDEX IF NOT EXISTS idx_results_completed_at ON results(completed_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) SaveResults(ctx context.Context, record *ResultsRecord) error {
	jobsJSON, err := json.Marshal(record.Jobs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO results (id, session_id, completed_at, description_count, total_votes, jobs_json)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.SessionID,
		record.CompletedAt,
		record.descriptionCount(),
		record.totalVotes(),
		jobsJSON,
	)

	return err
}

func (r *PostgresRepository) GetResults(ctx context.Context, id string) (*ResultsRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM results WHERE id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListRecent(ctx context.Context, since time.Time) ([]ResultsRecord, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM results
		WHERE completed_at >= $1
		ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func (r *PostgresRepository) GetStats(ctx context.Context) (*ResultsStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(description_count) as descriptions,
			SUM(total_votes) as votes
		FROM results
	`

	return scanStats(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
