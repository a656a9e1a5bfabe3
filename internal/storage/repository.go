package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("results not found")

type Repository interface {
	SaveResults(ctx context.Context, record *ResultsRecord) error

	GetResults(ctx context.Context, id string) (*ResultsRecord, error)

	ListRecent(ctx context.Context, since time.Time) ([]ResultsRecord, error)

	GetStats(ctx context.Context) (*ResultsStats, error)

	Close() error
}

type ResultsStats struct {
	TotalGames        int     `json:"totalGames"`
	TotalDescriptions int     `json:"totalDescriptions"`
	TotalVotes        int     `json:"totalVotes"`
	AvgDescriptions   float64 `json:"avgDescriptionsPerGame"`
}

// Open returns the repository for driver, or nil when driver is empty.
func Open(driver, dsn string) (Repository, error) {
	switch driver {
	case "":
		return nil, nil
	case "sqlite":
		repo, err := NewSQLiteRepository(dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "postgres":
		repo, err := NewPostgresRepository(dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

const selectColumns = `id, session_id, completed_at, jobs_json`

func scanResults(rows *sql.Rows) ([]ResultsRecord, error) {
	var records []ResultsRecord

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ResultsRecord, error) {
	var record ResultsRecord
	var jobsJSON []byte

	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.CompletedAt,
		&jobsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(jobsJSON, &record.Jobs); err != nil {
		return nil, fmt.Errorf("decode jobs of %s: %w", record.ID, err)
	}
	return &record, nil
}

func scanStats(row *sql.Row) (*ResultsStats, error) {
	var stats ResultsStats
	var descriptions, votes sql.NullInt64

	if err := row.Scan(&stats.TotalGames, &descriptions, &votes); err != nil {
		return nil, err
	}

	if descriptions.Valid {
		stats.TotalDescriptions = int(descriptions.Int64)
	}
	if votes.Valid {
		stats.TotalVotes = int(votes.Int64)
	}
	if stats.TotalGames > 0 {
		stats.AvgDescriptions = float64(stats.TotalDescriptions) / float64(stats.TotalGames)
	}
	return &stats, nil
}
