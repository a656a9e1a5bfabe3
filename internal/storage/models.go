package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/hperssn/guessgame/internal/domain"
)

// ResultsRecord is the archived outcome of one completed play-through.
type ResultsRecord struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"sessionId"`
	CompletedAt time.Time         `json:"completedAt"`
	Jobs        []JobResultRecord `json:"jobs"`
}

type JobResultRecord struct {
	JobID        int                 `json:"jobId"`
	Title        string              `json:"title"`
	Descriptions []DescriptionRecord `json:"descriptions"`
}

type DescriptionRecord struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Contributor string `json:"contributor"`
	Votes       int    `json:"votes"`
	Rank        int    `json:"rank"` // 1-based position at completion time
}

// FromSnapshot converts the results of a completed snapshot into a record.
func FromSnapshot(snap domain.Snapshot, completedAt time.Time) *ResultsRecord {
	jobs := make([]JobResultRecord, len(snap.Results))
	for i, job := range snap.Results {
		descs := make([]DescriptionRecord, len(job.Descriptions))
		for j, d := range job.Descriptions {
			descs[j] = DescriptionRecord{
				ID:          d.ID,
				Text:        d.Text,
				Contributor: d.Contributor,
				Votes:       d.Votes,
				Rank:        j + 1,
			}
		}
		jobs[i] = JobResultRecord{
			JobID:        job.JobID,
			Title:        job.Title,
			Descriptions: descs,
		}
	}

	return &ResultsRecord{
		ID:          uuid.New().String(),
		SessionID:   snap.SessionID,
		CompletedAt: completedAt,
		Jobs:        jobs,
	}
}

func (r *ResultsRecord) descriptionCount() int {
	n := 0
	for _, job := range r.Jobs {
		n += len(job.Descriptions)
	}
	return n
}

func (r *ResultsRecord) totalVotes() int {
	n := 0
	for _, job := range r.Jobs {
		for _, d := range job.Descriptions {
			n += d.Votes
		}
	}
	return n
}
