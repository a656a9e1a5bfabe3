package domain

import "slices"

// JobView is what a guesser sees of a job: the title stays hidden.
type JobView struct {
	ID           int           `json:"id"`
	Descriptions []Description `json:"descriptions"`
}

type JobResult struct {
	JobID        int           `json:"jobId"`
	Title        string        `json:"title"`
	Descriptions []Description `json:"descriptions"`
}

// Snapshot is a point-in-time copy of a session. It shares no memory with
// the session it was taken from.
type Snapshot struct {
	SessionID      string      `json:"sessionId"`
	Current        JobView     `json:"current"`
	CurrentIndex   int         `json:"currentIndex"`
	QuestionNumber int         `json:"questionNumber"`
	TotalJobs      int         `json:"totalJobs"`
	Complete       bool        `json:"isComplete"`
	Timer          TimerState  `json:"timer"`
	Results        []JobResult `json:"results,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	job := s.currentJob()

	snap := Snapshot{
		SessionID: s.ID,
		Current: JobView{
			ID:           job.ID,
			Descriptions: rankedDescriptions(job),
		},
		CurrentIndex:   s.currentIdx,
		QuestionNumber: s.currentIdx + 1,
		TotalJobs:      s.catalog.Len(),
		Complete:       s.completed,
		Timer:          s.timer.State(),
	}
	if s.completed {
		snap.Results = s.results()
	}
	return snap
}

// rankedDescriptions never returns nil so an empty job encodes as [].
func rankedDescriptions(job *Job) []Description {
	ranked := slices.Collect(job.Descriptions.Ranked())
	if ranked == nil {
		return []Description{}
	}
	return ranked
}
