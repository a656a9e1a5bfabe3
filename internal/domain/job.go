package domain

import "fmt"

type Job struct {
	ID           int
	Title        string
	Descriptions *DescriptionStore
}

// JobSeed is the construction-time shape of a job.
type JobSeed struct {
	ID           int
	Title        string
	Descriptions []Description
}

// Catalog is the ordered, fixed set of jobs played in a session. Only the
// description stores inside the jobs change after construction.
type Catalog struct {
	jobs []*Job
	byID map[int]*Job
}

func NewCatalog(seeds []JobSeed) (*Catalog, error) {
	if len(seeds) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		jobs: make([]*Job, 0, len(seeds)),
		byID: make(map[int]*Job, len(seeds)),
	}

	for _, seed := range seeds {
		if _, exists := c.byID[seed.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateJob, seed.ID)
		}
		job := &Job{
			ID:           seed.ID,
			Title:        seed.Title,
			Descriptions: NewDescriptionStore(seed.ID, seed.Descriptions),
		}
		c.jobs = append(c.jobs, job)
		c.byID[seed.ID] = job
	}

	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.jobs)
}

func (c *Catalog) At(idx int) (*Job, error) {
	if idx < 0 || idx >= len(c.jobs) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, idx, len(c.jobs))
	}
	return c.jobs[idx], nil
}

func (c *Catalog) Find(jobID int) (*Job, bool) {
	job, ok := c.byID[jobID]
	return job, ok
}
