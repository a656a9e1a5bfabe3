package domain

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

func (d Direction) delta() int {
	switch d {
	case Up:
		return 1
	case Down:
		return -1
	default:
		return 0
	}
}

type Description struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Contributor string `json:"contributor"`
	Votes       int    `json:"votes"`
}

// DescriptionStore holds the descriptions of a single job in insertion order.
// Every mutation swaps in a new slice, so slices and iterators handed out
// earlier keep seeing the state they were created from.
type DescriptionStore struct {
	jobID int
	items []Description
	newID func() string
}

func NewDescriptionStore(jobID int, initial []Description) *DescriptionStore {
	s := &DescriptionStore{
		jobID: jobID,
		items: slices.Clone(initial),
	}
	s.newID = func() string {
		return fmt.Sprintf("%d-%s", s.jobID, uuid.NewString())
	}
	return s
}

func (s *DescriptionStore) Len() int {
	return len(s.items)
}

// All returns the descriptions in insertion order.
func (s *DescriptionStore) All() []Description {
	return slices.Clone(s.items)
}

// Vote moves the votes of the matching description by one. Unknown ids are
// ignored rather than reported, callers wanting strict semantics check first.
func (s *DescriptionStore) Vote(id string, dir Direction) bool {
	delta := dir.delta()
	if delta == 0 {
		return false
	}

	idx := s.index(id)
	if idx < 0 {
		return false
	}

	next := slices.Clone(s.items)
	next[idx].Votes += delta
	s.items = next
	return true
}

// Add appends a description with a fresh id and zero votes. Text and
// contributor must be non-empty; trimming is left to the caller.
func (s *DescriptionStore) Add(text, contributor string) (Description, error) {
	if text == "" {
		return Description{}, &ValidationError{Field: "text"}
	}
	if contributor == "" {
		return Description{}, &ValidationError{Field: "contributor"}
	}

	d := Description{
		ID:          s.newID(),
		Text:        text,
		Contributor: contributor,
	}

	next := make([]Description, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.items = append(next, d)
	return d, nil
}

func (s *DescriptionStore) Remove(id string) bool {
	idx := s.index(id)
	if idx < 0 {
		return false
	}

	s.items = slices.Delete(slices.Clone(s.items), idx, idx+1)
	return true
}

// Ranked yields descriptions by votes descending, keeping insertion order
// between equal votes. The sequence is bound to the state at call time and
// can be ranged over any number of times.
func (s *DescriptionStore) Ranked() iter.Seq[Description] {
	items := s.items
	return func(yield func(Description) bool) {
		ranked := slices.Clone(items)
		slices.SortStableFunc(ranked, byVotesDesc)
		for _, d := range ranked {
			if !yield(d) {
				return
			}
		}
	}
}

func (s *DescriptionStore) index(id string) int {
	return slices.IndexFunc(s.items, func(d Description) bool {
		return d.ID == id
	})
}

func byVotesDesc(a, b Description) int {
	return cmp.Compare(b.Votes, a.Votes)
}
