package domain

// DefaultJobs returns the catalog a new session is seeded with when the
// caller does not bring its own.
func DefaultJobs() []JobSeed {
	return []JobSeed{
		{
			ID:    1,
			Title: "Software Engineer",
			Descriptions: []Description{
				{ID: "1-1", Text: "Writes code and fixes bugs", Contributor: "Alex", Votes: 5},
				{ID: "1-2", Text: "Turns coffee into code", Contributor: "Jamie", Votes: 10},
				{ID: "1-3", Text: "Builds digital solutions to real-world problems", Contributor: "Taylor", Votes: 7},
			},
		},
		{
			ID:    2,
			Title: "Graphic Designer",
			Descriptions: []Description{
				{ID: "2-1", Text: "Creates visual concepts using computer software", Contributor: "Jordan", Votes: 8},
				{ID: "2-2", Text: "Makes things look pretty", Contributor: "Casey", Votes: 4},
				{ID: "2-3", Text: "Communicates ideas through images and layouts", Contributor: "Riley", Votes: 6},
			},
		},
	}
}
