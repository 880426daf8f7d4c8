package domain

// Course is one admission option of one catalog course, normalized from the
// raw search record. A raw course with N options yields N Course values.
// Values are built once by the extractor and never mutated afterwards.
type Course struct {
	CourseName     string
	UniversityName string
	Degree         string
	Duration       string // "3 Years", empty when unknown

	// "<qualification>: <offer> (<requirements>)" entries joined by "; ".
	EntryRequirements string

	// nil when the option lists no "A level" qualification.
	ALevelRequirement *string
	// nil when the provider gives no tariff minimum.
	UCASTariffPoints *int

	CourseLink string

	// Offer text as published ("A*AA"); only used for ranking.
	RawALevelOffer string
}

// HasALevelOffer reports whether the course belongs to the A-Level ranking group.
func (c Course) HasALevelOffer() bool {
	return c.ALevelRequirement != nil && c.RawALevelOffer != ""
}

// TariffOrZero returns the tariff minimum, treating an absent value as 0.
func (c Course) TariffOrZero() int {
	if c.UCASTariffPoints == nil {
		return 0
	}
	return *c.UCASTariffPoints
}

// ExtractFailure describes a raw search record that could not be normalized.
// Index is the 1-based position of the record in the fetched batch.
type ExtractFailure struct {
	Index  int
	Reason string
}

// SearchResult is everything one search produced before ranking.
type SearchResult struct {
	Term     string
	Fetched  int // raw records returned by the catalog
	Courses  []Course
	Failures []ExtractFailure
}
