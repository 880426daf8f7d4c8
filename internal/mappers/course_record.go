package mappers

import "ucas-search/internal/domain"

// CourseRecord is the on-disk shape of a ranked course. Optional fields are
// pointers without omitempty so absent values are written as null.
type CourseRecord struct {
	CourseName        string  `json:"course_name"`
	UniversityName    string  `json:"university_name"`
	Degree            string  `json:"degree"`
	Duration          string  `json:"duration"`
	EntryRequirements string  `json:"entry_requirements"`
	ALevelRequirement *string `json:"a_level_requirement"`
	UCASTariffPoints  *int    `json:"ucas_tariff_points"`
	CourseLink        string  `json:"course_link"`
	RawALevelOffer    string  `json:"raw_a_level_offer"`
}

func ToRecord(c domain.Course) CourseRecord {
	return CourseRecord{
		CourseName:        c.CourseName,
		UniversityName:    c.UniversityName,
		Degree:            c.Degree,
		Duration:          c.Duration,
		EntryRequirements: c.EntryRequirements,
		ALevelRequirement: copyStr(c.ALevelRequirement),
		UCASTariffPoints:  copyInt(c.UCASTariffPoints),
		CourseLink:        c.CourseLink,
		RawALevelOffer:    c.RawALevelOffer,
	}
}

func FromRecord(r CourseRecord) domain.Course {
	return domain.Course{
		CourseName:        r.CourseName,
		UniversityName:    r.UniversityName,
		Degree:            r.Degree,
		Duration:          r.Duration,
		EntryRequirements: r.EntryRequirements,
		ALevelRequirement: copyStr(r.ALevelRequirement),
		UCASTariffPoints:  copyInt(r.UCASTariffPoints),
		CourseLink:        r.CourseLink,
		RawALevelOffer:    r.RawALevelOffer,
	}
}

func ToRecords(courses []domain.Course) []CourseRecord {
	out := make([]CourseRecord, 0, len(courses))
	for _, c := range courses {
		out = append(out, ToRecord(c))
	}
	return out
}

func FromRecords(records []CourseRecord) []domain.Course {
	out := make([]domain.Course, 0, len(records))
	for _, r := range records {
		out = append(out, FromRecord(r))
	}
	return out
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
