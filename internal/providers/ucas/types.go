package ucas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

/* -------- Request -------- */

// Filters is the fixed facet set sent with every search. Only the academic
// year and the destination are set; every other facet stays empty or false so
// the search term alone drives the result set.
type Filters struct {
	AcademicYearID                string   `json:"academicYearId"`
	Destinations                  []string `json:"destinations"`
	Providers                     []string `json:"providers"`
	Schemes                       []string `json:"schemes"`
	UCASTeacherTrainingProvider   bool     `json:"ucasTeacherTrainingProvider"`
	DegreeApprenticeship          bool     `json:"degreeApprenticeship"`
	StudyTypes                    []string `json:"studyTypes"`
	Subjects                      []string `json:"subjects"`
	Qualifications                []string `json:"qualifications"`
	AttendanceTypes               []string `json:"attendanceTypes"`
	AcceleratedDegrees            bool     `json:"acceleratedDegrees"`
	EntryPoint                    *string  `json:"entryPoint"`
	Regions                       []string `json:"regions"`
	Vacancy                       string   `json:"vacancy"`
	StartDates                    []string `json:"startDates"`
	HigherTechnicalQualifications bool     `json:"higherTechnicalQualifications"`
}

// DefaultFilters returns the undergraduate filter set for academicYear.
// List facets are non-nil so they serialize as [] rather than null.
func DefaultFilters(academicYear string) Filters {
	return Filters{
		AcademicYearID:  academicYear,
		Destinations:    []string{DestinationUndergraduate},
		Providers:       []string{},
		Schemes:         []string{},
		StudyTypes:      []string{},
		Subjects:        []string{},
		Qualifications:  []string{},
		AttendanceTypes: []string{},
		Regions:         []string{},
		StartDates:      []string{},
	}
}

type Paging struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

type SearchOptions struct {
	Sort     []string `json:"sort"`
	Paging   Paging   `json:"paging"`
	ViewType string   `json:"viewType"`
}

type SearchRequest struct {
	SearchTerm string        `json:"searchTerm"`
	Filters    Filters       `json:"filters"`
	Options    SearchOptions `json:"options"`
	InClearing bool          `json:"inClearing"`
}

/* -------- Response -------- */

// SearchResponse keeps course records raw so each one is decoded on its own
// during extraction; one malformed record must not fail the page.
type SearchResponse struct {
	Courses     []json.RawMessage `json:"courses"`
	Information struct {
		CourseCounts struct {
			TotalCourseCount int `json:"totalCourseCount"`
		} `json:"courseCounts"`
	} `json:"information"`
}

type Course struct {
	ID          FlexString `json:"id"`
	CourseTitle string     `json:"courseTitle"`
	Provider    struct {
		ID   FlexString `json:"id"`
		Name string     `json:"name"`
	} `json:"provider"`
	Options []Option `json:"options"`
}

type Option struct {
	ID                   FlexString `json:"id"`
	OutcomeQualification struct {
		Caption string `json:"caption"`
	} `json:"outcomeQualification"`
	Duration                  *Duration         `json:"duration"`
	AcademicEntryRequirements EntryRequirements `json:"academicEntryRequirements"`
}

type Duration struct {
	Quantity     FlexNumber `json:"quantity"`
	DurationType struct {
		Caption string `json:"caption"`
	} `json:"durationType"`
}

type EntryRequirements struct {
	Qualifications      []Qualification `json:"qualifications"`
	UCASTariffPointsMin FlexNumber      `json:"ucasTariffPointsMin"`
	UCASTariffPointsMax FlexNumber      `json:"ucasTariffPointsMax"`
}

type Qualification struct {
	QualificationName string `json:"qualificationName"`
	NotAccepted       bool   `json:"notAccepted"`
	Summary           struct {
		Offer        string `json:"offer"`
		Requirements string `json:"requirements"`
	} `json:"summary"`
}

// FlexString puede venir como:
// - "12ab-..." (string)
// - 12345 (number)
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}

	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("ucas: expected string or number, got %s", b)
	}
	*s = FlexString(n.String())
	return nil
}

// FlexNumber is an optional number that may also arrive as a numeric string.
// Valid is false for null, missing or empty values.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = FlexNumber{}
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = FlexNumber{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("ucas: invalid number %s: %w", b, err)
	}
	*n = FlexNumber{Value: v, Valid: true}
	return nil
}

// IntPtr returns the value truncated to int, or nil when absent.
func (n FlexNumber) IntPtr() *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Value)
	return &v
}
