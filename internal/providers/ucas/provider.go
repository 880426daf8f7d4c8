package ucas

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ucas-search/internal/devutil"
	"ucas-search/internal/domain"
)

const (
	courseLinkTemplate = "https://digital.ucas.com/coursedisplay/courses/%s?academicYearId=%s"
	aLevelName         = "A level"
)

// Provider adapts the UCAS client into the internal providers.CourseSearcher interface.
type Provider struct {
	C            *Client
	PageSize     int
	AcademicYear string
}

func (p Provider) Name() string { return "ucas" }

// Search fetches every page for term and normalizes the records. When
// pagination fails part way, the records already fetched are still extracted
// and returned alongside the error.
func (p Provider) Search(ctx context.Context, term string) (domain.SearchResult, error) {
	raw, fetchErr := p.C.SearchCourses(ctx, term, p.PageSize)

	report := ExtractAll(raw, p.academicYear())
	res := domain.SearchResult{
		Term:     term,
		Fetched:  len(raw),
		Courses:  report.Courses(),
		Failures: report.Failures(),
	}
	return res, fetchErr
}

func (p Provider) academicYear() string {
	if p.AcademicYear != "" {
		return p.AcademicYear
	}
	if p.C != nil && p.C.Filters.AcademicYearID != "" {
		return p.C.Filters.AcademicYearID
	}
	return DefaultAcademicYear
}

/* -------- Extraction -------- */

// ExtractResult is the outcome for one raw record: either its courses or the
// reason it could not be read.
type ExtractResult struct {
	Index   int // 1-based
	Courses []domain.Course
	Err     error
}

type ExtractReport struct {
	Results []ExtractResult
}

func (r ExtractReport) Courses() []domain.Course {
	var out []domain.Course
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res.Courses...)
		}
	}
	return out
}

func (r ExtractReport) Failures() []domain.ExtractFailure {
	var out []domain.ExtractFailure
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, domain.ExtractFailure{Index: res.Index, Reason: res.Err.Error()})
		}
	}
	return out
}

// ExtractAll decodes and extracts each raw record independently.
func ExtractAll(raw []json.RawMessage, academicYear string) ExtractReport {
	report := ExtractReport{Results: make([]ExtractResult, 0, len(raw))}
	for i, rec := range raw {
		courses, err := ExtractRecord(rec, academicYear)
		if err != nil {
			err = fmt.Errorf("%w (%s)", err, devutil.Summarize(rec, "id", "courseTitle"))
		}
		report.Results = append(report.Results, ExtractResult{
			Index:   i + 1,
			Courses: courses,
			Err:     err,
		})
	}
	return report
}

func ExtractRecord(rec json.RawMessage, academicYear string) ([]domain.Course, error) {
	var c Course
	if err := json.Unmarshal(rec, &c); err != nil {
		return nil, fmt.Errorf("ucas: decode course record: %w", err)
	}
	return Extract(c, academicYear), nil
}

// Extract maps one course into one domain.Course per option.
func Extract(c Course, academicYear string) []domain.Course {
	if len(c.Options) == 0 {
		return nil
	}

	link := fmt.Sprintf(courseLinkTemplate, string(c.ID), academicYear)

	out := make([]domain.Course, 0, len(c.Options))
	for _, opt := range c.Options {
		reqs := opt.AcademicEntryRequirements
		aLevelReq, aLevelOffer := aLevelRequirement(reqs.Qualifications)

		out = append(out, domain.Course{
			CourseName:        c.CourseTitle,
			UniversityName:    c.Provider.Name,
			Degree:            opt.OutcomeQualification.Caption,
			Duration:          formatDuration(opt.Duration),
			EntryRequirements: entryRequirementsSummary(reqs.Qualifications),
			ALevelRequirement: aLevelReq,
			UCASTariffPoints:  reqs.UCASTariffPointsMin.IntPtr(),
			CourseLink:        link,
			RawALevelOffer:    aLevelOffer,
		})
	}
	return out
}

func formatDuration(d *Duration) string {
	if d == nil || !d.Quantity.Valid || d.Quantity.Value == 0 {
		return ""
	}
	qty := strconv.FormatFloat(d.Quantity.Value, 'f', -1, 64)
	return qty + " " + d.DurationType.Caption
}

// aLevelRequirement returns the display requirement and raw offer of the first
// "A level" qualification, or nil and "" when there is none.
func aLevelRequirement(quals []Qualification) (*string, string) {
	for _, q := range quals {
		if q.QualificationName != aLevelName {
			continue
		}
		offer := q.Summary.Offer
		req := "A Level: " + offer
		if q.Summary.Requirements != "" {
			req += " (" + q.Summary.Requirements + ")"
		}
		return &req, offer
	}
	return nil, ""
}

func entryRequirementsSummary(quals []Qualification) string {
	parts := make([]string, 0, len(quals))
	for _, q := range quals {
		if q.NotAccepted {
			continue
		}
		offer, reqs := q.Summary.Offer, q.Summary.Requirements
		if offer == "" && reqs == "" {
			continue
		}
		s := q.QualificationName + ": " + offer
		if reqs != "" {
			s += " (" + reqs + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}
