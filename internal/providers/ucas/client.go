package ucas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ucas-search/internal/httpx"
)

const (
	DefaultBaseURL           = "https://services.ucas.com/search/api/v2/courses/search"
	DefaultAcademicYear      = "2026"
	DefaultPageSize          = 50
	DefaultPageDelay         = time.Second
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DestinationUndergraduate = "Undergraduate"
	ViewTypeCourse           = "course"
)

// courseFields is the response field selection sent as the "fields" query parameter.
const courseFields = "courses(id,academicYearId,applicationCode,subjects(caption),courseTitle," +
	"routingData(destination(caption),scheme(caption))," +
	"provider(id,name,logoUrl,providerSort,institutionCode)," +
	"options(id,outcomeQualification(caption),duration,durationRange(min,max),studyMode,startDate,location," +
	"academicEntryRequirements(qualifications,ucasTariffPointsMin,ucasTariffPointsMax," +
	"ucasTariffPointsDisplayMin,ucasTariffPointsDisplayMax),features))," +
	"information(postcodeLookup,courseCounts(perProviderCourseCountsByDestination,totalCourseCount," +
	"totalProviderCount,ucasTeacherTrainingProvider,degreeApprenticeship,higherTechnicalQualifications," +
	"providers,schemes,subjects,startDates,studyTypes,attendanceTypes,acceleratedDegrees,qualifications," +
	"entryPoints,allFilters),paging)"

// ErrBadResponse marks a 2xx page whose body is not the expected search JSON.
var ErrBadResponse = errors.New("ucas: unexpected response")

type Client struct {
	BaseURL   string
	UserAgent string
	Filters   Filters
	ViewType  string
	// PageDelay is slept between successful pages.
	PageDelay time.Duration
	HTTP      *http.Client
	Log       *slog.Logger
}

func New(baseURL, academicYear string) *Client {
	return &Client{
		BaseURL:   baseURL,
		UserAgent: DefaultUserAgent,
		Filters:   DefaultFilters(academicYear),
		ViewType:  ViewTypeCourse,
		PageDelay: DefaultPageDelay,
		HTTP:      &http.Client{},
		Log:       slog.Default(),
	}
}

/* -------- API -------- */

// SearchCourses fetches pages 1..n for term until the accumulated record count
// reaches the reported total or a page comes back empty. A failed page stops
// the search: the records gathered so far are returned along with the error.
func (c *Client) SearchCourses(ctx context.Context, term string, pageSize int) ([]json.RawMessage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []json.RawMessage
	for page := 1; ; page++ {
		resp, err := c.SearchPage(ctx, term, page, pageSize)
		if err != nil {
			return all, fmt.Errorf("ucas search failed at page=%d: %w", page, err)
		}

		if len(resp.Courses) == 0 {
			break
		}

		all = append(all, resp.Courses...)
		total := resp.Information.CourseCounts.TotalCourseCount
		c.logger().Info("fetched page", "page", page, "records", len(resp.Courses), "total", total)

		if len(all) >= total {
			break
		}

		if err := sleepCtx(ctx, c.PageDelay); err != nil {
			return all, fmt.Errorf("ucas: search interrupted after page=%d: %w", page, err)
		}
	}

	c.logger().Info("search finished", "term", term, "records", len(all))
	return all, nil
}

// SearchPage issues one search request. Non-2xx responses surface as
// *httpx.HTTPError; undecodable bodies wrap ErrBadResponse.
func (c *Client) SearchPage(ctx context.Context, term string, page, pageSize int) (*SearchResponse, error) {
	payload, err := json.Marshal(c.buildRequest(term, page, pageSize))
	if err != nil {
		return nil, fmt.Errorf("ucas: marshal search request: %w", err)
	}

	var out SearchResponse
	err = httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL(), bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("ucas: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", "br, gzip")
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		return req, nil
	}, &out)

	var derr *httpx.DecodeError
	if errors.As(err, &derr) {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, derr)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) buildRequest(term string, page, pageSize int) SearchRequest {
	viewType := c.ViewType
	if viewType == "" {
		viewType = ViewTypeCourse
	}
	return SearchRequest{
		SearchTerm: term,
		Filters:    c.Filters,
		Options: SearchOptions{
			Sort: []string{},
			Paging: Paging{
				PageNumber: page,
				PageSize:   pageSize,
			},
			ViewType: viewType,
		},
		InClearing: false,
	}
}

func (c *Client) searchURL() string {
	return c.BaseURL + "?fields=" + courseFields
}

func (c *Client) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default()
	}
	return c.Log
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
