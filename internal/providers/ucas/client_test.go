package ucas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ucas-search/internal/httpx"
)

func newTestClient(url string) *Client {
	c := New(url, DefaultAcademicYear)
	c.PageDelay = 0
	return c
}

func page(n, total int) SearchResponse {
	var resp SearchResponse
	for i := 0; i < n; i++ {
		resp.Courses = append(resp.Courses, json.RawMessage(fmt.Sprintf(`{"id":"c-%d"}`, i)))
	}
	resp.Information.CourseCounts.TotalCourseCount = total
	return resp
}

func TestNew(t *testing.T) {
	c := New("https://example.com/search", "2027")

	require.Equal(t, "https://example.com/search", c.BaseURL)
	require.Equal(t, "2027", c.Filters.AcademicYearID)
	require.Equal(t, ViewTypeCourse, c.ViewType)
	require.Equal(t, DefaultPageDelay, c.PageDelay)
	require.NotNil(t, c.HTTP)
}

func TestSearchCoursesPaginatesUntilTotal(t *testing.T) {
	sizes := []int{50, 50, 20}
	var pages []int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		json.NewDecoder(r.Body).Decode(&req)
		pages = append(pages, req.Options.Paging.PageNumber)

		n := sizes[req.Options.Paging.PageNumber-1]
		json.NewEncoder(w).Encode(page(n, 120))
	}))
	defer srv.Close()

	all, err := newTestClient(srv.URL).SearchCourses(context.Background(), "Computer Science", 50)
	require.NoError(t, err)
	require.Len(t, all, 120)
	require.Equal(t, []int{1, 2, 3}, pages)
}

func TestSearchCoursesStopsOnEmptyPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(page(10, 500))
			return
		}
		json.NewEncoder(w).Encode(page(0, 500))
	}))
	defer srv.Close()

	all, err := newTestClient(srv.URL).SearchCourses(context.Background(), "Law", 10)
	require.NoError(t, err)
	require.Len(t, all, 10)
	require.Equal(t, 2, calls)
}

func TestSearchCoursesMissingInformationStopsAfterFirstPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"courses":[{"id":"a"},{"id":"b"}]}`))
	}))
	defer srv.Close()

	all, err := newTestClient(srv.URL).SearchCourses(context.Background(), "Law", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 1, calls)
}

func TestSearchCoursesTransportFailureKeepsPartialResults(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(page(5, 15))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("oops"))
	}))
	defer srv.Close()

	all, err := newTestClient(srv.URL).SearchCourses(context.Background(), "Maths", 5)
	require.Error(t, err)
	require.Len(t, all, 5)
	require.Equal(t, 2, calls, "failures must not be retried")

	var herr *httpx.HTTPError
	require.True(t, errors.As(err, &herr))
	require.Equal(t, http.StatusInternalServerError, herr.StatusCode)
	require.Contains(t, err.Error(), "page=2")
}

func TestSearchCoursesBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"courses": "nope"}`))
	}))
	defer srv.Close()

	all, err := newTestClient(srv.URL).SearchCourses(context.Background(), "Maths", 5)
	require.ErrorIs(t, err, ErrBadResponse)
	require.Empty(t, all)
}

func TestSleepCtx(t *testing.T) {
	require.NoError(t, sleepCtx(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, sleepCtx(ctx, 0), context.Canceled)
}

func TestSearchPageRequestShape(t *testing.T) {
	var (
		method, contentType, userAgent, fields string
		body                                   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		userAgent = r.Header.Get("User-Agent")
		fields = r.URL.Query().Get("fields")
		body, _ = io.ReadAll(r.Body)

		w.Write([]byte(`{"courses":[],"information":{"courseCounts":{"totalCourseCount":0}}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SearchPage(context.Background(), "Medicine", 3, 25)
	require.NoError(t, err)
	require.Empty(t, resp.Courses)

	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "application/json", contentType)
	require.Equal(t, DefaultUserAgent, userAgent)
	require.True(t, strings.HasPrefix(fields, "courses(id,"))

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	require.Equal(t, "Medicine", m["searchTerm"])
	require.Equal(t, false, m["inClearing"])

	filters := m["filters"].(map[string]any)
	require.Equal(t, "2026", filters["academicYearId"])
	require.Equal(t, []any{"Undergraduate"}, filters["destinations"])
	require.Equal(t, []any{}, filters["providers"])
	require.Equal(t, []any{}, filters["subjects"])
	require.Equal(t, false, filters["degreeApprenticeship"])
	require.Nil(t, filters["entryPoint"])

	options := m["options"].(map[string]any)
	require.Equal(t, "course", options["viewType"])
	paging := options["paging"].(map[string]any)
	require.Equal(t, float64(3), paging["pageNumber"])
	require.Equal(t, float64(25), paging["pageSize"])
}

func TestFlexNumber(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
		value float64
	}{
		{`112`, true, 112},
		{`"96"`, true, 96},
		{`3.5`, true, 3.5},
		{`null`, false, 0},
		{`""`, false, 0},
	}

	for _, tc := range testCases {
		var n FlexNumber
		require.NoError(t, json.Unmarshal([]byte(tc.input), &n), tc.input)
		require.Equal(t, tc.valid, n.Valid, tc.input)
		require.Equal(t, tc.value, n.Value, tc.input)
	}

	var bad FlexNumber
	require.Error(t, json.Unmarshal([]byte(`"lots"`), &bad))
}

func TestFlexString(t *testing.T) {
	testCases := []struct {
		input    string
		expected FlexString
	}{
		{`"abc-123"`, "abc-123"},
		{`12345`, "12345"},
		{`null`, ""},
	}

	for _, tc := range testCases {
		var s FlexString
		require.NoError(t, json.Unmarshal([]byte(tc.input), &s), tc.input)
		require.Equal(t, tc.expected, s)
	}

	var bad FlexString
	require.Error(t, json.Unmarshal([]byte(`{"id":1}`), &bad))
}
