package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ucas-search/internal/domain"
	"ucas-search/internal/ranking"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleCourses() []domain.Course {
	return []domain.Course{
		{
			CourseName:        "Computer Science",
			UniversityName:    "University of Somewhere",
			Degree:            "BSc (Hons)",
			Duration:          "3 Years",
			EntryRequirements: "A level: A*AA (including Maths & Further Maths); IB: 38 points",
			ALevelRequirement: strPtr("A Level: A*AA (including Maths & Further Maths)"),
			CourseLink:        "https://digital.ucas.com/coursedisplay/courses/abc?academicYearId=2026",
			RawALevelOffer:    "A*AA",
		},
		{
			CourseName:       "Computing <Foundation>",
			UniversityName:   "Université de Test",
			Degree:           "BSc",
			UCASTariffPoints: intPtr(96),
			CourseLink:       "https://digital.ucas.com/coursedisplay/courses/def?academicYearId=2026",
		},
	}
}

func TestFileNames(t *testing.T) {
	testCases := []struct {
		term       string
		wantALevel string
		wantTariff string
	}{
		{"Computer Science", "Computer Science_a_level_sorted.json", "Computer Science_ucas_tariff_sorted.json"},
		{"  Law  ", "Law_a_level_sorted.json", "Law_ucas_tariff_sorted.json"},
		{"Art/Design", "Art_Design_a_level_sorted.json", "Art_Design_ucas_tariff_sorted.json"},
		{"ＡＩ", "AI_a_level_sorted.json", "AI_ucas_tariff_sorted.json"},
		{"..", "search_a_level_sorted.json", "search_ucas_tariff_sorted.json"},
	}

	for _, tc := range testCases {
		aLevel, tariff := FileNames(tc.term)
		if aLevel != tc.wantALevel || tariff != tc.wantTariff {
			t.Errorf("FileNames(%q) = %q, %q; want %q, %q", tc.term, aLevel, tariff, tc.wantALevel, tc.wantTariff)
		}
	}
}

func TestWriteCoursesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	in := sampleCourses()

	require.NoError(t, WriteCourses(path, in))

	out, err := ReadCourses(path)
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCoursesFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteCourses(path, sampleCourses()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)

	require.True(t, strings.HasPrefix(content, "[\n  {\n    \"course_name\""), content)
	require.Contains(t, content, "Maths & Further Maths")
	require.Contains(t, content, "Computing <Foundation>")
	require.Contains(t, content, "Université de Test")

	var records []map[string]any
	require.NoError(t, json.Unmarshal(b, &records))
	require.Len(t, records, 2)

	keys := []string{
		"course_name", "university_name", "degree", "duration", "entry_requirements",
		"a_level_requirement", "ucas_tariff_points", "course_link", "raw_a_level_offer",
	}
	for _, rec := range records {
		require.Len(t, rec, len(keys))
		for _, k := range keys {
			_, ok := rec[k]
			require.True(t, ok, "missing key %s", k)
		}
	}
	require.Nil(t, records[0]["ucas_tariff_points"])
	require.Nil(t, records[1]["a_level_requirement"])
	require.Equal(t, float64(96), records[1]["ucas_tariff_points"])
}

func TestWriteGroupsSkipsEmptyGroups(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	g := ranking.Rank(sampleCourses()[:1])

	written, err := WriteGroups(dir, "Computer Science", g)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "Computer Science_a_level_sorted.json")}, written)

	_, err = os.Stat(filepath.Join(dir, "Computer Science_ucas_tariff_sorted.json"))
	require.True(t, os.IsNotExist(err))
}

func TestWriteGroupsBoth(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteGroups(dir, "Computing", ranking.Rank(sampleCourses()))
	require.NoError(t, err)
	require.Len(t, written, 2)

	tariff, err := ReadCourses(written[1])
	require.NoError(t, err)
	require.Len(t, tariff, 1)
	require.Equal(t, "Computing <Foundation>", tariff[0].CourseName)
}

func TestReadCoursesErrors(t *testing.T) {
	_, err := ReadCourses(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = ReadCourses(path)
	require.Error(t, err)
}
