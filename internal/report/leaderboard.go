package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"ucas-search/internal/domain"
	"ucas-search/internal/grading"
	"ucas-search/internal/ranking"
)

// TopN is how many courses each leaderboard lists.
const TopN = 5

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// Failures lists records that could not be extracted, by position.
func Failures(w io.Writer, failures []domain.ExtractFailure) {
	for _, f := range failures {
		fmt.Fprintf(w, "failed to parse record #%d: %s\n", f.Index, f.Reason)
	}
}

// Leaderboard prints the group sizes followed by the top courses of every
// non-empty group.
func Leaderboard(w io.Writer, g ranking.Groups) {
	fmt.Fprintf(w, "Course options with an A-Level offer: %d\n", len(g.ALevel))
	fmt.Fprintf(w, "Course options without an A-Level offer: %d\n", len(g.Tariff))

	if len(g.ALevel) > 0 {
		fmt.Fprintf(w, "\nTop %d by A-Level offer:\n", min(TopN, len(g.ALevel)))
		t := newTable(w)
		t.AppendHeader(table.Row{"#", "Course", "University", "A Level", "Score"})
		for i, c := range top(g.ALevel) {
			t.AppendRow(table.Row{i + 1, c.CourseName, c.UniversityName, c.RawALevelOffer, grading.ScoreOffer(c.RawALevelOffer)})
		}
		t.Render()
	}

	if len(g.Tariff) > 0 {
		fmt.Fprintf(w, "\nTop %d by UCAS Tariff:\n", min(TopN, len(g.Tariff)))
		t := newTable(w)
		t.AppendHeader(table.Row{"#", "Course", "University", "UCAS Tariff"})
		for i, c := range top(g.Tariff) {
			t.AppendRow(table.Row{i + 1, c.CourseName, c.UniversityName, c.TariffOrZero()})
		}
		t.Render()
	}
}

func top(courses []domain.Course) []domain.Course {
	if len(courses) > TopN {
		return courses[:TopN]
	}
	return courses
}
