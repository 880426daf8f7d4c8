package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ucas-search/internal/domain"
	"ucas-search/internal/mappers"
	"ucas-search/internal/ranking"
)

const (
	aLevelSuffix = "_a_level_sorted.json"
	tariffSuffix = "_ucas_tariff_sorted.json"
)

// FileNames returns the A-Level and tariff artefact names for a search term.
func FileNames(term string) (aLevel, tariff string) {
	base := fileBase(term)
	return base + aLevelSuffix, base + tariffSuffix
}

// fileBase keeps the term readable but makes it safe as a single path element.
func fileBase(term string) string {
	s := strings.TrimSpace(norm.NFKC.String(term))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "search"
	}
	return s
}

// WriteCourses writes courses as an indented JSON array of records.
// HTML characters are left unescaped so the file stays human-readable.
func WriteCourses(outPath string, courses []domain.Course) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(mappers.ToRecords(courses)); err != nil {
		return fmt.Errorf("export: marshal json: %w", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export: write json: %w", err)
	}
	return nil
}

// ReadCourses loads a file written by WriteCourses.
func ReadCourses(path string) ([]domain.Course, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read json: %w", err)
	}

	var records []mappers.CourseRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("export: parse json %s: %w", path, err)
	}
	return mappers.FromRecords(records), nil
}

// WriteGroups writes each non-empty group to its own file under outDir and
// returns the paths written, A-Level file first.
func WriteGroups(outDir, term string, g ranking.Groups) ([]string, error) {
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create out dir: %w", err)
	}

	aLevelName, tariffName := FileNames(term)

	var written []string
	for _, grp := range []struct {
		name    string
		courses []domain.Course
	}{
		{aLevelName, g.ALevel},
		{tariffName, g.Tariff},
	} {
		if len(grp.courses) == 0 {
			continue
		}
		path := filepath.Join(outDir, grp.name)
		if err := WriteCourses(path, grp.courses); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
