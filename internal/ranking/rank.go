// Package ranking splits normalized courses into the A-Level and tariff groups
// and orders each group from most to least demanding.
package ranking

import (
	"sort"

	"ucas-search/internal/domain"
	"ucas-search/internal/grading"
)

// Groups holds the two ranked partitions of one search.
type Groups struct {
	ALevel []domain.Course // highest grade score first
	Tariff []domain.Course // highest tariff first
}

// Total is the number of courses across both groups.
func (g Groups) Total() int { return len(g.ALevel) + len(g.Tariff) }

// Rank partitions and sorts courses. Every input course lands in exactly one group.
func Rank(courses []domain.Course) Groups {
	aLevel, tariff := Partition(courses)
	SortByALevel(aLevel)
	SortByTariff(tariff)
	return Groups{ALevel: aLevel, Tariff: tariff}
}

func Partition(courses []domain.Course) (aLevel, tariff []domain.Course) {
	for _, c := range courses {
		if c.HasALevelOffer() {
			aLevel = append(aLevel, c)
		} else {
			tariff = append(tariff, c)
		}
	}
	return aLevel, tariff
}

func SortByALevel(courses []domain.Course) {
	scores := make(map[string]int, len(courses))
	score := func(offer string) int {
		if s, ok := scores[offer]; ok {
			return s
		}
		s := grading.ScoreOffer(offer)
		scores[offer] = s
		return s
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return score(courses[i].RawALevelOffer) > score(courses[j].RawALevelOffer)
	})
}

func SortByTariff(courses []domain.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].TariffOrZero() > courses[j].TariffOrZero()
	})
}
