package providers

import (
	"context"

	"ucas-search/internal/domain"
)

type CourseSearcher interface {
	Name() string
	Search(ctx context.Context, term string) (domain.SearchResult, error)
}
