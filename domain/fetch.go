package domain

import "context"

// Fetcher loads the rows used to prefill a section.
type Fetcher interface {
	FetchRows(ctx context.Context, section MealSection) ([]PlanRow, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, section MealSection) ([]PlanRow, error)

func (f FetcherFunc) FetchRows(ctx context.Context, section MealSection) ([]PlanRow, error) {
	return f(ctx, section)
}
