package stats

import (
	"context"
	"fmt"

	"surveydesk/internal/domain/survey"
)

// Source loads every record of a kind.
type Source interface {
	All(ctx context.Context, kind survey.Kind, filters survey.Filters) ([]survey.Record, error)
}

type Servicer interface {
	Report(ctx context.Context, kind survey.Kind, branch string) (Report, error)
}

type Service struct {
	source     Source
	aggregator *Aggregator
}

func NewService(source Source) *Service {
	return &Service{source: source, aggregator: NewAggregator()}
}

func (s *Service) Report(ctx context.Context, kind survey.Kind, branch string) (Report, error) {
	records, err := s.source.All(ctx, kind, nil)
	if err != nil {
		return Report{}, fmt.Errorf("load records: %w", err)
	}
	return s.aggregator.Aggregate(records, branch), nil
}
