package survey

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

type Servicer interface {
	Page(ctx context.Context, req PageRequest) (Page, error)
	Save(ctx context.Context, kind Kind, data map[string]any) (string, error)
	Find(ctx context.Context, kind Kind, id string) (*Record, error)
	Delete(ctx context.Context, kind Kind, id string) error
	UniqueValues(ctx context.Context, kind Kind, field string, filters Filters) ([]string, error)
	All(ctx context.Context, kind Kind, filters Filters) ([]Record, error)
}

// Service defines the business logic for survey records
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService creates a new survey service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "survey_service"),
		now:  time.Now,
	}
}

// Page lists one page of both collections with matching totals.
func (s *Service) Page(ctx context.Context, req PageRequest) (Page, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Page < 0 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidPage, req.Page)
	}
	if req.Limit == (Limit{}) {
		req.Limit = LimitOf(DefaultLimit)
	}
	if err := req.Filters.Validate(); err != nil {
		return Page{}, err
	}

	q := Query{
		Limit:   req.Limit,
		Search:  req.Search,
		Filters: req.Filters,
	}
	if !req.Limit.IsAll() {
		if req.Page-1 > math.MaxInt/req.Limit.N() {
			return Page{}, fmt.Errorf("%w: %d", ErrInvalidPage, req.Page)
		}
		q.Offset = (req.Page - 1) * req.Limit.N()
	}

	page := Page{Managers: []Record{}, Workers: []Record{}}
	var (
		managers, workers           []Record
		totalManagers, totalWorkers int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		managers, err = s.repo.List(gctx, KindManager, q)
		return err
	})
	g.Go(func() (err error) {
		workers, err = s.repo.List(gctx, KindWorker, q)
		return err
	})
	g.Go(func() (err error) {
		totalManagers, err = s.repo.Count(gctx, KindManager, q.Search, q.Filters)
		return err
	})
	g.Go(func() (err error) {
		totalWorkers, err = s.repo.Count(gctx, KindWorker, q.Search, q.Filters)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to list surveys", "page", req.Page, "limit", req.Limit.String(), "error", err)
		return Page{}, fmt.Errorf("list surveys: %w", err)
	}

	if managers != nil {
		page.Managers = managers
	}
	if workers != nil {
		page.Workers = workers
	}
	page.Pagination = Pagination{
		Page:               req.Page,
		Limit:              req.Limit,
		TotalManagers:      totalManagers,
		TotalWorkers:       totalWorkers,
		TotalPagesManagers: TotalPages(totalManagers, req.Limit),
		TotalPagesWorkers:  TotalPages(totalWorkers, req.Limit),
	}
	return page, nil
}

// TotalPages is ceil(total/limit); always 1 when pagination is disabled.
func TotalPages(total int, limit Limit) int {
	if limit.IsAll() || limit.N() <= 0 {
		return 1
	}
	return (total + limit.N() - 1) / limit.N()
}

// Save stores a raw form submission and returns the assigned id.
func (s *Service) Save(ctx context.Context, kind Kind, data map[string]any) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty submission", ErrInvalidData)
	}

	rec, err := NewRecord(data).WithDefaults(s.now())
	if err != nil {
		return "", fmt.Errorf("prepare record: %w", err)
	}

	id, err := s.repo.Add(ctx, kind, rec)
	if err != nil {
		s.log.Error("failed to save survey", "type", kind, "error", err)
		return "", fmt.Errorf("save survey: %w", err)
	}

	s.log.Debug("survey saved", "type", kind, "id", id)
	return id, nil
}

func (s *Service) Find(ctx context.Context, kind Kind, id string) (*Record, error) {
	rec, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find survey: %w", err)
	}
	return rec, nil
}

// Delete returns ErrNotFound when there was nothing to remove.
func (s *Service) Delete(ctx context.Context, kind Kind, id string) error {
	removed, err := s.repo.Delete(ctx, kind, id)
	if err != nil {
		s.log.Error("failed to delete survey", "type", kind, "id", id, "error", err)
		return fmt.Errorf("delete survey: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	s.log.Info("survey deleted", "type", kind, "id", id)
	return nil
}

func (s *Service) UniqueValues(ctx context.Context, kind Kind, field string, filters Filters) ([]string, error) {
	if field != FieldReceivedAt {
		if err := ValidateField(field); err != nil {
			return nil, err
		}
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	values, err := s.repo.UniqueValues(ctx, kind, field, filters)
	if err != nil {
		return nil, fmt.Errorf("unique values: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// All returns every record of a kind matching filters, newest first.
func (s *Service) All(ctx context.Context, kind Kind, filters Filters) ([]Record, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, kind, Query{Limit: All, Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("list all %s: %w", kind.Table(), err)
	}
	return records, nil
}
