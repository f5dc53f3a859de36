package branch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/survey"
)

// Repository is the part of the record store the pass needs.
type Repository interface {
	List(ctx context.Context, kind survey.Kind, q survey.Query) ([]survey.Record, error)
	UpdatePayload(ctx context.Context, kind survey.Kind, id string, payload survey.Payload) error
}

// Change describes one rewritten branch value.
type Change struct {
	Kind  survey.Kind
	ID    string
	Field string
	From  string
	To    string
}

type Result struct {
	DryRun    bool
	Scanned   map[survey.Kind]int
	Changed   map[survey.Kind]int
	Unmatched map[survey.Kind]int
	Changes   []Change
}

// Total returns the number of changed rows across both kinds.
func (r Result) Total() int {
	total := 0
	for _, n := range r.Changed {
		total += n
	}
	return total
}

type Service struct {
	repo       Repository
	normalizer *Normalizer
	log        *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		normalizer: NewNormalizer(),
		log:        log.With("component", "branch_normalizer"),
	}
}

// Run rewrites branch values of every record to their canonical city.
// Rows are updated one by one with no transaction and no guard against
// concurrent inserts; an interrupted run can simply be repeated.
func (s *Service) Run(ctx context.Context, dryRun bool) (Result, error) {
	start := time.Now()
	res := Result{
		DryRun:    dryRun,
		Scanned:   map[survey.Kind]int{},
		Changed:   map[survey.Kind]int{},
		Unmatched: map[survey.Kind]int{},
	}

	for _, kind := range survey.Kinds {
		records, err := s.repo.List(ctx, kind, survey.Query{Limit: survey.All})
		if err != nil {
			return res, fmt.Errorf("load %s: %w", kind.Table(), err)
		}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Scanned[kind]++

			change, ok := s.plan(kind, rec)
			if !ok {
				continue
			}
			if change.To == "" {
				res.Unmatched[kind]++
				continue
			}

			if !dryRun {
				payload := make(survey.Payload, len(rec.Payload))
				for k, v := range rec.Payload {
					payload[k] = v
				}
				payload[change.Field] = change.To

				if err := s.repo.UpdatePayload(ctx, kind, rec.ID, payload); err != nil {
					s.log.Error("failed to update branch", "type", kind, "id", rec.ID, "error", err)
					return res, fmt.Errorf("update %s %s: %w", kind, rec.ID, err)
				}
			}
			res.Changed[kind]++
			res.Changes = append(res.Changes, change)
		}
	}

	s.log.Info("branch normalization finished",
		"dry_run", dryRun,
		"changed", res.Total(),
		"duration", time.Since(start))
	return res, nil
}

// plan reports a change for records with a branch field. An empty To means
// the value matched no city and stays as is.
func (s *Service) plan(kind survey.Kind, rec survey.Record) (Change, bool) {
	field, ok := s.normalizer.FindField(rec.Payload)
	if !ok {
		return Change{}, false
	}

	current := survey.StringValue(rec.Payload[field])
	canonical, ok := s.normalizer.Canonical(current)
	if !ok {
		return Change{Kind: kind, ID: rec.ID, Field: field, From: current}, true
	}
	if _, isString := rec.Payload[field].(string); isString && canonical == current {
		return Change{}, false
	}
	return Change{Kind: kind, ID: rec.ID, Field: field, From: current, To: canonical}, true
}
