package settings

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/survey"
)

const (
	on  = "1"
	off = "0"
)

// LockStatus reports which intake forms refuse new submissions.
type LockStatus struct {
	Worker  bool `json:"worker"`
	Manager bool `json:"manager"`
}

// LockKey returns the settings key of a kind's intake lock.
func LockKey(kind survey.Kind) string {
	return "lock_" + string(kind)
}

type Servicer interface {
	LockStatus(ctx context.Context) (LockStatus, error)
	SetLock(ctx context.Context, kind survey.Kind, locked bool) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "settings_service"),
	}
}

// LockStatus defaults both flags to false when nothing was stored yet.
func (s *Service) LockStatus(ctx context.Context) (LockStatus, error) {
	values, err := s.repo.Settings(ctx, LockKey(survey.KindWorker), LockKey(survey.KindManager))
	if err != nil {
		return LockStatus{}, fmt.Errorf("read locks: %w", err)
	}
	return LockStatus{
		Worker:  values[LockKey(survey.KindWorker)] == on,
		Manager: values[LockKey(survey.KindManager)] == on,
	}, nil
}

func (s *Service) SetLock(ctx context.Context, kind survey.Kind, locked bool) error {
	value := off
	if locked {
		value = on
	}
	if err := s.repo.SetSetting(ctx, LockKey(kind), value); err != nil {
		s.log.Error("failed to set lock", "type", kind, "locked", locked, "error", err)
		return fmt.Errorf("set lock: %w", err)
	}
	s.log.Info("intake lock changed", "type", kind, "locked", locked)
	return nil
}
