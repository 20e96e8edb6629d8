package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/apperror"
	"stockledger/internal/clock"
	"stockledger/internal/model"
	"stockledger/internal/repository"
)

// LogQuery narrows the activity log. Zero fields do not filter.
type LogQuery struct {
	Search string
	Module string
	Action string
	From   *time.Time
	To     *time.Time
}

type AuditService interface {
	GetLogs(q LogQuery) ([]model.LogEntry, error)
	GetSummary(q LogQuery) (model.LogSummary, error)
	DeleteOlderThan(ctx context.Context, days string) (int, error)
}

type auditService struct {
	logs  repository.LogRepository
	clock clock.Clock
}

func NewAuditService(logs repository.LogRepository, clk clock.Clock) AuditService {
	if clk == nil {
		clk = clock.System
	}
	return &auditService{logs: logs, clock: clk}
}

func (s *auditService) GetLogs(q LogQuery) ([]model.LogEntry, error) {
	if s.logs == nil {
		return nil, apperror.ErrNoDatabaseConnection
	}

	base := s.logs.Search(q.Search)
	var others [][]model.LogEntry
	if m := strings.TrimSpace(q.Module); m != "" {
		others = append(others, s.logs.FilterByModule(m))
	}
	if a := strings.TrimSpace(q.Action); a != "" {
		others = append(others, s.logs.FilterByActionType(a))
	}
	if q.From != nil || q.To != nil {
		others = append(others, s.logs.FilterByDateRange(q.From, q.To))
	}
	return intersect(func(e model.LogEntry) uuid.UUID { return e.ID }, base, others...), nil
}

func (s *auditService) GetSummary(q LogQuery) (model.LogSummary, error) {
	entries, err := s.GetLogs(q)
	if err != nil {
		return model.LogSummary{}, err
	}
	return repository.SummarizeLogs(entries, s.clock.Now()), nil
}

// DeleteOlderThan removes entries dated before today minus days.
func (s *auditService) DeleteOlderThan(ctx context.Context, days string) (int, error) {
	if s.logs == nil {
		return 0, apperror.ErrNoDatabaseConnection
	}

	n, err := strconv.Atoi(strings.TrimSpace(days))
	if err != nil {
		return 0, apperror.Validation("older_than_days", "Days must be a valid number")
	}
	if n < 0 {
		return 0, apperror.Validation("older_than_days", "Days must be a non-negative number")
	}
	return s.logs.DeleteOlderThan(ctx, n)
}
