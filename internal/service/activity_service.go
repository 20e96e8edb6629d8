package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"stockledger/internal/clock"
	"stockledger/internal/model"
	"stockledger/internal/repository"
)

// ActivityService records user actions to the activity log.
type ActivityService interface {
	// Record never fails the caller: write errors are only logged.
	Record(ctx context.Context, action, module, entityType, entityID, details string)
}

type activityService struct {
	logs  repository.LogRepository
	clock clock.Clock
}

// NewActivityService returns a recorder over logs. A nil logs repository
// makes every Record a no-op.
func NewActivityService(logs repository.LogRepository, clk clock.Clock) ActivityService {
	if clk == nil {
		clk = clock.System
	}
	return &activityService{logs: logs, clock: clk}
}

func (s *activityService) Record(ctx context.Context, action, module, entityType, entityID, details string) {
	if s.logs == nil {
		return
	}

	stamp := clock.StampOf(s.clock.Now())
	entry := &model.LogEntry{
		ActionType:       action,
		Module:           module,
		EntityType:       entityType,
		EntityIdentifier: entityID,
		Details:          details,
		Timestamp:        stamp.Instant,
		TimestampPkt:     stamp.Pakistan,
		TimestampGmt:     stamp.UK,
	}
	if !s.logs.Add(ctx, entry) {
		log.Warn().
			Str("action", action).
			Str("module", module).
			Str("entity", entityID).
			Msg("activity not recorded")
	}
}
