package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stockledger/internal/apperror"
	"stockledger/internal/clock"
	"stockledger/internal/database"
	"stockledger/internal/model"
)

// LogRepository holds the activity log, newest first.
type LogRepository interface {
	All() []model.LogEntry
	Search(text string) []model.LogEntry
	FilterByModule(module string) []model.LogEntry
	FilterByActionType(action string) []model.LogEntry
	FilterByDateRange(from, to *time.Time) []model.LogEntry
	// Add never fails loudly: it reports whether the entry was stored.
	Add(ctx context.Context, entry *model.LogEntry) bool
	DeleteOlderThan(ctx context.Context, days int) (int, error)
	Reload(ctx context.Context) error
}

type logRepository struct {
	session  *database.Session
	tx       TransactionManager
	clock    clock.Clock
	notifier Notifier
	cache    snapshot[model.LogEntry]
}

func NewLogRepository(ctx context.Context, session *database.Session, clk clock.Clock, notifier Notifier) (LogRepository, error) {
	if err := session.RequireConnected(); err != nil {
		return nil, err
	}
	if err := session.Register(&model.LogEntry{}); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.System
	}

	r := &logRepository{
		session:  session,
		tx:       NewTransactionManager(session),
		clock:    clk,
		notifier: notifierOrNop(notifier),
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *logRepository) All() []model.LogEntry {
	return r.cache.all()
}

func (r *logRepository) Search(text string) []model.LogEntry {
	term, ok := searchTerm(text)
	if !ok {
		return r.cache.all()
	}
	return r.cache.filter(func(e model.LogEntry) bool {
		return containsFold(term, e.ActionType, e.Module, e.EntityType, e.Details, e.EntityIdentifier)
	})
}

func (r *logRepository) FilterByModule(module string) []model.LogEntry {
	if module == "" {
		return r.cache.all()
	}
	return r.cache.filter(func(e model.LogEntry) bool { return e.Module == module })
}

func (r *logRepository) FilterByActionType(action string) []model.LogEntry {
	if action == "" {
		return r.cache.all()
	}
	return r.cache.filter(func(e model.LogEntry) bool { return e.ActionType == action })
}

func (r *logRepository) FilterByDateRange(from, to *time.Time) []model.LogEntry {
	if from == nil && to == nil {
		return r.cache.all()
	}
	return r.cache.filter(func(e model.LogEntry) bool {
		return inDateRange(e.TimestampPkt, from, to)
	})
}

func (r *logRepository) Add(ctx context.Context, entry *model.LogEntry) bool {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return false
	}
	if err := db.Create(entry).Error; err != nil {
		log.Warn().Err(err).Str("action", entry.ActionType).Msg("failed to write activity log")
		return false
	}
	r.cache.prepend(*entry)
	r.notifier.Notify(CollectionLogs)
	return true
}

// DeleteOlderThan removes every entry whose Pakistan date is before today
// minus days and returns how many were removed.
func (r *logRepository) DeleteOlderThan(ctx context.Context, days int) (int, error) {
	if err := r.session.RequireConnected(); err != nil {
		return 0, err
	}

	cutoff := clock.DaysAgo(r.clock.Now(), days)
	stale := r.cache.filter(func(e model.LogEntry) bool {
		return len(e.TimestampPkt) >= len(clock.DateLayout) &&
			e.TimestampPkt[:len(clock.DateLayout)] < cutoff
	})
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, e := range stale {
		ids = append(ids, e.ID)
	}

	var removed int64
	err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		db, _ := GetDB(txCtx, r.session)
		res := db.Where("id IN ?", ids).Delete(&model.LogEntry{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, apperror.Store("delete old logs", err)
	}

	if err := r.Reload(ctx); err != nil {
		return int(removed), err
	}
	r.notifier.Notify(CollectionLogs)
	return int(removed), nil
}

func (r *logRepository) Reload(ctx context.Context) error {
	db, ok := GetDB(ctx, r.session)
	if !ok {
		return apperror.ErrNoDatabaseConnection
	}

	var entries []model.LogEntry
	if err := db.Find(&entries).Error; err != nil {
		return apperror.Store("load logs", err)
	}
	sortNewestFirst(entries)
	r.cache.replace(entries)
	return nil
}

// sortNewestFirst orders by instant descending with missing timestamps last.
func sortNewestFirst(entries []model.LogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Timestamp, entries[j].Timestamp
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})
}
