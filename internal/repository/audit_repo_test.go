package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/clock"
	"stockledger/internal/model"
)

var testNow = time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

func newLogRepo(t *testing.T) (LogRepository, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	repo, err := NewLogRepository(context.Background(), openTestSession(t), clock.Fixed(testNow), n)
	require.NoError(t, err)
	return repo, n
}

func entryAt(action, module string, at time.Time) *model.LogEntry {
	stamp := clock.StampOf(at)
	return &model.LogEntry{
		ActionType:       action,
		Module:           module,
		EntityType:       model.EntityProduct,
		EntityIdentifier: "SKU1",
		Details:          "Product SKU1",
		Timestamp:        stamp.Instant,
		TimestampPkt:     stamp.Pakistan,
		TimestampGmt:     stamp.UK,
	}
}

func TestLogAddPrependsWithoutReload(t *testing.T) {
	ctx := context.Background()
	repo, n := newLogRepo(t)

	require.True(t, repo.Add(ctx, entryAt(model.ActionAdded, model.ModuleStock, testNow.Add(-time.Hour))))
	require.True(t, repo.Add(ctx, entryAt(model.ActionEdited, model.ModuleStock, testNow)))

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, model.ActionEdited, all[0].ActionType)
	assert.Equal(t, []string{CollectionLogs, CollectionLogs}, n.events)
}

func TestLogAddFailsQuietlyWhenDisconnected(t *testing.T) {
	session := openTestSession(t)
	repo, err := NewLogRepository(context.Background(), session, clock.Fixed(testNow), nil)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	assert.False(t, repo.Add(context.Background(), entryAt(model.ActionAdded, model.ModuleStock, testNow)))
	assert.Empty(t, repo.All())
}

func TestLogReloadSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLogRepo(t)

	undated := entryAt(model.ActionDeleted, model.ModuleRevenue, testNow)
	undated.Timestamp = ""
	require.True(t, repo.Add(ctx, entryAt(model.ActionAdded, model.ModuleStock, testNow.Add(-48*time.Hour))))
	require.True(t, repo.Add(ctx, undated))
	require.True(t, repo.Add(ctx, entryAt(model.ActionEdited, model.ModuleStock, testNow)))

	require.NoError(t, repo.Reload(ctx))
	all := repo.All()
	require.Len(t, all, 3)
	assert.Equal(t, model.ActionEdited, all[0].ActionType)
	assert.Equal(t, model.ActionAdded, all[1].ActionType)
	assert.Equal(t, "", all[2].Timestamp)
}

func TestLogDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLogRepo(t)
	const days = 7

	require.True(t, repo.Add(ctx, entryAt(model.ActionAdded, model.ModuleStock, testNow)))
	require.True(t, repo.Add(ctx, entryAt(model.ActionEdited, model.ModuleStock, testNow)))
	require.True(t, repo.Add(ctx, entryAt(model.ActionAdded, model.ModuleRevenue, testNow.AddDate(0, 0, -(days+1)))))
	require.True(t, repo.Add(ctx, entryAt(model.ActionDeleted, model.ModuleRevenue, testNow.AddDate(0, 0, -(days+1)))))

	removed, err := repo.DeleteOlderThan(ctx, days)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all := repo.All()
	require.Len(t, all, 2)
	for _, e := range all {
		assert.Equal(t, clock.Today(testNow), e.TimestampPkt[:10])
	}

	removed, err = repo.DeleteOlderThan(ctx, days)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestLogFilters(t *testing.T) {
	ctx := context.Background()
	repo, _ := newLogRepo(t)
	require.True(t, repo.Add(ctx, entryAt(model.ActionAdded, model.ModuleStock, testNow)))
	require.True(t, repo.Add(ctx, entryAt(model.ActionDeleted, model.ModuleRevenue, testNow.AddDate(0, 0, -3))))

	assert.Len(t, repo.FilterByModule(model.ModuleRevenue), 1)
	assert.Len(t, repo.FilterByModule(""), 2)
	assert.Len(t, repo.FilterByActionType(model.ActionAdded), 1)
	assert.Len(t, repo.Search("deleted"), 1)
	assert.Len(t, repo.Search("sku1"), 2)

	from := testNow.AddDate(0, 0, -1)
	assert.Len(t, repo.FilterByDateRange(&from, nil), 1)
}
