package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/apperror"
	"stockledger/internal/model"
)

func TestGetLogsCombinesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProduct(t, f, "SKU1", "3500")
	require.NoError(t, f.stock.DeleteProduct(ctx, "SKU1"))
	seedProduct(t, f, "SKU2", "100")

	all, err := f.audit.GetLogs(LogQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := f.audit.GetLogs(LogQuery{Action: model.ActionAdded, Search: "sku2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SKU2", got[0].EntityIdentifier)

	got, err = f.audit.GetLogs(LogQuery{Module: model.ModuleRevenue})
	require.NoError(t, err)
	assert.Empty(t, got)

	summary, err := f.audit.GetSummary(LogQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalLogs)
	assert.Equal(t, 3, summary.ActionsToday)
	assert.Equal(t, model.ActionAdded, summary.MostCommonAction)
}

func TestDeleteOlderThanValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.audit.DeleteOlderThan(ctx, "soon")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = f.audit.DeleteOlderThan(ctx, "-1")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	seedProduct(t, f, "SKU1", "1")
	n, err := f.audit.DeleteOlderThan(ctx, "30")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = NewAuditService(nil, nil).DeleteOlderThan(ctx, "1")
	assert.ErrorIs(t, err, apperror.ErrNoDatabaseConnection)
}
