package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/apperror"
	"stockledger/internal/database"
	"stockledger/internal/model"
)

func newProductRepo(t *testing.T) (ProductRepository, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	repo, err := NewProductRepository(context.Background(), openTestSession(t), n)
	require.NoError(t, err)
	return repo, n
}

func TestNewProductRepositoryRequiresConnection(t *testing.T) {
	repo, err := NewProductRepository(context.Background(), &database.Session{}, nil)
	assert.Nil(t, repo)
	assert.ErrorIs(t, err, apperror.ErrNoDatabaseConnection)
}

func TestProductAddAndDuplicate(t *testing.T) {
	ctx := context.Background()
	repo, n := newProductRepo(t)

	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "SKU1", Name: "Lawn Suit", BaseCostPkr: 3500, Quantity: 4, DateAdded: "2026-01-10"}))
	require.Len(t, repo.All(), 1)

	before := repo.All()
	err := repo.Add(ctx, &model.Product{SKU: "SKU1", Name: "Other"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateKey)
	assert.Equal(t, before, repo.All())

	p, ok := repo.FindBySKU("SKU1")
	require.True(t, ok)
	assert.Equal(t, "Lawn Suit", p.Name)
	assert.Equal(t, []string{CollectionProducts}, n.events)
}

func TestProductUpdateUpserts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "SKU1", Name: "Lawn Suit", BaseCostPkr: 3500}))

	require.NoError(t, repo.Update(ctx, &model.Product{SKU: "SKU1", Name: "Lawn Suit Blue", BaseCostPkr: 4000}))
	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Lawn Suit Blue", all[0].Name)
	assert.Equal(t, 4000.0, all[0].BaseCostPkr)

	require.NoError(t, repo.Update(ctx, &model.Product{SKU: "SKU2", Name: "Shawl"}))
	assert.Len(t, repo.All(), 2)
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "SKU1", Name: "A"}))
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "SKU2", Name: "B"}))

	before := repo.All()
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), apperror.ErrNotFound)
	assert.Equal(t, before, repo.All())

	require.NoError(t, repo.Delete(ctx, "SKU1"))
	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, "SKU2", all[0].SKU)
}

func TestProductDeleteAfterClose(t *testing.T) {
	session := openTestSession(t)
	repo, err := NewProductRepository(context.Background(), session, nil)
	require.NoError(t, err)

	require.NoError(t, session.Close())
	assert.ErrorIs(t, repo.Delete(context.Background(), "SKU1"), apperror.ErrNoDatabaseConnection)
}

func TestProductSearch(t *testing.T) {
	ctx := context.Background()
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "LS-01", Name: "Lawn Suit", Brand: "Khaadi"}))
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "SH-02", Name: "Shawl", Brand: "Sapphire", Color: "Maroon", Material: "Pashmina"}))

	assert.Len(t, repo.Search("  "), 2)
	assert.Len(t, repo.Search("khaadi"), 1)
	assert.Len(t, repo.Search("sh-"), 1)
	assert.Len(t, repo.Search("LAWN"), 1)
	assert.Empty(t, repo.Search("silk"))
	assert.Empty(t, repo.Search("maroon"))
	assert.Empty(t, repo.Search("pashmina"))
}

func TestProductFilterByDateRange(t *testing.T) {
	ctx := context.Background()
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "A", Name: "A", DateAdded: "2026-01-01"}))
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "B", Name: "B", DateAdded: "2026-02-15"}))
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "C", Name: "C", DateAdded: "bad"}))
	require.NoError(t, repo.Add(ctx, &model.Product{SKU: "D", Name: "D"}))

	assert.Equal(t, repo.All(), repo.FilterByDateRange(nil, nil))

	got := repo.FilterByDateRange(date("2026-01-01"), date("2026-02-15"))
	assert.Len(t, got, 2)

	got = repo.FilterByDateRange(date("2026-01-02"), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].SKU)

	got = repo.FilterByDateRange(nil, date("2026-01-01"))
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].SKU)
}
