package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/apperror"
	"stockledger/internal/model"
	"stockledger/internal/pricing"
)

func seedProduct(t *testing.T, f *fixture, sku, cost string) {
	t.Helper()
	_, err := f.stock.CreateProduct(context.Background(), ProductRequest{SKU: sku, Name: "Lawn, Blue", BaseCostPkr: Number(cost)})
	require.NoError(t, err)
}

func TestCreateSaleDerivesFields(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f, "SKU1", "3500")

	sale, err := f.revenue.CreateSale(context.Background(), SaleRequest{
		TransactionID:      "1",
		SKU:                "SKU1",
		SalePriceGbp:       "20.0",
		ShippingGbp:        "2.0",
		PlatformFeePercent: "15",
		SaleDate:           "2026-05-19",
	})
	require.NoError(t, err)

	assert.Equal(t, "Lawn, Blue", sale.ProductName)
	assert.Equal(t, 3500.0, sale.BaseCostPkr)
	assert.Equal(t, 10.0, sale.BaseCostGbp)
	assert.Equal(t, 3.0, sale.PlatformFeeAmount)
	assert.Equal(t, 5.0, sale.NetProfitGbp)
	assert.Equal(t, 25.0, sale.ProfitMarginPercent)

	entries := f.logs.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Sale Transaction ID 1", entries[0].Details)
	assert.Equal(t, model.ModuleRevenue, entries[0].Module)
}

func TestCreateSaleValidation(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f, "SKU1", "3500")
	ctx := context.Background()

	valid := SaleRequest{TransactionID: "1", SKU: "SKU1", SalePriceGbp: "20", PlatformFeePercent: "15", SaleDate: "2026-05-19"}
	with := func(mut func(r *SaleRequest)) SaleRequest {
		r := valid
		mut(&r)
		return r
	}

	cases := []struct {
		req  SaleRequest
		want string
	}{
		{with(func(r *SaleRequest) { r.TransactionID = " " }), "Transaction ID is required"},
		{with(func(r *SaleRequest) { r.SKU = "" }), "SKU is required"},
		{with(func(r *SaleRequest) { r.SalePriceGbp = "" }), "Sale Price (GBP) is required"},
		{with(func(r *SaleRequest) { r.PlatformFeePercent = "" }), "Platform Fee % is required"},
		{with(func(r *SaleRequest) { r.SaleDate = "" }), "Sale Date is required"},
		{with(func(r *SaleRequest) { r.SKU = "NOPE" }), "Product not found for SKU: NOPE"},
		{with(func(r *SaleRequest) { r.SalePriceGbp = "twenty" }), "Sale Price must be a valid number"},
		{with(func(r *SaleRequest) { r.SalePriceGbp = "-1" }), "Sale Price must be a positive number"},
		{with(func(r *SaleRequest) { r.ShippingGbp = "x" }), "Shipping must be a valid number"},
		{with(func(r *SaleRequest) { r.ShippingGbp = "-3" }), "Shipping must be a non-negative number"},
		{with(func(r *SaleRequest) { r.PlatformFeePercent = "%" }), "Platform Fee % must be a valid number"},
		{with(func(r *SaleRequest) { r.PlatformFeePercent = "101" }), "Platform Fee % must be between 0 and 100"},
	}

	for _, tc := range cases {
		_, err := f.revenue.CreateSale(ctx, tc.req)
		require.Error(t, err, tc.want)
		assert.Equal(t, tc.want, err.Error())
	}
	assert.Empty(t, f.sales.All())
}

func TestCreateSaleDuplicate(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f, "SKU1", "3500")
	req := SaleRequest{TransactionID: "1", SKU: "SKU1", SalePriceGbp: "20", PlatformFeePercent: "15", SaleDate: "2026-05-19"}

	_, err := f.revenue.CreateSale(context.Background(), req)
	require.NoError(t, err)
	_, err = f.revenue.CreateSale(context.Background(), req)
	assert.ErrorIs(t, err, apperror.ErrDuplicateKey)
	assert.Len(t, f.sales.All(), 1)
}

func TestUpdateSaleRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProduct(t, f, "SKU1", "3500")
	_, err := f.revenue.CreateSale(ctx, SaleRequest{TransactionID: "1", SKU: "SKU1", SalePriceGbp: "20", ShippingGbp: "2", PlatformFeePercent: "15", SaleDate: "2026-05-19"})
	require.NoError(t, err)

	_, err = f.stock.UpdateProduct(ctx, "SKU1", ProductRequest{Name: "Lawn Suit Red", BaseCostPkr: "7000"})
	require.NoError(t, err)

	sale, err := f.revenue.UpdateSale(ctx, "1", SaleRequest{SalePriceGbp: "40", ShippingGbp: "0", PlatformFeePercent: "25", SaleDate: "2026-05-20"})
	require.NoError(t, err)
	assert.Equal(t, "Lawn, Blue", sale.ProductName)
	assert.Equal(t, 7000.0, sale.BaseCostPkr)
	assert.Equal(t, 20.0, sale.BaseCostGbp)
	assert.Equal(t, 10.0, sale.PlatformFeeAmount)
	assert.Equal(t, 10.0, sale.NetProfitGbp)
	assert.Equal(t, 25.0, sale.ProfitMarginPercent)

	stored, err := f.revenue.GetSale("1")
	require.NoError(t, err)
	assert.Equal(t, "2026-05-20", stored.SaleDate)
	assert.Equal(t, 10.0, stored.NetProfitGbp)

	_, err = f.revenue.UpdateSale(ctx, "99", SaleRequest{SalePriceGbp: "1", PlatformFeePercent: "1", SaleDate: "2026-05-20"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStoredSaleMatchesBreakdownAfterReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProduct(t, f, "SKU1", "3500.555")

	_, err := f.revenue.CreateSale(ctx, SaleRequest{
		TransactionID:      "1",
		SKU:                "SKU1",
		SalePriceGbp:       "19.99",
		ShippingGbp:        "2.005",
		PlatformFeePercent: "12.345",
		SaleDate:           "2026-05-19",
	})
	require.NoError(t, err)
	require.NoError(t, f.sales.Reload(ctx))

	stored, err := f.revenue.GetSale("1")
	require.NoError(t, err)
	assert.Equal(t, 12.345, stored.PlatformFeePercent)
	assert.Equal(t, 2.005, stored.ShippingGbp)

	b := pricing.NewCalculator(staticRate(350)).Breakdown(stored.BaseCostPkr, stored.SalePriceGbp, stored.ShippingGbp, stored.PlatformFeePercent)
	assert.Equal(t, b.BaseCostGbp, stored.BaseCostGbp)
	assert.Equal(t, b.PlatformFeeAmount, stored.PlatformFeeAmount)
	assert.Equal(t, b.NetProfitGbp, stored.NetProfitGbp)
	assert.Equal(t, b.ProfitMargin, stored.ProfitMarginPercent)
}

func TestSalesQueryAndNextID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProduct(t, f, "A", "350")
	seedProduct(t, f, "B", "700")

	id, err := f.revenue.NextTransactionID()
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	for _, r := range []SaleRequest{
		{TransactionID: "1", SKU: "A", SalePriceGbp: "10", PlatformFeePercent: "0", SaleDate: "2026-05-01"},
		{TransactionID: "2", SKU: "B", SalePriceGbp: "10", PlatformFeePercent: "0", SaleDate: "2026-05-02"},
		{TransactionID: "5", SKU: "A", SalePriceGbp: "10", PlatformFeePercent: "0", SaleDate: "2026-05-10"},
	} {
		_, err := f.revenue.CreateSale(ctx, r)
		require.NoError(t, err)
	}

	id, err = f.revenue.NextTransactionID()
	require.NoError(t, err)
	assert.Equal(t, "6", id)

	from, _ := ParseDate("from", "2026-05-02")
	got, err := f.revenue.GetSales(SaleQuery{SKU: "A", From: from})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].TransactionID)

	summary, err := f.revenue.GetSummary(SaleQuery{SKU: "A"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSales)
	assert.Equal(t, 20.0, summary.TotalRevenue)
	assert.Equal(t, 18.0, summary.TotalProfit)

	assert.Equal(t, []float64{15, 20, 25}, f.revenue.FeeOptions())

	require.NoError(t, f.revenue.DeleteSale(ctx, "2"))
	assert.ErrorIs(t, f.revenue.DeleteSale(ctx, "2"), apperror.ErrNotFound)
}
