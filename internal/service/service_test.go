package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockledger/internal/clock"
	"stockledger/internal/database"
	"stockledger/internal/pricing"
	"stockledger/internal/repository"
)

var testNow = time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

type staticRate float64

func (r staticRate) ExchangeRate() float64 { return float64(r) }

type staticFees []float64

func (f staticFees) PlatformFeeList() []float64 { return f }

type fixture struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	logs     repository.LogRepository
	stock    StockService
	revenue  RevenueService
	audit    AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	session := database.Open(ctx, "file:svc_"+name+"?mode=memory&cache=shared")
	require.True(t, session.IsConnected())
	t.Cleanup(func() { _ = session.Close() })

	clk := clock.Fixed(testNow)
	products, err := repository.NewProductRepository(ctx, session, nil)
	require.NoError(t, err)
	sales, err := repository.NewSaleRepository(ctx, session, nil)
	require.NoError(t, err)
	logs, err := repository.NewLogRepository(ctx, session, clk, nil)
	require.NoError(t, err)

	calc := pricing.NewCalculator(staticRate(350))
	activity := NewActivityService(logs, clk)

	return &fixture{
		products: products,
		sales:    sales,
		logs:     logs,
		stock:    NewStockService(products, activity, calc, clk),
		revenue:  NewRevenueService(sales, products, activity, calc, staticFees{15, 20, 25}),
		audit:    NewAuditService(logs, clk),
	}
}
