package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockledger/internal/model"
	"stockledger/internal/pricing"
)

type fixedRate float64

func (r fixedRate) ExchangeRate() float64 { return float64(r) }

func TestSummarizeProducts(t *testing.T) {
	products := []model.Product{
		{SKU: "A", BaseCostPkr: 3500, Quantity: 3, QuantitySold: 1},
		{SKU: "B", BaseCostPkr: 1750, Quantity: 2, QuantitySold: 2},
	}

	s := SummarizeProducts(products, pricing.NewCalculator(fixedRate(350)))

	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 5250.0, s.TotalValuePkr)
	assert.Equal(t, 15.0, s.TotalValueGbp)
	assert.Equal(t, 5, s.TotalQuantity)
	assert.Equal(t, 3, s.TotalQuantitySold)
	assert.Equal(t, 350.0, s.ExchangeRate)
}

func TestSummarizeSales(t *testing.T) {
	assert.Equal(t, model.RevenueSummary{}, SummarizeSales(nil))

	s := SummarizeSales([]model.Sale{
		{SalePriceGbp: 20, NetProfitGbp: 5, PlatformFeeAmount: 3, ProfitMarginPercent: 25},
		{SalePriceGbp: 40, NetProfitGbp: 10, PlatformFeeAmount: 6, ProfitMarginPercent: 15},
	})
	assert.Equal(t, 2, s.TotalSales)
	assert.Equal(t, 60.0, s.TotalRevenue)
	assert.Equal(t, 15.0, s.TotalProfit)
	assert.Equal(t, 9.0, s.TotalFees)
	assert.Equal(t, 20.0, s.AverageMargin)
}

func TestMostCommonActionTies(t *testing.T) {
	e := func(actions ...string) []model.LogEntry {
		out := make([]model.LogEntry, 0, len(actions))
		for _, a := range actions {
			out = append(out, model.LogEntry{ActionType: a})
		}
		return out
	}

	assert.Equal(t, "-", MostCommonAction(nil))
	assert.Equal(t, model.ActionAdded, MostCommonAction(e("Added", "Edited", "Deleted")))
	assert.Equal(t, model.ActionEdited, MostCommonAction(e("Edited", "Deleted")))
	assert.Equal(t, model.ActionDeleted, MostCommonAction(e("Deleted", "Deleted", "Added")))
}

func TestSummarizeLogsCountsToday(t *testing.T) {
	entries := []model.LogEntry{
		*entryAt(model.ActionAdded, model.ModuleStock, testNow),
		*entryAt(model.ActionAdded, model.ModuleStock, testNow.AddDate(0, 0, -1)),
	}
	s := SummarizeLogs(entries, testNow)
	assert.Equal(t, 2, s.TotalLogs)
	assert.Equal(t, 1, s.ActionsToday)
	assert.Equal(t, model.ActionAdded, s.MostCommonAction)
}
