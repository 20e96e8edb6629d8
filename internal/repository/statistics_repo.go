package repository

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/internal/clock"
	"stockledger/internal/model"
	"stockledger/internal/pricing"
)

// SummarizeProducts totals a product list. Value totals are the sum of the
// per-item base costs.
func SummarizeProducts(products []model.Product, calc *pricing.Calculator) model.StockSummary {
	total := decimal.Zero
	summary := model.StockSummary{
		TotalProducts: len(products),
		ExchangeRate:  calc.Rate(),
	}
	for _, p := range products {
		total = total.Add(decimal.NewFromFloat(p.BaseCostPkr))
		summary.TotalQuantity += p.Quantity
		summary.TotalQuantitySold += p.QuantitySold
	}
	summary.TotalValuePkr = total.InexactFloat64()
	summary.TotalValueGbp = calc.ToGbp(summary.TotalValuePkr)
	return summary
}

// SummarizeSales totals a sale list; the average margin of no sales is 0.
func SummarizeSales(sales []model.Sale) model.RevenueSummary {
	revenue, profit, fees, margins := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range sales {
		revenue = revenue.Add(decimal.NewFromFloat(s.SalePriceGbp))
		profit = profit.Add(decimal.NewFromFloat(s.NetProfitGbp))
		fees = fees.Add(decimal.NewFromFloat(s.PlatformFeeAmount))
		margins = margins.Add(decimal.NewFromFloat(s.ProfitMarginPercent))
	}

	summary := model.RevenueSummary{
		TotalSales:   len(sales),
		TotalRevenue: revenue.InexactFloat64(),
		TotalProfit:  profit.InexactFloat64(),
		TotalFees:    fees.InexactFloat64(),
	}
	if len(sales) > 0 {
		summary.AverageMargin = margins.Div(decimal.NewFromInt(int64(len(sales)))).InexactFloat64()
	}
	return summary
}

// SummarizeLogs counts entries, the ones recorded on now's Pakistan date, and
// picks the most common action.
func SummarizeLogs(entries []model.LogEntry, now time.Time) model.LogSummary {
	today := clock.Today(now)
	summary := model.LogSummary{TotalLogs: len(entries)}
	for _, e := range entries {
		if strings.HasPrefix(e.TimestampPkt, today) {
			summary.ActionsToday++
		}
	}
	summary.MostCommonAction = MostCommonAction(entries)
	return summary
}

// MostCommonAction returns "-" for no entries. Ties go to Added, then Edited.
func MostCommonAction(entries []model.LogEntry) string {
	if len(entries) == 0 {
		return "-"
	}

	var added, edited, deleted int
	for _, e := range entries {
		switch e.ActionType {
		case model.ActionAdded:
			added++
		case model.ActionEdited:
			edited++
		case model.ActionDeleted:
			deleted++
		}
	}

	switch {
	case added >= edited && added >= deleted:
		return model.ActionAdded
	case edited >= deleted:
		return model.ActionEdited
	default:
		return model.ActionDeleted
	}
}
