package model

// StockSummary aggregates a list of products.
type StockSummary struct {
	TotalProducts     int     `json:"total_products"`
	TotalQuantity     int     `json:"total_quantity"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalValuePkr     float64 `json:"total_value_pkr"`
	TotalValueGbp     float64 `json:"total_value_gbp"`
	ExchangeRate      float64 `json:"gbp_to_pkr_rate"`
}

// RevenueSummary aggregates a list of sales. Money is in GBP.
type RevenueSummary struct {
	TotalSales    int     `json:"total_sales"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalProfit   float64 `json:"total_profit"`
	TotalFees     float64 `json:"total_fees"`
	AverageMargin float64 `json:"average_margin"`
}

// LogSummary aggregates a list of log entries.
type LogSummary struct {
	TotalLogs        int    `json:"total_logs"`
	ActionsToday     int    `json:"actions_today"`
	MostCommonAction string `json:"most_common_action"`
}
