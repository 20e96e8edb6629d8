package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockledger/internal/clock"
	"stockledger/internal/model"
)

func TestSalesCSVQuotesCommas(t *testing.T) {
	svc := NewExportService(clock.Fixed(testNow))
	sales := []model.Sale{
		{SaleDate: "2026-05-19", TransactionID: "1", SKU: "SKU1", ProductName: "Lawn, Blue", SalePriceGbp: 20, BaseCostGbp: 10, ShippingGbp: 2, PlatformFeePercent: 15, PlatformFeeAmount: 3, NetProfitGbp: 5, ProfitMarginPercent: 25},
		{SaleDate: "2026-05-20", TransactionID: "2", SKU: "SKU2", ProductName: "Shawl", SalePriceGbp: 12.5},
	}

	out, err := svc.Sales(sales, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "revenue_export_2026-05-20.csv", out.Filename)

	lines := strings.Split(strings.TrimSpace(string(out.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Transaction ID,SKU,Product Name,Sale Price (GBP),Base Cost (GBP),Shipping,Fee %,Fee Amount,Net Profit (GBP),Margin %", lines[0])
	assert.Equal(t, `2026-05-19,1,SKU1,"Lawn, Blue",20.00,10.00,2.00,15.0,3.00,5.00,25.00`, lines[1])
	assert.Equal(t, "2026-05-20,2,SKU2,Shawl,12.50,0.00,0.00,0.0,0.00,0.00,0.00", lines[2])
}

func TestProductsCSVEscapesQuotes(t *testing.T) {
	svc := NewExportService(clock.Fixed(testNow))
	out, err := svc.Products([]model.Product{
		{SKU: "A", Name: `12" Scarf`, BaseCostPkr: 3500, Quantity: 2, QuantitySold: 1, DateAdded: "2026-01-01"},
	}, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "stock_export_2026-05-20.csv", out.Filename)
	assert.Contains(t, string(out.Body), `A,"12"" Scarf",,,,,3500.00,2,1,2026-01-01`)
}

func TestLogsXLSX(t *testing.T) {
	svc := NewExportService(clock.Fixed(testNow))
	out, err := svc.Logs([]model.LogEntry{
		{TimestampPkt: "2026-05-20 14:30:00", TimestampGmt: "2026-05-20 10:30:00", ActionType: "Added", Module: "Stock", EntityType: "Product", Details: "Product A"},
	}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "logs_export_2026-05-20.xlsx", out.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(out.Body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Logs")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Time (PKT)", rows[0][0])
	assert.Equal(t, "Product A", rows[1][5])
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseExportFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseExportFormat("pdf")
	assert.Error(t, err)
}
