package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"stockledger/internal/apperror"
	"stockledger/internal/clock"
	"stockledger/internal/model"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat accepts "csv" (the default when blank) or "xlsx".
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", apperror.Validation("format", "Export format must be csv or xlsx")
	}
}

// Export is a rendered file ready to be sent as an attachment.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportService interface {
	Products(products []model.Product, format ExportFormat) (*Export, error)
	Sales(sales []model.Sale, format ExportFormat) (*Export, error)
	Logs(entries []model.LogEntry, format ExportFormat) (*Export, error)
}

type exportService struct {
	clock clock.Clock
}

func NewExportService(clk clock.Clock) ExportService {
	if clk == nil {
		clk = clock.System
	}
	return &exportService{clock: clk}
}

// fixed is a number rendered with a fixed count of decimals.
type fixed struct {
	v    float64
	prec int
}

type table struct {
	name   string
	header []string
	rows   [][]interface{}
}

func (s *exportService) Products(products []model.Product, format ExportFormat) (*Export, error) {
	t := table{
		name:   "stock",
		header: []string{"SKU", "Name", "Size", "Color", "Material", "Brand", "Base Cost (PKR)", "Quantity", "Quantity Sold", "Date Added"},
	}
	for _, p := range products {
		t.rows = append(t.rows, []interface{}{
			p.SKU, p.Name, p.Size, p.Color, p.Material, p.Brand,
			fixed{p.BaseCostPkr, 2}, p.Quantity, p.QuantitySold, p.DateAdded,
		})
	}
	return s.render(t, format)
}

func (s *exportService) Sales(sales []model.Sale, format ExportFormat) (*Export, error) {
	t := table{
		name:   "revenue",
		header: []string{"Date", "Transaction ID", "SKU", "Product Name", "Sale Price (GBP)", "Base Cost (GBP)", "Shipping", "Fee %", "Fee Amount", "Net Profit (GBP)", "Margin %"},
	}
	for _, sale := range sales {
		t.rows = append(t.rows, []interface{}{
			sale.SaleDate, sale.TransactionID, sale.SKU, sale.ProductName,
			fixed{sale.SalePriceGbp, 2},
			fixed{sale.BaseCostGbp, 2},
			fixed{sale.ShippingGbp, 2},
			fixed{sale.PlatformFeePercent, 1},
			fixed{sale.PlatformFeeAmount, 2},
			fixed{sale.NetProfitGbp, 2},
			fixed{sale.ProfitMarginPercent, 2},
		})
	}
	return s.render(t, format)
}

func (s *exportService) Logs(entries []model.LogEntry, format ExportFormat) (*Export, error) {
	t := table{
		name:   "logs",
		header: []string{"Time (PKT)", "Time (GMT/BST)", "Action", "Module", "Entity", "Details"},
	}
	for _, e := range entries {
		t.rows = append(t.rows, []interface{}{
			e.TimestampPkt, e.TimestampGmt, e.ActionType, e.Module, e.EntityType, e.Details,
		})
	}
	return s.render(t, format)
}

func (s *exportService) render(t table, format ExportFormat) (*Export, error) {
	base := fmt.Sprintf("%s_export_%s", t.name, clock.Today(s.clock.Now()))

	switch format {
	case FormatXLSX:
		body, err := writeXLSX(t)
		if err != nil {
			return nil, apperror.Store("export "+t.name, err)
		}
		return &Export{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	default:
		body, err := writeCSV(t)
		if err != nil {
			return nil, apperror.Store("export "+t.name, err)
		}
		return &Export{
			Filename:    base + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Body:        body,
		}, nil
	}
}

func writeCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.header); err != nil {
		return nil, err
	}
	record := make([]string, len(t.header))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = cellText(cell)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func cellText(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case fixed:
		return strconv.FormatFloat(v.v, 'f', v.prec, 64)
	default:
		return fmt.Sprint(v)
	}
}

func writeXLSX(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := strings.ToUpper(t.name[:1]) + t.name[1:]
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for col, title := range t.header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheet, cell, title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return nil, err
		}
	}

	for r, row := range t.rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			switch v := value.(type) {
			case fixed:
				err = f.SetCellFloat(sheet, cell, v.v, v.prec, 64)
			case int:
				err = f.SetCellValue(sheet, cell, v)
			default:
				err = f.SetCellStr(sheet, cell, cellText(v))
			}
			if err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
