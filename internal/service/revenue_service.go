package service

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/apperror"
	"stockledger/internal/clock"
	"stockledger/internal/model"
	"stockledger/internal/pricing"
	"stockledger/internal/repository"
)

type SaleRequest struct {
	TransactionID      string `json:"transaction_id" example:"12"`
	SKU                string `json:"sku" example:"LS-01"`
	SalePriceGbp       Number `json:"sale_price_gbp" swaggertype:"string" example:"20"`
	ShippingGbp        Number `json:"shipping_gbp" swaggertype:"string" example:"2"`
	PlatformFeePercent Number `json:"platform_fee_percent" swaggertype:"string" example:"15"`
	SaleDate           string `json:"sale_date" example:"2026-01-31"`
}

type SaleQuery struct {
	Search string
	SKU    string
	From   *time.Time
	To     *time.Time
}

// FeeSource lists the platform fee percentages offered on the sale form.
type FeeSource interface {
	PlatformFeeList() []float64
}

type RevenueService interface {
	GetSales(q SaleQuery) ([]model.Sale, error)
	GetSummary(q SaleQuery) (model.RevenueSummary, error)
	GetSale(transactionID string) (*model.Sale, error)
	NextTransactionID() (string, error)
	FeeOptions() []float64
	CreateSale(ctx context.Context, req SaleRequest) (*model.Sale, error)
	UpdateSale(ctx context.Context, transactionID string, req SaleRequest) (*model.Sale, error)
	DeleteSale(ctx context.Context, transactionID string) error
}

type revenueService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	activity ActivityService
	calc     *pricing.Calculator
	fees     FeeSource
}

func NewRevenueService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	activity ActivityService,
	calc *pricing.Calculator,
	fees FeeSource,
) RevenueService {
	return &revenueService{
		sales:    sales,
		products: products,
		activity: activity,
		calc:     calc,
		fees:     fees,
	}
}

func (s *revenueService) ready() error {
	if s.sales == nil || s.products == nil {
		return apperror.ErrNoDatabaseConnection
	}
	return nil
}

func (s *revenueService) GetSales(q SaleQuery) ([]model.Sale, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	base := s.sales.Search(q.Search)
	var others [][]model.Sale
	if sku := strings.TrimSpace(q.SKU); sku != "" {
		others = append(others, s.sales.FilterBySKU(sku))
	}
	if q.From != nil || q.To != nil {
		others = append(others, s.sales.FilterByDateRange(q.From, q.To))
	}
	return intersect(func(s model.Sale) string { return s.TransactionID }, base, others...), nil
}

func (s *revenueService) GetSummary(q SaleQuery) (model.RevenueSummary, error) {
	sales, err := s.GetSales(q)
	if err != nil {
		return model.RevenueSummary{}, err
	}
	return repository.SummarizeSales(sales), nil
}

func (s *revenueService) GetSale(transactionID string) (*model.Sale, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sale, ok := s.sales.FindByTransactionID(transactionID)
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return sale, nil
}

func (s *revenueService) NextTransactionID() (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return s.sales.NextTransactionID(), nil
}

func (s *revenueService) FeeOptions() []float64 {
	if s.fees == nil {
		return nil
	}
	return s.fees.PlatformFeeList()
}

func (s *revenueService) CreateSale(ctx context.Context, req SaleRequest) (*model.Sale, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	txID := strings.TrimSpace(req.TransactionID)
	sku := strings.TrimSpace(req.SKU)
	switch {
	case txID == "":
		return nil, apperror.Validation("transaction_id", "Transaction ID is required")
	case sku == "":
		return nil, apperror.Validation("sku", "SKU is required")
	}
	if err := requireSaleFields(req); err != nil {
		return nil, err
	}

	product, ok := s.products.FindBySKU(sku)
	if !ok {
		return nil, apperror.Validation("sku", "Product not found for SKU: "+sku)
	}

	sale := model.Sale{TransactionID: txID, SKU: sku, ProductName: product.Name}
	if err := s.applySaleFields(&sale, product, req); err != nil {
		return nil, err
	}

	if err := s.sales.Add(ctx, &sale); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, model.ActionAdded, model.ModuleRevenue, model.EntitySale, txID, "Sale Transaction ID "+txID)
	return &sale, nil
}

// UpdateSale edits price, shipping, fee and date of a sale and recomputes
// every derived field from the product's current base cost. The product name
// captured at sale time is kept.
func (s *revenueService) UpdateSale(ctx context.Context, transactionID string, req SaleRequest) (*model.Sale, error) {
	sale, err := s.GetSale(transactionID)
	if err != nil {
		return nil, err
	}
	if err := requireSaleFields(req); err != nil {
		return nil, err
	}

	product, ok := s.products.FindBySKU(sale.SKU)
	if !ok {
		return nil, apperror.Validation("sku", "Product not found for SKU: "+sale.SKU)
	}

	if err := s.applySaleFields(sale, product, req); err != nil {
		return nil, err
	}

	if err := s.sales.Update(ctx, sale); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, model.ActionEdited, model.ModuleRevenue, model.EntitySale, sale.TransactionID, "Sale Transaction ID "+sale.TransactionID)
	return sale, nil
}

func (s *revenueService) DeleteSale(ctx context.Context, transactionID string) error {
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.sales.Delete(ctx, transactionID); err != nil {
		return err
	}

	s.activity.Record(ctx, model.ActionDeleted, model.ModuleRevenue, model.EntitySale, transactionID, "Sale Transaction ID "+transactionID)
	return nil
}

func requireSaleFields(req SaleRequest) error {
	switch {
	case req.SalePriceGbp.Blank():
		return apperror.Validation("sale_price_gbp", "Sale Price (GBP) is required")
	case req.PlatformFeePercent.Blank():
		return apperror.Validation("platform_fee_percent", "Platform Fee % is required")
	case strings.TrimSpace(req.SaleDate) == "":
		return apperror.Validation("sale_date", "Sale Date is required")
	}
	return nil
}

// applySaleFields validates the numeric inputs and fills the sale with the
// calculator breakdown. Base cost PKR is re-read with base cost GBP so the
// pair stays consistent.
func (s *revenueService) applySaleFields(sale *model.Sale, product *model.Product, req SaleRequest) error {
	price, ok := req.SalePriceGbp.Float()
	if !ok {
		return apperror.Validation("sale_price_gbp", "Sale Price must be a valid number")
	}
	if price < 0 {
		return apperror.Validation("sale_price_gbp", "Sale Price must be a positive number")
	}

	var shipping float64
	if !req.ShippingGbp.Blank() {
		shipping, ok = req.ShippingGbp.Float()
		if !ok {
			return apperror.Validation("shipping_gbp", "Shipping must be a valid number")
		}
		if shipping < 0 {
			return apperror.Validation("shipping_gbp", "Shipping must be a non-negative number")
		}
	}

	fee, ok := req.PlatformFeePercent.Float()
	if !ok {
		return apperror.Validation("platform_fee_percent", "Platform Fee % must be a valid number")
	}
	if fee < 0 || fee > 100 {
		return apperror.Validation("platform_fee_percent", "Platform Fee % must be between 0 and 100")
	}

	date := strings.TrimSpace(req.SaleDate)
	if _, err := time.Parse(clock.DateLayout, date); err != nil {
		return apperror.Validation("sale_date", "Sale Date must use the YYYY-MM-DD format")
	}

	b := s.calc.Breakdown(product.BaseCostPkr, price, shipping, fee)

	sale.BaseCostPkr = product.BaseCostPkr
	sale.BaseCostGbp = b.BaseCostGbp
	sale.SalePriceGbp = price
	sale.ShippingGbp = shipping
	sale.PlatformFeePercent = fee
	sale.PlatformFeeAmount = b.PlatformFeeAmount
	sale.NetProfitGbp = b.NetProfitGbp
	sale.ProfitMarginPercent = b.ProfitMargin
	sale.SaleDate = date
	return nil
}
