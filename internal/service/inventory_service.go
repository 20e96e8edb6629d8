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

// DTOs
type ProductRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Size         string `json:"size"`
	Color        string `json:"color"`
	Material     string `json:"material"`
	Brand        string `json:"brand"`
	BaseCostPkr  Number `json:"base_cost_pkr" swaggertype:"string" example:"3500"`
	Quantity     Number `json:"quantity" swaggertype:"string" example:"4"`
	QuantitySold Number `json:"quantity_sold" swaggertype:"string" example:"0"`
	DateAdded    string `json:"date_added" example:"2026-01-31"` // optional, defaults to today
}

type ProductQuery struct {
	Search string
	From   *time.Time
	To     *time.Time
}

type StockService interface {
	GetProducts(q ProductQuery) ([]model.Product, error)
	GetSummary(q ProductQuery) (model.StockSummary, error)
	GetProduct(sku string) (*model.Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, sku string, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, sku string) error
}

type stockService struct {
	products repository.ProductRepository
	activity ActivityService
	calc     *pricing.Calculator
	clock    clock.Clock
}

func NewStockService(
	products repository.ProductRepository,
	activity ActivityService,
	calc *pricing.Calculator,
	clk clock.Clock,
) StockService {
	if clk == nil {
		clk = clock.System
	}
	return &stockService{
		products: products,
		activity: activity,
		calc:     calc,
		clock:    clk,
	}
}

func (s *stockService) GetProducts(q ProductQuery) ([]model.Product, error) {
	if s.products == nil {
		return nil, apperror.ErrNoDatabaseConnection
	}

	base := s.products.Search(q.Search)
	if q.From == nil && q.To == nil {
		return base, nil
	}
	return intersect(func(p model.Product) string { return p.SKU }, base, s.products.FilterByDateRange(q.From, q.To)), nil
}

func (s *stockService) GetSummary(q ProductQuery) (model.StockSummary, error) {
	products, err := s.GetProducts(q)
	if err != nil {
		return model.StockSummary{}, err
	}
	return repository.SummarizeProducts(products, s.calc), nil
}

func (s *stockService) GetProduct(sku string) (*model.Product, error) {
	if s.products == nil {
		return nil, apperror.ErrNoDatabaseConnection
	}
	p, ok := s.products.FindBySKU(sku)
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return p, nil
}

func (s *stockService) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	if s.products == nil {
		return nil, apperror.ErrNoDatabaseConnection
	}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, apperror.Validation("sku", "SKU is required")
	}

	product := model.Product{SKU: sku}
	if err := applyProductFields(&product, req); err != nil {
		return nil, err
	}

	product.DateAdded = strings.TrimSpace(req.DateAdded)
	if product.DateAdded == "" {
		product.DateAdded = clock.Today(s.clock.Now())
	} else if _, ok := clock.ParseDatePrefix(product.DateAdded); !ok {
		return nil, apperror.Validation("date_added", "Date Added must use the YYYY-MM-DD format")
	}

	if err := s.products.Add(ctx, &product); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, model.ActionAdded, model.ModuleStock, model.EntityProduct, sku, "Product "+sku)
	return &product, nil
}

// UpdateProduct edits the product stored under sku. The SKU itself and the
// date added are kept.
func (s *stockService) UpdateProduct(ctx context.Context, sku string, req ProductRequest) (*model.Product, error) {
	product, err := s.GetProduct(sku)
	if err != nil {
		return nil, err
	}

	if err := applyProductFields(product, req); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, model.ActionEdited, model.ModuleStock, model.EntityProduct, product.SKU, "Product "+product.SKU)
	return product, nil
}

func (s *stockService) DeleteProduct(ctx context.Context, sku string) error {
	if s.products == nil {
		return apperror.ErrNoDatabaseConnection
	}

	if err := s.products.Delete(ctx, sku); err != nil {
		return err
	}

	s.activity.Record(ctx, model.ActionDeleted, model.ModuleStock, model.EntityProduct, sku, "Product "+sku)
	return nil
}

// applyProductFields validates the editable fields of req onto p.
func applyProductFields(p *model.Product, req ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperror.Validation("name", "Product Name is required")
	}
	if req.BaseCostPkr.Blank() {
		return apperror.Validation("base_cost_pkr", "Base Cost (PKR) is required")
	}
	baseCost, ok := req.BaseCostPkr.Float()
	if !ok {
		return apperror.Validation("base_cost_pkr", "Base Cost must be a valid number")
	}
	if baseCost < 0 {
		return apperror.Validation("base_cost_pkr", "Base Cost must be a positive number")
	}

	quantity, err := optionalCount(req.Quantity, "quantity", "Quantity")
	if err != nil {
		return err
	}
	sold, err := optionalCount(req.QuantitySold, "quantity_sold", "Quantity Sold")
	if err != nil {
		return err
	}

	p.Name = name
	p.Size = strings.TrimSpace(req.Size)
	p.Color = strings.TrimSpace(req.Color)
	p.Material = strings.TrimSpace(req.Material)
	p.Brand = strings.TrimSpace(req.Brand)
	p.BaseCostPkr = baseCost
	p.Quantity = quantity
	p.QuantitySold = sold
	return nil
}
