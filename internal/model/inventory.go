package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is one stock line, keyed by SKU. Base cost is in PKR.
type Product struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	SKU          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Size         string    `gorm:"type:varchar(50)" json:"size"`
	Color        string    `gorm:"type:varchar(50)" json:"color"`
	Material     string    `gorm:"type:varchar(100)" json:"material"`
	Brand        string    `gorm:"type:varchar(100);index" json:"brand"`
	BaseCostPkr  float64   `gorm:"type:double precision;not null;default:0" json:"base_cost_pkr"`
	Quantity     int       `gorm:"type:int;not null;default:0" json:"quantity"`
	QuantitySold int       `gorm:"type:int;not null;default:0" json:"quantity_sold"`
	DateAdded    string    `gorm:"type:varchar(10)" json:"date_added"` // YYYY-MM-DD
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Sale is one sold item, keyed by transaction ID. Product name and base cost
// are snapshots taken at sale time; the fee amount, net profit and margin are
// derived by the pricing package and must be recomputed on every edit.
// Amounts are double precision columns so a reload returns the exact values
// the calculator produced.
type Sale struct {
	ID                  uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	TransactionID       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"transaction_id"`
	SKU                 string    `gorm:"type:varchar(100);index" json:"sku"`
	ProductName         string    `gorm:"type:varchar(255)" json:"product_name"`
	BaseCostPkr         float64   `gorm:"type:double precision;not null;default:0" json:"base_cost_pkr"`
	BaseCostGbp         float64   `gorm:"type:double precision;not null;default:0" json:"base_cost_gbp"`
	SalePriceGbp        float64   `gorm:"type:double precision;not null;default:0" json:"sale_price_gbp"`
	ShippingGbp         float64   `gorm:"type:double precision;not null;default:0" json:"shipping_gbp"`
	PlatformFeePercent  float64   `gorm:"type:double precision;not null;default:0" json:"platform_fee_percent"`
	PlatformFeeAmount   float64   `gorm:"type:double precision;not null;default:0" json:"platform_fee_amount"`
	NetProfitGbp        float64   `gorm:"type:double precision;not null;default:0" json:"net_profit_gbp"`
	ProfitMarginPercent float64   `gorm:"type:double precision;not null;default:0" json:"profit_margin_percent"`
	SaleDate            string    `gorm:"type:varchar(10);index" json:"sale_date"` // YYYY-MM-DD
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
