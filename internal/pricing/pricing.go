// Package pricing holds the sale arithmetic: PKR to GBP conversion, platform
// fees, net profit and margin. Every function is pure; sale create and sale
// edit must both go through Calculator.Breakdown so stored derived fields
// always match their inputs.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultExchangeRate is the PKR per GBP rate used when none is configured.
const DefaultExchangeRate = 350.0

var hundred = decimal.NewFromInt(100)

// ConvertPkrToGbp converts pkr at rate PKR per GBP. A non-positive or
// non-finite rate is replaced by DefaultExchangeRate.
func ConvertPkrToGbp(pkr, rate float64) float64 {
	if !validRate(rate) {
		rate = DefaultExchangeRate
	}
	return decimal.NewFromFloat(pkr).Div(decimal.NewFromFloat(rate)).InexactFloat64()
}

// PlatformFeeAmount = salePrice * feePercent / 100.
func PlatformFeeAmount(salePrice, feePercent float64) float64 {
	return feeAmount(decimal.NewFromFloat(salePrice), decimal.NewFromFloat(feePercent)).InexactFloat64()
}

// NetProfit = salePrice - baseCostGbp - shipping - PlatformFeeAmount(salePrice, feePercent).
func NetProfit(salePrice, baseCostGbp, shipping, feePercent float64) float64 {
	price := decimal.NewFromFloat(salePrice)
	return price.
		Sub(decimal.NewFromFloat(baseCostGbp)).
		Sub(decimal.NewFromFloat(shipping)).
		Sub(feeAmount(price, decimal.NewFromFloat(feePercent))).
		InexactFloat64()
}

// ProfitMargin is netProfit as a percentage of salePrice, 0 when salePrice is 0.
func ProfitMargin(netProfit, salePrice float64) float64 {
	if salePrice == 0 {
		return 0
	}
	return decimal.NewFromFloat(netProfit).
		Div(decimal.NewFromFloat(salePrice)).
		Mul(hundred).
		InexactFloat64()
}

func feeAmount(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(percent).Div(hundred)
}

// RateSource supplies the current PKR per GBP rate.
type RateSource interface {
	ExchangeRate() float64
}

// Breakdown is every derived value of one sale.
type Breakdown struct {
	BaseCostGbp       float64 `json:"base_cost_gbp"`
	PlatformFeeAmount float64 `json:"platform_fee_amount"`
	NetProfitGbp      float64 `json:"net_profit_gbp"`
	ProfitMargin      float64 `json:"profit_margin_percent"`
}

// Calculator binds the pure functions to a configured exchange rate.
type Calculator struct {
	rates RateSource
}

// NewCalculator returns a Calculator reading the rate from rates on every call.
func NewCalculator(rates RateSource) *Calculator {
	return &Calculator{rates: rates}
}

// Rate returns the configured rate, or the default when unavailable.
func (c *Calculator) Rate() float64 {
	if c == nil || c.rates == nil {
		return DefaultExchangeRate
	}
	if rate := c.rates.ExchangeRate(); validRate(rate) {
		return rate
	}
	return DefaultExchangeRate
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0)
}

// ToGbp converts pkr at the configured rate.
func (c *Calculator) ToGbp(pkr float64) float64 {
	return ConvertPkrToGbp(pkr, c.Rate())
}

// Breakdown derives the stored sale fields from its inputs.
func (c *Calculator) Breakdown(baseCostPkr, salePrice, shipping, feePercent float64) Breakdown {
	baseGbp := c.ToGbp(baseCostPkr)
	net := NetProfit(salePrice, baseGbp, shipping, feePercent)
	return Breakdown{
		BaseCostGbp:       baseGbp,
		PlatformFeeAmount: PlatformFeeAmount(salePrice, feePercent),
		NetProfitGbp:      net,
		ProfitMargin:      ProfitMargin(net, salePrice),
	}
}
