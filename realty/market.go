package realty

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MortgageQuote breaks down a fixed-rate mortgage.
type MortgageQuote struct {
	PropertyPrice         float64 `json:"property_price"`
	DownPayment           float64 `json:"down_payment"`
	LoanAmount            float64 `json:"loan_amount"`
	InterestRate          string  `json:"interest_rate"`
	LoanTermYears         int     `json:"loan_term_years"`
	MonthlyPayment        float64 `json:"monthly_payment"`
	TotalPaid             float64 `json:"total_paid"`
	TotalInterest         float64 `json:"total_interest"`
	DownPaymentPercentage float64 `json:"down_payment_percentage"`
}

// ErrDownPaymentTooLarge rejects loans with nothing left to finance.
var ErrDownPaymentTooLarge = errors.New("down payment must be less than property price")

// CalculateMortgage computes the monthly payment for a fixed-rate loan using
// the standard amortization formula. interestRate is annual, as a decimal
// (0.05 for 5%). A zero rate falls back to straight division.
func CalculateMortgage(propertyPrice, downPayment, interestRate float64, loanTermYears int) (MortgageQuote, error) {
	loanAmount := propertyPrice - downPayment
	if loanAmount <= 0 {
		return MortgageQuote{}, ErrDownPaymentTooLarge
	}
	if loanTermYears <= 0 {
		loanTermYears = 30
	}

	monthlyRate := interestRate / 12
	numPayments := loanTermYears * 12

	var monthlyPayment float64
	if monthlyRate == 0 {
		monthlyPayment = loanAmount / float64(numPayments)
	} else {
		growth := math.Pow(1+monthlyRate, float64(numPayments))
		monthlyPayment = loanAmount * (monthlyRate * growth) / (growth - 1)
	}

	totalPaid := monthlyPayment * float64(numPayments)

	return MortgageQuote{
		PropertyPrice:         propertyPrice,
		DownPayment:           downPayment,
		LoanAmount:            round2(loanAmount),
		InterestRate:          fmt.Sprintf("%.2f%%", interestRate*100),
		LoanTermYears:         loanTermYears,
		MonthlyPayment:        round2(monthlyPayment),
		TotalPaid:             round2(totalPaid),
		TotalInterest:         round2(totalPaid - loanAmount),
		DownPaymentPercentage: round2(downPayment / propertyPrice * 100),
	}, nil
}

// MarketTrend summarizes recent market movement for an area.
type MarketTrend struct {
	Location        string  `json:"location"`
	AveragePrice    float64 `json:"average_price"`
	PriceChange3Mo  string  `json:"price_change_3mo"`
	PriceChange1Yr  string  `json:"price_change_1yr"`
	DaysOnMarketAvg int     `json:"days_on_market_avg"`
	InventoryLevel  string  `json:"inventory_level"`
	MarketSentiment string  `json:"market_sentiment"`
	PricePerSqft    float64 `json:"price_per_sqft"`
}

var marketTrends = map[string]MarketTrend{
	"downtown": {
		AveragePrice:    450000,
		PriceChange3Mo:  "+5.2%",
		PriceChange1Yr:  "+12.5%",
		DaysOnMarketAvg: 45,
		InventoryLevel:  "low",
		MarketSentiment: "seller's market",
		PricePerSqft:    375,
	},
	"suburbs": {
		AveragePrice:    650000,
		PriceChange3Mo:  "+3.8%",
		PriceChange1Yr:  "+8.9%",
		DaysOnMarketAvg: 60,
		InventoryLevel:  "moderate",
		MarketSentiment: "balanced",
		PricePerSqft:    260,
	},
	"beachfront": {
		AveragePrice:    850000,
		PriceChange3Mo:  "+7.1%",
		PriceChange1Yr:  "+15.3%",
		DaysOnMarketAvg: 30,
		InventoryLevel:  "very low",
		MarketSentiment: "strong seller's market",
		PricePerSqft:    550,
	},
}

// TrendsFor returns the market snapshot for a location, falling back to a
// neutral profile for unknown areas.
func TrendsFor(location string) MarketTrend {
	trend, ok := marketTrends[strings.ToLower(location)]
	if !ok {
		trend = MarketTrend{
			AveragePrice:    500000,
			PriceChange3Mo:  "+4.0%",
			PriceChange1Yr:  "+10.0%",
			DaysOnMarketAvg: 50,
			InventoryLevel:  "moderate",
			MarketSentiment: "balanced",
			PricePerSqft:    300,
		}
	}
	trend.Location = location
	return trend
}

// Comparison sets listings side by side with aggregate ranges.
type Comparison struct {
	Properties []Property        `json:"properties"`
	Summary    ComparisonSummary `json:"summary"`
}

// ComparisonSummary aggregates the compared listings.
type ComparisonSummary struct {
	Count        int        `json:"count"`
	PriceRange   ValueRange `json:"price_range"`
	BedroomRange ValueRange `json:"bedroom_range"`
	AreaRange    ValueRange `json:"area_range"`
}

// ValueRange is a min/max pair with an optional average.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg,omitempty"`
}

// ErrNoPropertiesFound reports a comparison over unknown ids.
var ErrNoPropertiesFound = errors.New("no properties found")

// Compare gathers the named listings and summarizes their spread.
func (c *Catalog) Compare(ids []string) (Comparison, error) {
	var properties []Property
	for _, id := range ids {
		if p, ok := c.Get(id); ok {
			properties = append(properties, p)
		}
	}
	if len(properties) == 0 {
		return Comparison{}, ErrNoPropertiesFound
	}

	summary := ComparisonSummary{
		Count:        len(properties),
		PriceRange:   ValueRange{Min: math.Inf(1), Max: math.Inf(-1)},
		BedroomRange: ValueRange{Min: math.Inf(1), Max: math.Inf(-1)},
		AreaRange:    ValueRange{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	var priceSum, areaSum float64
	for _, p := range properties {
		summary.PriceRange.Min = math.Min(summary.PriceRange.Min, p.Price)
		summary.PriceRange.Max = math.Max(summary.PriceRange.Max, p.Price)
		summary.BedroomRange.Min = math.Min(summary.BedroomRange.Min, float64(p.Bedrooms))
		summary.BedroomRange.Max = math.Max(summary.BedroomRange.Max, float64(p.Bedrooms))
		summary.AreaRange.Min = math.Min(summary.AreaRange.Min, p.AreaSqft)
		summary.AreaRange.Max = math.Max(summary.AreaRange.Max, p.AreaSqft)
		priceSum += p.Price
		areaSum += p.AreaSqft
	}
	summary.PriceRange.Avg = round2(priceSum / float64(len(properties)))
	summary.AreaRange.Avg = round2(areaSum / float64(len(properties)))

	return Comparison{Properties: properties, Summary: summary}, nil
}
