package dto

import "github.com/shopspring/decimal"

// ProductType classifies a line item by excise category.
type ProductType string

const (
	ProductTypeBeer     ProductType = "Beer"
	ProductTypeIML      ProductType = "IML"
	ProductTypeDutyPaid ProductType = "Duty Paid"
)

// PackType is the single-letter packaging code printed on depot invoices.
type PackType string

const (
	PackTypeGlass   PackType = "G"
	PackTypeCarton  PackType = "C"
	PackTypePlastic PackType = "P"
)

// CandidateProduct is one product line recovered from the invoice text
// before catalog validation. Cases and Bottles are already disambiguated;
// TotalQuantity = Cases*PackQty + Bottles.
type CandidateProduct struct {
	BrandNumber   string      `json:"brand_number"`
	Description   string      `json:"description"`
	Size          string      `json:"size"` // e.g. "650ml"
	SizeCode      string      `json:"size_code,omitempty"`
	Cases         int         `json:"cases"`
	Bottles       int         `json:"bottles"`
	TotalQuantity int         `json:"total_quantity"`
	PackQty       int         `json:"pack_qty"`
	ProductType   ProductType `json:"product_type"`
	PackType      PackType    `json:"pack_type"`
	Serial        int         `json:"serial,omitempty"` // line-item number on the invoice, 0 when absent
}

// MasterBrandRecord is one row of the externally maintained brand catalog.
// The engine treats the catalog as read-only input.
type MasterBrandRecord struct {
	ID           string          `json:"id"`
	BrandNumber  string          `json:"brand_number"`
	Name         string          `json:"name"`
	SizeML       int             `json:"size_ml"`
	SizeCode     string          `json:"size_code"`
	PackQuantity int             `json:"pack_quantity"`
	PackType     string          `json:"pack_type"`
	MRP          decimal.Decimal `json:"mrp"`
	Category     string          `json:"category"`
}

// ValidatedItem is a candidate enriched with its matching catalog row.
type ValidatedItem struct {
	CandidateProduct
	MasterBrandID   string          `json:"master_brand_id"`
	MRP             decimal.Decimal `json:"mrp"`
	FormattedSize   string          `json:"formatted_size"`
	MatchConfidence string          `json:"match_confidence"`
}

// SkippedItem is a candidate with no catalog match, kept for operator review.
type SkippedItem struct {
	CandidateProduct
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion"`
}

// FinancialSummary holds the six monetary totals recovered from the
// invoice footer, rounded to two decimal places.
type FinancialSummary struct {
	InvoiceValue            decimal.Decimal `json:"invoice_value"`
	MRPRoundingOff          decimal.Decimal `json:"mrp_rounding_off"`
	NetInvoiceValue         decimal.Decimal `json:"net_invoice_value"`
	RetailExciseTurnoverTax decimal.Decimal `json:"retail_excise_turnover_tax"`
	SpecialExciseCess       decimal.Decimal `json:"special_excise_cess"`
	TCS                     decimal.Decimal `json:"tcs"`
	TotalAmount             decimal.Decimal `json:"total_amount"`
}

// ParseSummary carries the per-parse counters.
type ParseSummary struct {
	ParsedCount    int     `json:"parsed_count"`
	ValidatedCount int     `json:"validated_count"`
	SkippedCount   int     `json:"skipped_count"`
	MatchRate      float64 `json:"match_rate"`
}

// ParseResult is the single structured outcome of one parse invocation.
// Success is false only when no candidate products were found at all;
// unmatched items are still a successful parse with warnings.
type ParseResult struct {
	Success    bool             `json:"success"`
	Confidence float64          `json:"confidence"`
	Method     string           `json:"method,omitempty"`
	Financials FinancialSummary `json:"financials"`
	Items      []ValidatedItem  `json:"items"`
	Skipped    []SkippedItem    `json:"skipped_items"`
	Summary    ParseSummary     `json:"summary"`
	Warnings   []string         `json:"warnings,omitempty"`
	Error      string           `json:"error,omitempty"`
}
