package dto

import "errors"

// Custom errors
var (
	ErrNoFileProvided = errors.New("no invoice file provided")
	ErrEmptyDocument  = errors.New("no text could be extracted from the document")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// InvoiceParseResponse is the final response structure
type InvoiceParseResponse struct {
	RequestID   string      `json:"request_id"`
	ICDCNumber  string      `json:"icdc_number,omitempty"`
	Result      ParseResult `json:"result"`
	ProcessedAt string      `json:"processed_at"`
}
