package dto

import (
	"errors"
	"mime/multipart"
)

// InvoiceParseRequest represents an uploaded invoice document
type InvoiceParseRequest struct {
	File     *multipart.FileHeader `form:"file" binding:"required"`
	Password string                `form:"password"`
}

// Validate performs basic validation on the request
func (r *InvoiceParseRequest) Validate() error {
	if r.File == nil {
		return ErrNoFileProvided
	}
	if r.File.Size == 0 {
		return errors.New("uploaded file is empty")
	}
	return nil
}

// TextParseRequest carries pre-extracted invoice text
type TextParseRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate performs basic validation on the request
func (r *TextParseRequest) Validate() error {
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
