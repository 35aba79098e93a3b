package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liquorops/invoice-parser/dto"
	"github.com/liquorops/invoice-parser/service"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// ParseInvoice handles the POST /invoice/parse endpoint
func (h *InvoiceHandler) ParseInvoice(c *gin.Context) {
	log.Println("Received invoice parse request")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No invoice file provided", err)
		return
	}

	request := &dto.InvoiceParseRequest{
		File:     fileHeader,
		Password: c.PostForm("password"),
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	response, err := h.invoiceService.ParseInvoiceFile(data, fileHeader.Filename, request.Password)
	if err != nil {
		h.sendError(c, http.StatusUnprocessableEntity, "Failed to extract invoice text", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ParseText handles the POST /invoice/parse-text endpoint for callers that
// already hold extracted invoice text
func (h *InvoiceHandler) ParseText(c *gin.Context) {
	var request dto.TextParseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, h.invoiceService.ParseText(request.Text))
}

// sendError sends a structured error response
func (h *InvoiceHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "INVOICE_PARSE_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
