package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/liquorops/invoice-parser/catalog"
	"github.com/liquorops/invoice-parser/client"
	"github.com/liquorops/invoice-parser/config"
	"github.com/liquorops/invoice-parser/dto"
	"github.com/liquorops/invoice-parser/handler"
	"github.com/liquorops/invoice-parser/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Load the master brand catalog; the service still runs without it,
	// every parsed item just lands in skipped_items
	masterBrands, err := catalog.LoadFromFile(cfg.CatalogPath)
	if err != nil {
		log.Printf("Warning: could not load master brand catalog from %s: %v", cfg.CatalogPath, err)
		masterBrands = []dto.MasterBrandRecord{}
	}
	log.Printf("Loaded %d master brand records", len(masterBrands))

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	invoiceService := service.NewInvoiceService(tesseractClient, pdfProcessor, masterBrands)

	// Initialize handler layer
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Depot Invoice Parser",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		invoice := api.Group("/invoice")
		{
			invoice.POST("/parse", invoiceHandler.ParseInvoice)
			invoice.POST("/parse-text", invoiceHandler.ParseText)
		}
	}

	// Start server
	log.Printf("Starting Depot Invoice Parser on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
