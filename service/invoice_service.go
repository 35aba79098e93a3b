package service

import (
	"image"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liquorops/invoice-parser/client"
	"github.com/liquorops/invoice-parser/dto"
	"github.com/liquorops/invoice-parser/utils"
)

// minEmbeddedTextQuality decides when the PDF text layer is too weak and
// the scanned-page OCR fallback kicks in.
const minEmbeddedTextQuality = 50.0

// InvoiceService turns an uploaded depot invoice into a ParseResult. The
// catalog is loaded once at startup and treated as read-only.
type InvoiceService struct {
	tesseractClient *client.TesseractClient
	pdfProcessor    PDFProcessor
	masterBrands    []dto.MasterBrandRecord
}

func NewInvoiceService(
	tesseractClient *client.TesseractClient,
	pdfProcessor PDFProcessor,
	masterBrands []dto.MasterBrandRecord,
) *InvoiceService {
	return &InvoiceService{
		tesseractClient: tesseractClient,
		pdfProcessor:    pdfProcessor,
		masterBrands:    masterBrands,
	}
}

// ParseInvoiceFile extracts text from an uploaded invoice PDF and runs the
// parsing engine over it. Extraction order: embedded text layer first;
// when that is too weak (scanned invoice), page images plus Tesseract OCR.
func (s *InvoiceService) ParseInvoiceFile(data []byte, filename, password string) (*dto.InvoiceParseResponse, error) {
	var text string
	var images []image.Image

	embedded, err := s.pdfProcessor.ExtractText(data, password)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", filename, err)
	} else {
		text = embedded
	}

	if evaluateTextQuality(text) < minEmbeddedTextQuality {
		log.Printf("PDF %s seems to be scanned or has minimal text, attempting image-based OCR", filename)

		images, err = s.pdfProcessor.ExtractImages(data, password)
		if err != nil || len(images) == 0 {
			log.Printf("Failed to extract images from PDF %s: %v", filename, err)
		} else {
			var combined strings.Builder
			for _, img := range images {
				pageText, pageConf, ocrErr := s.tesseractClient.ExtractTextFromImage(img)
				if ocrErr != nil {
					log.Printf("OCR failed for a page in %s: %v", filename, ocrErr)
					continue
				}
				log.Printf("OCR page done for %s, confidence %.1f", filename, pageConf)
				combined.WriteString(pageText)
				combined.WriteString("\n")
			}
			if len(strings.TrimSpace(combined.String())) > len(strings.TrimSpace(text)) {
				text = combined.String()
			}
		}
	}

	if len(strings.TrimSpace(text)) == 0 {
		return nil, dto.ErrEmptyDocument
	}

	icdc := scanInvoiceBarcode(images)

	return s.buildResponse(text, icdc), nil
}

// ParseText runs the parsing engine over pre-extracted invoice text.
func (s *InvoiceService) ParseText(rawText string) *dto.InvoiceParseResponse {
	return s.buildResponse(rawText, "")
}

func (s *InvoiceService) buildResponse(text, icdc string) *dto.InvoiceParseResponse {
	result := utils.ParseInvoice(text, s.masterBrands)

	if !result.Success {
		log.Printf("Invoice parse failed: %s", result.Error)
	} else {
		log.Printf("Invoice parsed: %d items, %d skipped, match rate %.2f",
			result.Summary.ValidatedCount, result.Summary.SkippedCount, result.Summary.MatchRate)
	}

	return &dto.InvoiceParseResponse{
		RequestID:   uuid.NewString(),
		ICDCNumber:  icdc,
		Result:      result,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}
}

// evaluateTextQuality scores extracted text 0-100 from its length and the
// presence of depot invoice keywords, to decide whether the embedded text
// layer is usable or OCR is needed.
func evaluateTextQuality(text string) float64 {
	if text == "" {
		return 0.0
	}

	score := 0.0

	textLen := len(strings.TrimSpace(text))
	if textLen > 500 {
		score += 40.0
	} else if textLen > 100 {
		score += 20.0
	} else if textLen > 20 {
		score += 10.0
	}

	keywords := []string{
		"invoice", "beer", "iml", "cases", "bottles",
		"excise", "tcs", "mrp", "brand",
	}

	textLower := strings.ToLower(text)
	keywordCount := 0
	for _, keyword := range keywords {
		if strings.Contains(textLower, keyword) {
			keywordCount++
		}
	}

	score += float64(keywordCount) * 6.67

	if score > 100.0 {
		score = 100.0
	}

	return score
}
