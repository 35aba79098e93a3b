package service

import (
	"image"
	"regexp"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// Depots print the ICDC number as a Code-128 barcode on the first page.
var icdcPattern = regexp.MustCompile(`^[A-Z0-9]{6,24}$`)

// scanInvoiceBarcode tries to decode the ICDC number barcode from the
// invoice page images. Best effort: returns an empty string when no
// readable barcode is present, which is the normal case for text-layer
// PDFs that were never rendered to images.
func scanInvoiceBarcode(images []image.Image) string {
	reader := oned.NewCode128Reader()

	for _, img := range images {
		bmp, err := gozxing.NewBinaryBitmapFromImage(img)
		if err != nil {
			continue
		}

		result, err := reader.Decode(bmp, nil)
		if err != nil {
			continue
		}

		if text := result.GetText(); icdcPattern.MatchString(text) {
			return text
		}
	}
	return ""
}
