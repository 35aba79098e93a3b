package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateTextQualityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, evaluateTextQuality(""))
}

func TestEvaluateTextQualityShortGibberish(t *testing.T) {
	// Typical garbage from a scanned page: short and keyword-free.
	score := evaluateTextQuality("x7 @@ ~~ q")
	assert.Less(t, score, minEmbeddedTextQuality)
}

func TestEvaluateTextQualityRealInvoiceText(t *testing.T) {
	text := `RETAIL INVOICE
Brand wise summary of Beer and IML
Cases Bottles MRP details
Excise duty and TCS follow below.
` + strings.Repeat("KING FISHER PREMIUM LAGER BEER 650ml 12/650 ml\n", 15)

	score := evaluateTextQuality(text)
	assert.GreaterOrEqual(t, score, minEmbeddedTextQuality)
	assert.LessOrEqual(t, score, 100.0)
}

func TestEvaluateTextQualityLengthTiers(t *testing.T) {
	short := strings.Repeat("a", 50)
	medium := strings.Repeat("a", 200)
	long := strings.Repeat("a", 600)

	assert.Equal(t, 10.0, evaluateTextQuality(short))
	assert.Equal(t, 20.0, evaluateTextQuality(medium))
	assert.Equal(t, 40.0, evaluateTextQuality(long))
}

func TestEvaluateTextQualityCapped(t *testing.T) {
	text := strings.Repeat("invoice beer iml cases bottles excise tcs mrp brand ", 20)
	assert.Equal(t, 100.0, evaluateTextQuality(text))
}
