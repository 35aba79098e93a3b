package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

const catalogHeader = "id,brand_number,name,size_ml,size_code,pack_quantity,pack_type,mrp,category"

func TestLoadFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master_brands.csv")
	content := catalogHeader + "\n" +
		"mb-1,5016,KING FISHER PREMIUM LAGER BEER,650,BL,12,G,150.00,Beer\n" +
		"mb-2,1111,ROYAL CHALLENGE WHISKY,750,QQ,12,G,1200.00,IML\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := LoadFromFile(path)

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "mb-1", records[0].ID)
	assert.Equal(t, "5016", records[0].BrandNumber)
	assert.Equal(t, 650, records[0].SizeML)
	assert.Equal(t, 12, records[0].PackQuantity)
	assert.Equal(t, "G", records[0].PackType)
	assert.Equal(t, "150", records[0].MRP.String())
	assert.Equal(t, "Beer", records[0].Category)
}

func TestLoadFromXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master_brands.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"id", "brand_number", "name", "size_ml", "size_code", "pack_quantity", "pack_type", "mrp", "category"},
		{"mb-1", "5016", "KING FISHER PREMIUM LAGER BEER", "650", "BL", "12", "G", "150.00", "Beer"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	assert.NoError(t, f.SaveAs(path))
	assert.NoError(t, f.Close())

	records, err := LoadFromFile(path)

	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "5016", records[0].BrandNumber)
	assert.Equal(t, 650, records[0].SizeML)
}

func TestLoadFromFileUnsupportedType(t *testing.T) {
	_, err := LoadFromFile("master_brands.json")
	assert.Error(t, err)
}

func TestLoadFromCSVBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master_brands.csv")
	content := catalogHeader + "\n" +
		"mb-1,5016,KING FISHER,not-a-number,BL,12,G,150.00,Beer\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
