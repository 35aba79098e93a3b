// Package catalog loads the master brand catalog from operator-maintained
// files. The parsing engine never touches these files itself; it only
// consumes the in-memory records.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/liquorops/invoice-parser/dto"
)

// Expected columns, in order:
// id, brand_number, name, size_ml, size_code, pack_quantity, pack_type, mrp, category
const columnCount = 9

// LoadFromFile reads master brand records from a CSV or XLSX file,
// dispatching on the file extension.
func LoadFromFile(path string) ([]dto.MasterBrandRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported catalog file type: %s", path)
	}
}

func loadCSV(path string) ([]dto.MasterBrandRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	var records []dto.MasterBrandRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog row in %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func loadXLSX(path string) ([]dto.MasterBrandRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s from %s: %w", sheet, path, err)
	}

	var records []dto.MasterBrandRecord
	for i, row := range rows {
		if i == 0 {
			// header
			continue
		}
		if len(row) == 0 {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog row %d in %s: %w", i+1, path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (dto.MasterBrandRecord, error) {
	if len(row) < columnCount {
		return dto.MasterBrandRecord{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(row))
	}

	sizeML, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return dto.MasterBrandRecord{}, fmt.Errorf("could not parse size_ml '%s': %w", row[3], err)
	}

	packQty, err := strconv.Atoi(strings.TrimSpace(row[5]))
	if err != nil {
		return dto.MasterBrandRecord{}, fmt.Errorf("could not parse pack_quantity '%s': %w", row[5], err)
	}

	mrp, err := decimal.NewFromString(strings.TrimSpace(row[7]))
	if err != nil {
		return dto.MasterBrandRecord{}, fmt.Errorf("could not parse mrp '%s': %w", row[7], err)
	}

	return dto.MasterBrandRecord{
		ID:           strings.TrimSpace(row[0]),
		BrandNumber:  strings.TrimSpace(row[1]),
		Name:         strings.TrimSpace(row[2]),
		SizeML:       sizeML,
		SizeCode:     strings.TrimSpace(row[4]),
		PackQuantity: packQty,
		PackType:     strings.TrimSpace(row[6]),
		MRP:          mrp,
		Category:     strings.TrimSpace(row[8]),
	}, nil
}
