package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/skiguide/backend/internal/domain"
)

// Expected CSV header. Columns may appear in any order; unknown columns are
// ignored so catalog exports can carry extra fields.
const (
	colID         = "id"
	colTitle      = "title"
	colBrand      = "brand"
	colCategory   = "category"
	colTags       = "tags"
	colWaistWidth = "waist_width_mm"
	colPrice      = "price"
	colSalePrice  = "sale_price"
	colWeight     = "weight_grams"
	colTurnRadius = "turn_radius_m"
	colLengths    = "lengths_cm"
	colTwinTip    = "twin_tip"
)

// LoadCSV reads a catalog export. Rows missing an id or title are skipped, not
// fatal: one bad export row must not take the whole catalog down. Sentinel
// scrubbing happens here so CSV-sourced records match database-sourced ones.
func LoadCSV(path string, sentinel domain.SentinelFilter) ([]domain.ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	return parseCSV(f, sentinel)
}

func parseCSV(r io.Reader, sentinel domain.SentinelFilter) ([]domain.ProductRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index[colTitle]; !ok {
		return nil, fmt.Errorf("catalog csv has no %q column", colTitle)
	}

	var records []domain.ProductRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog csv line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		record := domain.ProductRecord{
			ID:           field(colID),
			Title:        field(colTitle),
			Brand:        field(colBrand),
			Category:     field(colCategory),
			Tags:         splitList(field(colTags)),
			WaistWidthMM: parseFloat(field(colWaistWidth)),
			Price:        parseFloat(field(colPrice)),
			SalePrice:    parseFloat(field(colSalePrice)),
			WeightGrams:  parseFloat(field(colWeight)),
			TurnRadiusM:  parseFloat(field(colTurnRadius)),
			LengthsCM:    parseLengths(field(colLengths)),
			TwinTip:      parseBool(field(colTwinTip)),
		}
		if record.Title == "" {
			continue
		}
		if record.ID == "" {
			record.ID = strconv.Itoa(line - 1)
		}
		records = append(records, sentinel.Apply(record))
	}
	return records, nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return domain.Float64(v)
}

func parseBool(s string) *bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return domain.Bool(true)
	case "false", "no", "0":
		return domain.Bool(false)
	default:
		return nil
	}
}
