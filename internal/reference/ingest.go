// Package reference parses nutrition reference tables of unknown encoding
// and column order into reference food items.
package reference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/normalize"
)

type Mode string

const (
	ModeHeader Mode = "header"
	ModeFixed  Mode = "fixed"
)

var ErrEmptyTable = errors.New("reference table has no data rows")

type Options struct {
	Mode      Mode
	Encodings []string
	// SkipFirstRow applies to fixed mode only; header mode always consumes
	// the first row as headers.
	SkipFirstRow bool
}

type Result struct {
	Items    []models.ReferenceFood
	Encoding string
	Headers  []string
	Columns  Columns
	Skipped  int
}

// Parse decodes raw and converts every data row into a reference food.
// Rows without a name are skipped; numeric cells go through
// normalize.Number and never fail the parse.
func Parse(raw []byte, options Options) (Result, error) {
	mode := options.Mode
	if mode == "" {
		mode = ModeHeader
	}
	if mode != ModeHeader && mode != ModeFixed {
		return Result{}, fmt.Errorf("unknown ingestion mode %q", mode)
	}

	records, encoding, err := decodeTable(raw, options.Encodings)
	if err != nil {
		return Result{}, err
	}

	result := Result{Encoding: encoding}
	dataRows := records

	switch mode {
	case ModeHeader:
		result.Headers = records[0]
		result.Columns, err = ResolveColumns(records[0])
		if err != nil {
			return Result{}, err
		}
		dataRows = records[1:]
	case ModeFixed:
		result.Columns = FixedLayout
		if options.SkipFirstRow {
			result.Headers = records[0]
			dataRows = records[1:]
		}
	}

	for _, row := range dataRows {
		item, ok := convertRow(row, result.Columns)
		if !ok {
			result.Skipped++
			continue
		}
		result.Items = append(result.Items, item)
	}

	if len(result.Items) == 0 {
		return Result{}, ErrEmptyTable
	}
	return result, nil
}

func convertRow(row []string, columns Columns) (models.ReferenceFood, bool) {
	name := strings.TrimSpace(cell(row, columns.Name))
	if name == "" {
		return models.ReferenceFood{}, false
	}
	return models.ReferenceFood{
		Name: name,
		Per100g: models.Macros{
			Kcal:     normalize.Number(cell(row, columns.Energy)),
			ProteinG: normalize.Number(cell(row, columns.Protein)),
			CarbG:    normalize.Number(cell(row, columns.Carbohydrate)),
			FatG:     normalize.Number(cell(row, columns.Fat)),
		},
	}, true
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
