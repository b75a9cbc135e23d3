package loader

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"kolanalytics/internal/kol/models"
	"kolanalytics/pkg/platform/sentinel"
)

// ExcelLoader reads KOL rows from an .xlsx workbook. Row 1 is the header;
// header cells are matched against columnAliases.
type ExcelLoader struct {
	path string
	opts options
}

type column int

const (
	colID column = iota
	colName
	colAffiliation
	colCountry
	colCity
	colExpertiseArea
	colPublications
	colHIndex
	colCitations
)

var columnAliases = map[string]column{
	"id":         colID,
	"kol_id":     colID,
	"identifier": colID,

	"name":        colName,
	"full_name":   colName,
	"kol_name":    colName,
	"doctor_name": colName,

	"affiliation":  colAffiliation,
	"institution":  colAffiliation,
	"organization": colAffiliation,
	"hospital":     colAffiliation,
	"university":   colAffiliation,

	"country": colCountry,
	"nation":  colCountry,

	"city":     colCity,
	"location": colCity,

	"expertise_area": colExpertiseArea,
	"expertisearea":  colExpertiseArea,
	"expertise":      colExpertiseArea,
	"specialization": colExpertiseArea,
	"specialty":      colExpertiseArea,
	"field":          colExpertiseArea,

	"publications_count": colPublications,
	"publicationscount":  colPublications,
	"publications":       colPublications,
	"num_publications":   colPublications,
	"publication_count":  colPublications,

	"h_index": colHIndex,
	"hindex":  colHIndex,
	"h-index": colHIndex,

	"citations":       colCitations,
	"total_citations": colCitations,
	"citation_count":  colCitations,
}

// preferredSheets are matched as substrings of the lowercased sheet name, in
// this order, before falling back to the active sheet.
var preferredSheets = []string{"kol", "data", "sheet1", "kols", "doctors"}

// Load implements Loader.
func (l *ExcelLoader) Load(ctx context.Context) ([]models.KOL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := openCheck(l.path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %v: %w", l.path, err, sentinel.ErrInvalidFormat)
	}
	defer func() { _ = f.Close() }()

	sheet := dataSheet(f)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q in %s: %v: %w", sheet, l.path, err, sentinel.ErrInvalidFormat)
	}

	candidates := parseRows(rows)
	records, err := build(candidates, l.opts)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", l.path, err)
	}
	l.opts.logger.InfoContext(ctx, "loaded kol dataset",
		"path", l.path,
		"format", string(FormatXLSX),
		"sheet", sheet,
		"rows", len(rows),
		"records", len(records),
	)
	return records, nil
}

func dataSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	for _, want := range preferredSheets {
		for _, name := range sheets {
			if strings.Contains(strings.ToLower(name), want) {
				return name
			}
		}
	}
	return f.GetSheetName(f.GetActiveSheetIndex())
}

// parseRows maps the header row onto columns and converts each data row.
// Blank rows and rows without a name are dropped. A row without an id gets
// its 1-based data row number.
func parseRows(rows [][]string) []candidate {
	if len(rows) == 0 {
		return nil
	}

	mapping := make(map[int]column)
	for i, cell := range rows[0] {
		if col, ok := columnAliases[normalizeHeader(cell)]; ok {
			mapping[i] = col
		}
	}

	var out []candidate
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		c := parseRow(row, mapping)
		if c.ID == nil {
			c.ID = models.StringPtr(strconv.Itoa(i + 1))
		}
		if c.Name == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func parseRow(row []string, mapping map[int]column) candidate {
	var c candidate
	for i, cell := range row {
		col, ok := mapping[i]
		if !ok {
			continue
		}
		switch col {
		case colPublications:
			c.PublicationsCount = numericCell(cell)
		case colHIndex:
			c.HIndex = numericCell(cell)
		case colCitations:
			c.Citations = numericCell(cell)
		default:
			v := textCell(cell)
			if v == nil {
				continue
			}
			switch col {
			case colID:
				c.ID = v
			case colName:
				c.Name = v
			case colAffiliation:
				c.Affiliation = v
			case colCountry:
				c.Country = v
			case colCity:
				c.City = v
			case colExpertiseArea:
				c.ExpertiseArea = v
			}
		}
	}
	return c
}

func normalizeHeader(cell string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cell)), " ", "_")
}

func textCell(cell string) *string {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil
	}
	return &v
}

// numericCell truncates toward zero. Unparseable and zero cells are absent.
func numericCell(cell string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := float64(int64(f))
	return &n
}

func isBlank(row []string) bool {
	return !slices.ContainsFunc(row, func(cell string) bool {
		return strings.TrimSpace(cell) != ""
	})
}
