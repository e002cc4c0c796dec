package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TemplateField describes one column of the cost-line import format.
type TemplateField struct {
	Key      string
	Label    string
	Required bool
}

// LineTemplateFields returns the columns of the cost-line import template.
func LineTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "section", Label: "Section", Required: true},
		{Key: "concept", Label: "Concept", Required: true},
		{Key: "description", Label: "Description", Required: false},
		{Key: "unit", Label: "Unit", Required: false},
		{Key: "quantity", Label: "Quantity", Required: false},
		{Key: "unit_price", Label: "Unit Price", Required: false},
		{Key: "price_materials", Label: "Materials Price", Required: false},
		{Key: "price_equipment", Label: "Equipment Price", Required: false},
		{Key: "price_labor", Label: "Labor Price", Required: false},
	}
}

// ImportedLine is one parsed, validated cost-line tuple ready to be created.
type ImportedLine struct {
	Section     Section
	Concept     string
	Description string
	Unit        string
	Quantity    float64
	UnitPrice   float64
	Materials   float64
	Equipment   float64
	Labor       float64
	MultiPrice  bool
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int               `json:"total_rows"`
	ValidRows  int               `json:"valid_rows"`
	ErrorRows  int               `json:"error_rows"`
	Errors     []ValidationError `json:"errors"`
	ParsedRows []ImportedLine    `json:"-"`
	FileName   string            `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to template field keys.
// Returns an ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		labelToKey[strings.ToLower(strings.TrimSpace(f.Label))] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateLineFile parses and validates an uploaded cost-line file
// (.csv or .xlsx, chosen by extension). Every row is checked independently;
// valid rows are returned in ParsedRows even when other rows have errors.
func ValidateLineFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	if strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else {
		headers, dataRows, err = parseExcel(file)
	}
	if err != nil {
		return nil, err
	}

	fields := LineTemplateFields()
	mapped, _ := mapHeadersToFields(headers, fields)

	requiredPresent := map[string]bool{}
	for _, key := range mapped {
		if key != "" {
			requiredPresent[key] = true
		}
	}
	for _, f := range fields {
		if f.Required && !requiredPresent[f.Key] {
			return nil, fmt.Errorf("missing required column %q", f.Label)
		}
	}

	result := &ValidationResult{FileName: fileName}

	for rowIdx, cells := range dataRows {
		rowNum := rowIdx + 2 // 1-based, after the header row

		values := map[string]string{}
		empty := true
		for i, key := range mapped {
			if key == "" || i >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[i])
			values[key] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		result.TotalRows++

		line, rowErrors := parseImportedLine(values, rowNum)
		if len(rowErrors) > 0 {
			result.ErrorRows++
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		result.ValidRows++
		result.ParsedRows = append(result.ParsedRows, line)
	}

	return result, nil
}

// parseImportedLine converts one row's cell values to an ImportedLine,
// applying the same validation policy as interactive line entry.
func parseImportedLine(values map[string]string, rowNum int) (ImportedLine, []ValidationError) {
	var errors []ValidationError
	addError := func(field, message string) {
		errors = append(errors, ValidationError{Row: rowNum, Field: field, Message: message})
	}

	sectionCode := strings.ToLower(values["section"])
	if sectionCode == "" {
		addError("section", "Section is required")
	} else if !IsValidSection(sectionCode) {
		addError("section", fmt.Sprintf("Unknown section %q", sectionCode))
	}

	concept := values["concept"]
	if concept == "" {
		addError("concept", "Concept is required")
	}

	parseNumber := func(field string) float64 {
		raw := values[field]
		if raw == "" {
			return 0
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			addError(field, fmt.Sprintf("%q is not a number", raw))
			return 0
		}
		return n
	}

	qty := parseNumber("quantity")
	unitPrice := parseNumber("unit_price")
	materials := parseNumber("price_materials")
	equipment := parseNumber("price_equipment")
	labor := parseNumber("price_labor")

	if len(errors) == 0 {
		for field, msg := range ValidateCostLine(Section(sectionCode), qty, unitPrice, materials, equipment, labor) {
			addError(field, msg)
		}
	}
	if len(errors) > 0 {
		return ImportedLine{}, errors
	}

	return ImportedLine{
		Section:     Section(sectionCode),
		Concept:     concept,
		Description: values["description"],
		Unit:        values["unit"],
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Materials:   materials,
		Equipment:   equipment,
		Labor:       labor,
		MultiPrice:  materials != 0 || equipment != 0 || labor != 0,
	}, nil
}

// GenerateLineTemplate builds an empty xlsx import template with the expected
// header row and one example row.
func GenerateLineTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	fields := LineTemplateFields()
	for i, field := range fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		label := field.Label
		if field.Required {
			label += " *"
		}
		f.SetCellValue(sheetName, cell, label)
	}
	lastCell, err := excelize.CoordinatesToCellName(len(fields), 1)
	if err != nil {
		return nil, fmt.Errorf("cell name: %w", err)
	}
	f.SetCellStyle(sheetName, "A1", lastCell, headerStyle)

	example := []any{"structure", "columnas", "Steel columns axis A-D", "kg", 1250, 8500, "", "", ""}
	for i, v := range example {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		f.SetCellValue(sheetName, cell, v)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}
