package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel workbook for a quotation version and returns
// the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := data.QuotationName
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quotation"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through G).
	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 18, 40, 10, 10, 18, 20}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lineStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create line style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.QuotationName))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge subtitle: %w", err)
	}
	subtitle := data.VersionLabel
	if data.Reference != "" {
		subtitle += " — Ref: " + data.Reference
	}
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell(subtitle))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", fmt.Sprintf("Date: %s    Base area: %.2f m2", data.CreatedDate, data.AreaBase))
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	row := 5

	// ── Cost line sections ──────────────────────────────────────────────

	writeSectionHeading := func(label string) error {
		rowStr := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
			return fmt.Errorf("merge section heading: %w", err)
		}
		f.SetCellValue(sheetName, "A"+rowStr, label)
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, sectionStyle)
		row++
		return nil
	}

	var currentSection Section
	headers := []string{"#", "Concept", "Description", "Qty", "Unit", "Unit Price", "Subtotal"}

	for _, r := range data.Rows {
		if r.Section != currentSection {
			currentSection = r.Section
			if err := writeSectionHeading(SectionLabels[currentSection]); err != nil {
				return nil, err
			}

			rowStr := fmt.Sprintf("%d", row)
			for i, h := range headers {
				f.SetCellValue(sheetName, columns[i]+rowStr, h)
			}
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, headerStyle)
			row++
		}

		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Concept))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Description))
		f.SetCellValue(sheetName, "D"+rowStr, r.Qty)
		f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(r.Unit))
		f.SetCellValue(sheetName, "F"+rowStr, FormatCOP(r.UnitPrice))
		f.SetCellValue(sheetName, "G"+rowStr, FormatCOP(r.Subtotal))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, lineStyle)
		row++
	}

	// ── AIU blocks ──────────────────────────────────────────────────────

	for _, b := range data.AIUBlocks {
		row++
		if err := writeSectionHeading(b.Label); err != nil {
			return nil, err
		}

		entries := []struct {
			label string
			value float64
		}{
			{"Direct cost", b.DirectCost},
			{"Commission", b.Commission},
			{"Contingency", b.Contingency},
			{"Administration (suggested)", b.AdminSuggested},
			{"Administration (final)", b.AdminFinal},
			{"Logistics", b.Logistics},
			{"Profit (suggested)", b.ProfitSuggested},
			{"Profit (final)", b.ProfitFinal},
			{"Total markup", b.TotalMarkup},
			{"Chapter total", b.ChapterTotal},
		}
		for _, entry := range entries {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "C"+rowStr, entry.label)
			f.SetCellValue(sheetName, "G"+rowStr, FormatCOP(entry.value))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, lineStyle)
			row++
		}
	}

	// ── Summary ─────────────────────────────────────────────────────────

	row++
	writeSummary := func(label string, value float64) {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "E"+rowStr, label)
		f.SetCellStyle(sheetName, "E"+rowStr, "E"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "G"+rowStr, FormatCOP(value))
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, summaryValueStyle)
		row++
	}

	foundationLabel := "Foundation total (no selection, max of options):"
	if data.FoundationOption != "" {
		foundationLabel = fmt.Sprintf("Foundation total (option: %s):", data.FoundationOption)
	}
	writeSummary(foundationLabel, data.FoundationResolved)
	writeSummary("Chapter 1 total:", data.Totals.Chapter1)
	writeSummary("Chapter 2 total:", data.Totals.Chapter2)
	writeSummary("Administration (tracked separately):", data.Totals.Administration)
	writeSummary("TOTAL GENERAL:", data.Totals.TotalGeneral)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
