package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a quotation summary PDF from version export data using
// maroto/v2. It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, data)
	addLineTable(m, data)
	addAIUSummary(m, data)
	addTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addPDFHeader adds the quotation name, version, client and date.
func addPDFHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.QuotationName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	gray := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Version %s — %s", data.VersionLabel, data.Client), props.Text{
					Size:  9,
					Align: align.Left,
					Color: gray,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: gray,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addLineTable adds the cost-line table grouped by section.
func addLineTable(m core.Maroto, data ExportData) {
	sectionBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	sectionText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	sectionCell := props.Cell{BackgroundColor: sectionBg}

	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	var currentSection Section
	for _, r := range data.Rows {
		if r.Section != currentSection {
			currentSection = r.Section
			m.AddRows(
				row.New(7).Add(
					col.New(12).Add(
						text.New(SectionLabels[currentSection], sectionText),
					).WithStyle(&sectionCell),
				),
			)
		}

		m.AddRows(
			row.New(6).Add(
				col.New(1).Add(text.New(r.Index, baseText)),
				col.New(2).Add(text.New(r.Concept, leftText)),
				col.New(4).Add(text.New(r.Description, leftText)),
				col.New(1).Add(text.New(formatQty(r.Qty), rightText)),
				col.New(1).Add(text.New(r.Unit, baseText)),
				col.New(1).Add(text.New(FormatCOP(r.UnitPrice), rightText)),
				col.New(2).Add(text.New(FormatCOP(r.Subtotal), rightText)),
			),
		)
	}
}

// addAIUSummary adds one compact row per markup group.
func addAIUSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))

	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
	}
	valueText := props.Text{Size: 7, Align: align.Right}

	for _, b := range data.AIUBlocks {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(b.Label, headerText)),
				col.New(2).Add(text.New("Direct "+FormatCOP(b.DirectCost), valueText)),
				col.New(2).Add(text.New("Markup "+FormatCOP(b.TotalMarkup), valueText)),
				col.New(4).Add(text.New("Total "+FormatCOP(b.ChapterTotal), valueText)),
			),
		)
	}
}

// addTotals adds the chapter totals, the grand total and the amount in words.
func addTotals(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := labelStyle

	addTotalRow := func(label string, value float64) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New(label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(FormatCOP(value), valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	addTotalRow("Chapter 1 Total", data.Totals.Chapter1)
	addTotalRow("Chapter 2 Total", data.Totals.Chapter2)
	addTotalRow("Administration (not in total)", data.Totals.Administration)
	addTotalRow("TOTAL GENERAL", data.Totals.TotalGeneral)

	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New("Son: "+AmountToWordsCOP(data.Totals.TotalGeneral), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Left,
				}),
			),
		),
	)
}

// formatQty renders a quantity as a whole number when it has no fractional
// part, otherwise with 2 decimals.
func formatQty(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
