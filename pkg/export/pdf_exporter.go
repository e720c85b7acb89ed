package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders listings into a tabular PDF, one page per listing.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with a titled table for each dataset.
func (e *PDFExporter) Render(datasets ...Dataset) ([]byte, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("pdf requires at least one dataset")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	for _, data := range datasets {
		if len(data.Headers) == 0 {
			return nil, fmt.Errorf("pdf requires at least one header")
		}
		pdf.AddPage()

		if data.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
			pdf.Ln(5)
		}

		// DATE is narrow, the timeslot columns share the rest
		dateWidth, colWidth := 190.0, 0.0
		if len(data.Headers) > 1 {
			dateWidth = 20.0
			colWidth = (190.0 - dateWidth) / float64(len(data.Headers)-1)
		}
		width := func(i int) float64 {
			if i == 0 {
				return dateWidth
			}
			return colWidth
		}

		pdf.SetFont("Arial", "B", 10)
		for i, header := range data.Headers {
			pdf.CellFormat(width(i), 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range data.Rows {
			for i := range data.Headers {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				align := ""
				if i == 0 {
					align = "C"
				}
				pdf.CellFormat(width(i), 7, value, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
