// Package pdf renders the service reports as PDF documents using the
// go-pdf/fpdf library and its core fonts.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/go-pdf/fpdf"
)

// Title is printed at the top of each service report.
const Title = "FUTURE MECH - SERVICE REPORT"

const (
	labelWidth = 50.0
	valueWidth = 130.0
	rowHeight  = 8.0
)

// Renderer implements render.Renderer.
type Renderer struct {
	// Uncompressed disables the stream compression, so the rendered
	// text can be searched in the document bytes.
	Uncompressed bool
}

func (rd Renderer) ServiceReport(r *model.ServiceReport) ([]byte, error) {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetCompression(!rd.Uncompressed)
	f.SetCreationDate(r.GeneratedAt)
	f.SetTitle(Title, false)
	f.SetCreator("Future Mech", false)
	tr := f.UnicodeTranslatorFromDescriptor("")
	f.SetFooterFunc(func() {
		f.SetY(-20)
		f.SetFont("Helvetica", "I", 8)
		f.CellFormat(0, 5, tr(fmt.Sprintf(
			"Generated on %s", r.GeneratedAt.Format("January 2, 2006 at 3:04 PM"),
		)), "", 1, "C", false, 0, "")
		f.CellFormat(
			0, 5, "Future Mech - Professional Automotive Services",
			"", 0, "C", false, 0, "",
		)
	})
	f.AddPage()

	f.SetFont("Helvetica", "B", 18)
	f.SetTextColor(30, 64, 175)
	f.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	f.Ln(6)

	section(f, tr, "Customer Information", [][2]string{
		{"Customer Name", r.CustomerName},
		{"Email", r.CustomerEmail},
		{"Phone", orNA(r.CustomerPhone)},
		{"Vehicle", orNA(r.Vehicle)},
		{"Service Date", r.ServiceDate.Format("January 2, 2006")},
		{"Report ID", r.ReportNumber()},
	})
	section(f, tr, "Service Details", [][2]string{
		{"Service", r.ServiceName},
		{"Description", orNA(r.Description)},
		{"Price", "$" + r.Price.StringFixed(2)},
		{"Status", r.Status.Title()},
		{"Notes", orNA(r.Notes)},
	})

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report of booking %d: %w", r.BookingID, err)
	}
	return buf.Bytes(), nil
}

func section(f *fpdf.Fpdf, tr func(string) string, heading string, rows [][2]string) {
	f.SetFont("Helvetica", "B", 13)
	f.SetTextColor(0, 0, 0)
	f.CellFormat(0, 10, heading, "", 1, "L", false, 0, "")
	f.SetFillColor(240, 240, 240)
	for _, row := range rows {
		f.SetFont("Helvetica", "B", 10)
		f.CellFormat(labelWidth, rowHeight, row[0]+":", "1", 0, "L", true, 0, "")
		f.SetFont("Helvetica", "", 10)
		f.CellFormat(valueWidth, rowHeight, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	f.Ln(8)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
