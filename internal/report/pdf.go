package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SavePDF renders the decode summary into a PDF document, with a QR code of
// the input file hash so a printed report can be matched to its source file.
func SavePDF(s Summary, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("GT3X Decode Report", false)
	pdf.SetAuthor("gt3xctl", false)
	pdf.SetCreator("gt3xctl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "GT3X Decode Report")
	addSummarySection(pdf, s)
	addAxisSection(pdf, s.Axes)
	addHashSection(pdf, s.Sha256)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSummarySection(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "File", value: s.File},
		{label: "File Size", value: strconv.FormatInt(s.FileSize, 10) + " B"},
		{label: "Sample Rows", value: strconv.Itoa(s.SampleRows)},
		{label: "Start Time", value: startTimeLabel(s.StartTime)},
		{label: "Sample Rate", value: strconv.Itoa(s.SampleRate) + " Hz"},
		{label: "Duration", value: fmt.Sprintf("%.2f s", s.DurationSec)},
		{label: "Generated", value: s.GeneratedAt.Format(time.RFC3339)},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addAxisSection(pdf *gofpdf.Fpdf, axes []AxisStats) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Axis Statistics")
	pdf.Ln(9)

	headers := []string{"Axis", "Min (g)", "Max (g)", "Mean (g)"}
	widths := []float64{30, 50, 50, 50}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, ax := range axes {
		values := []string{
			ax.Axis,
			fmt.Sprintf("%.3f", ax.Min),
			fmt.Sprintf("%.3f", ax.Max),
			fmt.Sprintf("%.3f", ax.Mean),
		}
		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func addHashSection(pdf *gofpdf.Fpdf, hash string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Source File Hash")
	pdf.Ln(9)

	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 4, "SHA-256: "+hash, "", "L", false)
	pdf.Ln(2)

	png, err := HashToQR(hash, 256)
	if err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("sha256-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("sha256-qr", pdf.GetX(), pdf.GetY(), 32, 32, false, opts, 0, "")
	pdf.Ln(36)
}

func startTimeLabel(ts uint32) string {
	if ts == 0 {
		return "-"
	}
	return fmt.Sprintf("%d (%s)", ts, time.Unix(int64(ts), 0).UTC().Format(time.RFC3339))
}
