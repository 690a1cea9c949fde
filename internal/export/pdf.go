package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cantina/internal/core"
)

// PDF page geometry in millimeters, landscape A4.
const (
	pageHeight   = 210.0
	marginLeft   = 10.0
	marginTop    = 12.0
	marginBottom = 12.0
	rowHeight    = 7.0
	headerRowH   = 8.0
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"ID", 15},
	{"Date", 25},
	{"Type", 22},
	{"Category", 30},
	{"Source", 35},
	{"Amount", 25},
	{"Description", 95},
	{"Status", 30},
}

// PDF exports the filtered set as a landscape A4 report: title, generation
// timestamp and summary block on the first page, then a table paginated by
// row count with the column header redrawn on every page.
func (e *Exporter) PDF(ctx context.Context, f core.FilterState) ([]byte, string, error) {
	rows, err := e.txs.ExportTransactionsPDF(ctx, f)
	if err != nil {
		return nil, "", fmt.Errorf("fetch transactions for export: %w", err)
	}

	data, err := renderPDF(rows, e.now().UTC())
	if err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	name := fmt.Sprintf("wallet-report-%s.pdf", e.now().UTC().Format("2006-01-02"))
	return data, name, nil
}

// rowsPerPage computes how many table rows fit below topUsed, leaving the
// bottom margin free. The first page spends extra height on the title and
// summary block, so it holds fewer rows than the following ones.
func rowsPerPage(topUsed float64) int {
	usable := pageHeight - topUsed - marginBottom - headerRowH
	if usable <= 0 {
		return 0
	}
	return int(usable / rowHeight)
}

func renderPDF(rows []core.Transaction, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	// Title and generation timestamp.
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Cafeteria Wallet Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated "+generatedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Summary block, first page only.
	summary := summarize(rows)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(60, 6, "Total income: "+core.FormatAmount(summary.TotalIncome), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Total expense: "+core.FormatAmount(summary.TotalExpense), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Balance: "+core.FormatAmount(summary.Balance), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Transactions: %d", summary.TotalTransactions), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	drawTableHeader(pdf)
	budget := rowsPerPage(pdf.GetY() - headerRowH)

	onPage := 0
	for _, tx := range rows {
		if onPage >= budget {
			pdf.AddPage()
			drawTableHeader(pdf)
			budget = rowsPerPage(marginTop)
			onPage = 0
		}
		drawRow(pdf, tx)
		onPage++
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, headerRowH, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func drawRow(pdf *gofpdf.Fpdf, tx core.Transaction) {
	pdf.SetFont("Helvetica", "", 8)
	cells := []string{
		fmt.Sprintf("%d", tx.ID),
		tx.Date.Format("2006-01-02"),
		string(tx.Type),
		tx.Category.Meta().Label,
		tx.Source,
		core.FormatAmount(tx.Amount),
		tx.Description,
		string(tx.Status),
	}
	for i, col := range pdfColumns {
		pdf.CellFormat(col.width, rowHeight, clip(cells[i], col.width), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

// clip truncates text that would overflow its column, roughly 2mm per
// character at the table font size.
func clip(s string, width float64) string {
	max := int(width / 2)
	if max < 1 {
		max = 1
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func summarize(rows []core.Transaction) core.Summary {
	s := core.ZeroSummary()
	for _, tx := range rows {
		switch tx.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
		s.TotalTransactions++
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
