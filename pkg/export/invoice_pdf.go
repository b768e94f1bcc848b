package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Issuer identifies the company printed on invoices.
type Issuer struct {
	Legal   string
	TaxID   string
	Address string
}

// DefaultIssuer is the company block printed on every invoice.
var DefaultIssuer = Issuer{
	Legal:   "Vision Paideia SLU",
	TaxID:   "CIF: B21898341",
	Address: "C/Alonso Cano 24, 28003, Madrid",
}

// InvoiceLine is a single row of the concepts table.
type InvoiceLine struct {
	Concept   string
	Quantity  string
	UnitPrice *decimal.Decimal
	Amount    decimal.Decimal
}

// InvoiceDocument carries everything printed on an invoice PDF.
type InvoiceDocument struct {
	CenterName    string
	Currency      string
	Issuer        Issuer
	Number        string
	Date          string
	ClientName    string
	ClientNIF     string
	ClientAddress string
	PaymentMethod string
	Lines         []InvoiceLine
	Total         decimal.Decimal
}

// InvoicePDFRenderer lays out invoices on an A4 page.
type InvoicePDFRenderer struct{}

// NewInvoicePDFRenderer constructs the renderer.
func NewInvoicePDFRenderer() *InvoicePDFRenderer {
	return &InvoicePDFRenderer{}
}

// Render creates the invoice PDF.
func (r *InvoicePDFRenderer) Render(doc InvoiceDocument) ([]byte, error) {
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("invoice requires at least one line")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()

	pdf.SetFont("Times", "BI", 28)
	pdf.SetTextColor(0xc5, 0x5a, 0x33)
	pdf.SetXY(15, 12)
	pdf.CellFormat(180, 14, tr(doc.CenterName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)
	issuer := doc.Issuer
	if issuer.Legal == "" {
		issuer = DefaultIssuer
	}
	for i, line := range []string{issuer.Legal, issuer.TaxID, issuer.Address} {
		pdf.SetXY(20, 36+float64(i)*5)
		pdf.CellFormat(90, 5, tr(line), "", 0, "L", false, 0, "")
	}
	pdf.SetXY(110, 36)
	pdf.CellFormat(80, 5, tr("Factura Nº: "+doc.Number), "", 0, "R", false, 0, "")
	pdf.SetXY(110, 41)
	pdf.CellFormat(80, 5, tr("Fecha: "+doc.Date), "", 0, "R", false, 0, "")

	pdf.SetDrawColor(220, 220, 220)
	pdf.Rect(15, 60, 180, 25, "D")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(20, 62)
	pdf.CellFormat(60, 5, "Cliente:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 68)
	pdf.CellFormat(170, 5, tr("Nombre y apellidos: "+doc.ClientName), "", 0, "L", false, 0, "")
	pdf.SetXY(20, 74)
	pdf.CellFormat(80, 5, tr("NIF: "+orDefault(doc.ClientNIF, "No especificado")), "", 0, "L", false, 0, "")
	pdf.SetXY(100, 74)
	pdf.CellFormat(90, 5, tr("Dirección: "+orDefault(doc.ClientAddress, "No especificada")), "", 0, "L", false, 0, "")

	widths := []float64{80, 25, 40, 35}
	pdf.SetXY(15, 90)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range []string{"Concepto", "Cantidad", "Precio unitario", "Importe"} {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		unit := ""
		if line.UnitPrice != nil {
			unit = money(*line.UnitPrice, doc.Currency)
		}
		pdf.SetX(15)
		pdf.CellFormat(widths[0], 8, tr(line.Concept), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, line.Quantity, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 8, tr(unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 8, tr(money(line.Amount, doc.Currency)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetX(15)
	pdf.CellFormat(widths[0]+widths[1], 8, "", "1", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[2], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, tr(money(doc.Total, doc.Currency)), "1", 0, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(15, pageHeight-28)
	pdf.CellFormat(180, 5, tr("Forma de pago: "+doc.PaymentMethod), "", 0, "L", false, 0, "")
	pdf.SetFont("Times", "BI", 18)
	pdf.SetTextColor(0xc5, 0x5a, 0x33)
	pdf.SetXY(15, pageHeight-15)
	pdf.CellFormat(180, 8, tr(doc.CenterName), "", 0, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(amount decimal.Decimal, currency string) string {
	return strings.TrimSpace(amount.StringFixed(2) + " " + currency)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
