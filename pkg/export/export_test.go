package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter(true)
	out, err := exporter.Render(Dataset{
		Headers: []string{"name", "amount"},
		Rows: []map[string]string{
			{"name": "Lucía, Gómez", "amount": "518.00"},
			{"name": "Mateo"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "name,amount\n\"Lucía, Gómez\",518.00\nMateo,\n", string(out[len(utf8BOM):]))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter(false).Render(Dataset{})
	require.Error(t, err)
}

func TestInvoicePDFRendererRender(t *testing.T) {
	base := decimal.NewFromInt(400)
	fee := decimal.NewFromInt(100)
	doc := InvoiceDocument{
		CenterName:    "mi pequeño recreo",
		Currency:      "€",
		Number:        "2026-4321",
		Date:          "05/10/2026",
		ClientName:    "Ana Pérez",
		PaymentMethod: "Domiciliación",
		Lines: []InvoiceLine{
			{Concept: "Matrícula", Quantity: "1", UnitPrice: &fee, Amount: fee},
			{Concept: "Jardín de infancia (octubre)", Quantity: "1", UnitPrice: &base, Amount: base},
			{Concept: "Penalizaciones por retraso", Amount: decimal.NewFromInt(18)},
		},
		Total: decimal.NewFromInt(518),
	}

	out, err := NewInvoicePDFRenderer().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestInvoicePDFRendererRequiresLines(t *testing.T) {
	_, err := NewInvoicePDFRenderer().Render(InvoiceDocument{})
	require.Error(t, err)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "6.00 €", money(decimal.NewFromInt(6), "€"))
	assert.Equal(t, "6.50", money(decimal.RequireFromString("6.5"), ""))
}
