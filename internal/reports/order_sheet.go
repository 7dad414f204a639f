// Package reports renders printable PDF documents for business records.
package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"standards-backend/internal/domain"

	"github.com/phpdave11/gofpdf"
)

// OrderSheet renders the printable order sheet for a single order and
// returns the PDF bytes plus a download filename.
func OrderSheet(o domain.Order) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Hoja de pedido", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "HOJA DE PEDIDO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	head := []string{
		fmt.Sprintf("Número        : %s", safe(o.Number, "-")),
		fmt.Sprintf("Concesionario : %s", safe(o.Dealership.Name, "-")),
		fmt.Sprintf("Proveedor     : %s", safe(o.Provider.Name, "-")),
		fmt.Sprintf("Dirección     : %s", safe(o.Address, "-")),
		fmt.Sprintf("Estado        : %s", safe(o.State, "-")),
		fmt.Sprintf("Fecha         : %s", o.CreatedAt.Format("2006-01-02 15:04")),
	}
	for _, s := range head {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 8, "Producto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Unidades", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	total := 0
	for _, l := range o.Lines {
		name := l.Product.Name
		if name == "" {
			name = l.Product.ID
		}
		pdf.CellFormat(140, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", l.Units), "1", 1, "R", false, 0, "")
		total += l.Units
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, "Total unidades", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", total), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Documento generado el %s.", time.Now().Format("2006-01-02 15:04")), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("PEDIDO_%s.pdf", safeFilenamePart(o.Number))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
