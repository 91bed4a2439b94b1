package infra

// pdf.go — Exchange receipt generation using go-pdf/fpdf.
// Produces an A7-size thermal-style receipt with the returned and
// dispatched barcodes, both totals and the resulting price difference.
// The output file is saved to storagePath/intercambio_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateIntercambioPDF writes the receipt for one exchange operation.
// storagePath is created if needed; the absolute file path is returned.
func GenerateIntercambioPDF(i *model.Intercambio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("intercambio_%s.pdf", i.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Mykonos", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Cambio", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, i.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if i.Entidad != nil {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Cliente: %s", i.Entidad.RazonSocial), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	writeSeccion := func(titulo, codigos string) {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW, 5, titulo, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		if codigos == "" {
			pdf.CellFormat(contentW, 4, "-", "", 1, "L", false, 0, "")
			return
		}
		for _, codigo := range strings.Split(codigos, ",") {
			pdf.CellFormat(contentW, 4, codigo, "", 1, "L", false, 0, "")
		}
	}
	writeSeccion("Devuelto", i.CodigosDevueltos)
	pdf.Ln(1)
	writeSeccion("Entregado", i.CodigosNuevos)
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW*0.6, 5, "Total devolución", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, "$"+i.TotalDevolucion.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW*0.6, 5, "Total entregado", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, "$"+i.TotalNuevo.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.6, 6, "Diferencia", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, "$"+i.Diferencia.StringFixed(2), "", 1, "R", false, 0, "")

	if i.Motivo != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 7)
		pdf.MultiCell(contentW, 4, "Motivo: "+i.Motivo, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
