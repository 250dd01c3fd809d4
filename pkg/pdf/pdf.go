package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Document é um construtor fino sobre o gofpdf com o cabeçalho e rodapé
// institucionais usados em todos os documentos emitidos pelo sistema.
type Document struct {
	pdf *gofpdf.Fpdf
}

func NewDocument(titulo string) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 25)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr("Sistema Pericial"), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, tr(titulo), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Arial", "I", 8)
		rodape := fmt.Sprintf("Emitido em %s - página %d/{nb}",
			time.Now().Format("02/01/2006 15:04"), pdf.PageNo())
		pdf.CellFormat(0, 6, tr(rodape), "T", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	return &Document{pdf: pdf}
}

// tr converte UTF-8 para o charset cp1252 esperado pelas fontes core.
var tr = func() func(string) string {
	return gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
}()

func (d *Document) Section(titulo string) {
	d.pdf.SetFont("Arial", "B", 10)
	d.pdf.SetFillColor(235, 235, 235)
	d.pdf.CellFormat(0, 7, tr(titulo), "1", 1, "L", true, 0, "")
}

func (d *Document) Field(rotulo, valor string) {
	if valor == "" {
		valor = "-"
	}
	d.pdf.SetFont("Arial", "B", 9)
	d.pdf.CellFormat(50, 6, tr(rotulo), "1", 0, "L", false, 0, "")
	d.pdf.SetFont("Arial", "", 9)
	d.pdf.MultiCell(0, 6, tr(valor), "1", "L", false)
}

func (d *Document) Paragraph(texto string) {
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.MultiCell(0, 5.5, tr(texto), "", "J", false)
	d.pdf.Ln(2)
}

func (d *Document) Spacer() { d.pdf.Ln(4) }

// Output fecha o documento e devolve os bytes do PDF.
func (d *Document) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("erro ao gerar PDF: %w", err)
	}
	return buf.Bytes(), nil
}
