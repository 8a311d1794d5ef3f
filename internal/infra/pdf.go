package infra

// pdf.go — PDF copy of the cupom using go-pdf/fpdf.
// The thermal bridge prints the plain-text cupom; the PDF is the archival /
// e-mail copy, laid out on A7-ish receipt paper with:
//   - Store identity header
//   - Sale number and timestamp
//   - Item table (name, quantity, line total)
//   - Discount line (if applicable)
//   - Bold total (the server-echoed final amount)
//   - One line per payment method, with installment suffix
//
// The output file is saved to storagePath/cupom_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/receipt"
)

// GerarReciboPDF writes the PDF copy of a cupom and returns its path.
// storagePath is created if needed.
func GerarReciboPDF(loja receipt.Loja, dados receipt.Dados, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cupom_%s.pdf", dados.Venda.Numero)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(loja.Nome), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Cupom não fiscal"), "", 1, "C", false, 0, "")
	if loja.CNPJ != "" {
		pdf.CellFormat(contentW, 4, "CNPJ: "+loja.CNPJ, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	// ── Sale info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Venda "+dados.Venda.Numero, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, dados.Venda.ConfirmadaEm.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Cliente: "+dados.Cliente.Nome), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range dados.Itens {
		nome := item.Nome
		if len([]rune(nome)) > 22 {
			nome = string([]rune(nome)[:21]) + "…"
		}
		pdf.CellFormat(col1, 5, tr(nome), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.TotalLinha().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !dados.Desconto.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$ "+dados.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+dados.Venda.ValorFinal.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, pagamento := range dados.Pagamentos {
		rotulo := pagamento.Metodo.Rotulo()
		if pagamento.Parcelas > 1 {
			rotulo = fmt.Sprintf("%s em %dx", rotulo, pagamento.Parcelas)
		}
		pdf.CellFormat(col1+col2, 4, tr(rotulo+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$ "+pagamento.Valor.StringFixed(2), "", 1, "R", false, 0, "")
		if pagamento.Metodo == checkout.MetodoDinheiro && !dados.Troco.IsZero() {
			pdf.CellFormat(col1+col2, 4, "Troco:", "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 4, "R$ "+dados.Troco.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
