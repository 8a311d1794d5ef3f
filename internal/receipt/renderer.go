// Package receipt turns a committed sale into the fiscal-style cupom text
// handed to the thermal printer bridge. Rendering is a pure function of its
// inputs: identical sale data always produces byte-identical output.
package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

// largura is the column count of 58 mm thermal paper in the font the printer
// bridge uses.
const largura = 40

// Loja is the header identity block printed on every cupom.
type Loja struct {
	Nome     string
	CNPJ     string
	Endereco string
	Telefone string
}

// Dados is everything a cupom needs: the authoritative commit result plus the
// snapshots taken at commit time. The renderer never recomputes the sale's
// final amount — it prints what process_sale returned.
type Dados struct {
	Venda      model.Venda
	Cliente    model.Cliente
	Itens      []checkout.ItemCarrinho
	Pagamentos []checkout.Pagamento
	Desconto   decimal.Decimal
	Troco      decimal.Decimal
}

// Renderer formats cupons for one store, with locale-aware currency.
type Renderer struct {
	loja    Loja
	printer *message.Printer
}

// NovoRenderer builds a Renderer for the given BCP 47 locale ("pt-BR" when
// empty or unparseable).
func NovoRenderer(loja Loja, locale string) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &Renderer{loja: loja, printer: message.NewPrinter(tag)}
}

// Moeda formats a monetary value with the renderer's locale separators,
// always two decimal places.
func (r *Renderer) Moeda(v decimal.Decimal) string {
	f, _ := v.Float64()
	return "R$ " + r.printer.Sprintf("%v",
		number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Render produces the full cupom text. Section order is fixed: header
// identity block, sale/customer info, itemized lines, totals, one entry per
// payment record, courtesy footer.
func (r *Renderer) Render(d Dados) string {
	var b strings.Builder

	separador := strings.Repeat("-", largura)

	// header identity block
	b.WriteString(centralizar(strings.ToUpper(r.loja.Nome)) + "\n")
	if r.loja.CNPJ != "" {
		b.WriteString(centralizar("CNPJ: "+r.loja.CNPJ) + "\n")
	}
	if r.loja.Endereco != "" {
		b.WriteString(centralizar(r.loja.Endereco) + "\n")
	}
	if r.loja.Telefone != "" {
		b.WriteString(centralizar("Tel: "+r.loja.Telefone) + "\n")
	}
	b.WriteString(separador + "\n")
	b.WriteString(centralizar("CUPOM NÃO FISCAL") + "\n")
	b.WriteString(colunas("Venda: "+d.Venda.Numero, d.Venda.ConfirmadaEm.Format("02/01/2006 15:04")) + "\n")
	b.WriteString(truncar("Cliente: "+d.Cliente.Nome) + "\n")
	if d.Cliente.Documento != "" {
		b.WriteString("Doc: " + d.Cliente.Documento + "\n")
	}
	b.WriteString(separador + "\n")

	// itemized lines
	subtotal := decimal.Zero
	for _, item := range d.Itens {
		b.WriteString(truncar(item.Nome) + "\n")
		qtdPreco := fmt.Sprintf("  %d x %s", item.Quantidade, r.Moeda(item.PrecoUnitario))
		b.WriteString(colunas(qtdPreco, r.Moeda(item.TotalLinha())) + "\n")
		if !item.Desconto.IsZero() {
			b.WriteString(colunas("  desconto item", "-"+r.Moeda(item.Desconto)) + "\n")
		}
		subtotal = subtotal.Add(item.TotalLinha())
	}
	b.WriteString(separador + "\n")

	// totals — the grand total is the echoed server amount, never recomputed
	b.WriteString(colunas("Subtotal", r.Moeda(subtotal)) + "\n")
	if !d.Desconto.IsZero() {
		b.WriteString(colunas("Desconto", "-"+r.Moeda(d.Desconto)) + "\n")
	}
	b.WriteString(colunas("TOTAL", r.Moeda(d.Venda.ValorFinal)) + "\n")
	b.WriteString(separador + "\n")

	// one entry per payment record — a silently dropped record here would
	// misstate what the customer paid
	for _, pagamento := range d.Pagamentos {
		rotulo := pagamento.Metodo.Rotulo()
		if pagamento.Parcelas > 1 {
			rotulo = fmt.Sprintf("%s em %dx", rotulo, pagamento.Parcelas)
		}
		b.WriteString(colunas(rotulo, r.Moeda(pagamento.Valor)) + "\n")
		if pagamento.Metodo == checkout.MetodoDinheiro && !d.Troco.IsZero() {
			b.WriteString(colunas("Troco", r.Moeda(d.Troco)) + "\n")
		}
	}
	b.WriteString(separador + "\n")

	b.WriteString(centralizar("Obrigado pela preferência!") + "\n")
	b.WriteString(centralizar("Volte sempre — "+r.loja.Nome) + "\n")

	return b.String()
}

// centralizar centers s in the cupom width.
func centralizar(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= largura {
		return s
	}
	return strings.Repeat(" ", (largura-n)/2) + s
}

// colunas lays out a left and a right column padded to the cupom width.
func colunas(esquerda, direita string) string {
	n := utf8.RuneCountInString(esquerda) + utf8.RuneCountInString(direita)
	if n >= largura {
		return esquerda + " " + direita
	}
	return esquerda + strings.Repeat(" ", largura-n) + direita
}

// truncar cuts s at the cupom width.
func truncar(s string) string {
	if utf8.RuneCountInString(s) <= largura {
		return s
	}
	runas := []rune(s)
	return string(runas[:largura-1]) + "…"
}
