package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

// ItemCarrinho is one cart line. PrecoUnitario is frozen at add time and does
// not follow later catalog price changes. Disponivel is the product's
// available quantity at the last fetch — the per-line stock ceiling.
type ItemCarrinho struct {
	LinhaID       uuid.UUID       `json:"linha_id"`
	ProdutoID     uuid.UUID       `json:"produto_id"`
	SKU           string          `json:"sku"`
	Nome          string          `json:"nome"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Quantidade    int             `json:"quantidade"`
	Desconto      decimal.Decimal `json:"desconto"`
	Disponivel    int             `json:"disponivel"`
}

// TotalLinha = preço unitário × quantidade − desconto da linha.
func (i ItemCarrinho) TotalLinha() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade))).Sub(i.Desconto)
}

// Carrinho holds the in-progress, uncommitted items of a pending sale plus a
// single flat discount. Totals are always recomputed from the lines — there
// is no cached total field to drift.
type Carrinho struct {
	Itens    []ItemCarrinho  `json:"itens"`
	Desconto decimal.Decimal `json:"desconto"`
}

// AdicionarItem increments the existing line for produto by one unit, or
// appends a new line with quantity 1 at the product's current price. Fails
// with EstoqueInsuficienteError — without mutating anything — when the
// resulting quantity would exceed the last-fetched availability.
func (c *Carrinho) AdicionarItem(produto *model.Produto) error {
	for idx := range c.Itens {
		if c.Itens[idx].ProdutoID == produto.ID {
			if !produto.Disponivel(c.Itens[idx].Quantidade + 1) {
				return &EstoqueInsuficienteError{Produto: produto.Nome, Disponivel: produto.QuantidadeDisponivel}
			}
			c.Itens[idx].Quantidade++
			// refresh the ceiling: the caller just re-read the snapshot
			c.Itens[idx].Disponivel = produto.QuantidadeDisponivel
			return nil
		}
	}

	if !produto.Disponivel(1) {
		return &EstoqueInsuficienteError{Produto: produto.Nome, Disponivel: produto.QuantidadeDisponivel}
	}
	c.Itens = append(c.Itens, ItemCarrinho{
		LinhaID:       uuid.New(),
		ProdutoID:     produto.ID,
		SKU:           produto.SKU,
		Nome:          produto.Nome,
		PrecoUnitario: produto.PrecoVenda,
		Quantidade:    1,
		Desconto:      decimal.Zero,
		Disponivel:    produto.QuantidadeDisponivel,
	})
	return nil
}

// DefinirQuantidade sets the quantity of a line. qtd ≤ 0 removes the line;
// a quantity above the line's stock ceiling fails with
// EstoqueInsuficienteError leaving the previous quantity in place.
func (c *Carrinho) DefinirQuantidade(linhaID uuid.UUID, qtd int) error {
	if qtd <= 0 {
		return c.RemoverItem(linhaID)
	}
	for idx := range c.Itens {
		if c.Itens[idx].LinhaID == linhaID {
			if qtd > c.Itens[idx].Disponivel {
				return &EstoqueInsuficienteError{Produto: c.Itens[idx].Nome, Disponivel: c.Itens[idx].Disponivel}
			}
			c.Itens[idx].Quantidade = qtd
			return nil
		}
	}
	return ErrLinhaNaoEncontrada
}

// Linha returns a copy of the line identified by linhaID.
func (c *Carrinho) Linha(linhaID uuid.UUID) (ItemCarrinho, bool) {
	for _, item := range c.Itens {
		if item.LinhaID == linhaID {
			return item, true
		}
	}
	return ItemCarrinho{}, false
}

// AtualizarDisponibilidade refreshes the stock ceiling of every line holding
// produtoID. Callers pass the product from the latest catalog snapshot so
// quantity edits validate against fresh availability, not the value frozen
// when the line was added.
func (c *Carrinho) AtualizarDisponibilidade(produtoID uuid.UUID, disponivel int) {
	for idx := range c.Itens {
		if c.Itens[idx].ProdutoID == produtoID {
			c.Itens[idx].Disponivel = disponivel
		}
	}
}

// DefinirDescontoLinha sets the per-line discount (flat amount).
func (c *Carrinho) DefinirDescontoLinha(linhaID uuid.UUID, desconto decimal.Decimal) error {
	for idx := range c.Itens {
		if c.Itens[idx].LinhaID == linhaID {
			c.Itens[idx].Desconto = desconto
			return nil
		}
	}
	return ErrLinhaNaoEncontrada
}

// RemoverItem drops a line unconditionally.
func (c *Carrinho) RemoverItem(linhaID uuid.UUID) error {
	for idx := range c.Itens {
		if c.Itens[idx].LinhaID == linhaID {
			c.Itens = append(c.Itens[:idx], c.Itens[idx+1:]...)
			return nil
		}
	}
	return ErrLinhaNaoEncontrada
}

// DefinirDesconto stores the flat overall discount. A discount larger than
// the subtotal is accepted as-is (deliberate "give away" allowance in the
// original flow); Total may then be negative.
func (c *Carrinho) DefinirDesconto(valor decimal.Decimal) {
	c.Desconto = valor
}

// Subtotal = Σ totals de linha.
func (c *Carrinho) Subtotal() decimal.Decimal {
	soma := decimal.Zero
	for _, item := range c.Itens {
		soma = soma.Add(item.TotalLinha())
	}
	return soma
}

// Total = Subtotal − desconto geral, recomputed on every call.
func (c *Carrinho) Total() decimal.Decimal {
	return c.Subtotal().Sub(c.Desconto)
}

// Vazio reports whether the cart has no lines.
func (c *Carrinho) Vazio() bool { return len(c.Itens) == 0 }

// Limpar empties the cart and resets the discount.
func (c *Carrinho) Limpar() {
	c.Itens = nil
	c.Desconto = decimal.Zero
}

// Snapshot returns an independent copy of the lines, safe to hand to the
// commit path while the operator keeps (or retries) the session.
func (c *Carrinho) Snapshot() []ItemCarrinho {
	itens := make([]ItemCarrinho, len(c.Itens))
	copy(itens, c.Itens)
	return itens
}
