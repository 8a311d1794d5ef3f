// Package checkout implements the POS transaction core: the cart, the
// payment sub-flows and the checkout session value object. Everything here is
// pure in-memory state — no I/O — so the whole sale flow is unit-testable
// without mounting the HTTP surface or a database.
package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrCarrinhoVazio       = errors.New("o carrinho está vazio")
	ErrLinhaNaoEncontrada  = errors.New("item não encontrado no carrinho")
	ErrFluxoNaoSelecionado = errors.New("nenhum método de pagamento selecionado")
	ErrPagamentoIncompleto = errors.New("o pagamento não cobre o total da venda")
	ErrPagamentoCancelado  = errors.New("pagamento cancelado antes da confirmação")
	ErrParcelasInvalidas   = errors.New("o número de parcelas deve estar entre 1 e 12")
)

// EstoqueInsuficienteError rejects a cart mutation that would exceed the
// quantity available in the last catalog fetch. The cart is left untouched;
// Disponivel tells the operator how many units can still be sold.
type EstoqueInsuficienteError struct {
	Produto    string
	Disponivel int
}

func (e *EstoqueInsuficienteError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %q: apenas %d disponível(is)", e.Produto, e.Disponivel)
}
