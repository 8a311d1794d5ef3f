package dto

import (
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AdicionarItemRequest struct {
	ProdutoID string `json:"produto_id" validate:"required,uuid"`
}

// QuantidadeRequest updates one cart line. Quantidade ≤ 0 removes the line.
type QuantidadeRequest struct {
	Quantidade int              `json:"quantidade"`
	Desconto   *decimal.Decimal `json:"desconto" validate:"omitempty,min=0"`
}

// DescontoRequest carries the overall discount as free text: the POS discount
// field accepts anything the operator types, and non-numeric input counts as
// zero rather than an error.
type DescontoRequest struct {
	Valor string `json:"valor"`
}

// ValorDecimal coerces the typed discount, treating non-numeric input as 0.
func (r DescontoRequest) ValorDecimal() decimal.Decimal {
	valor, err := decimal.NewFromString(r.Valor)
	if err != nil {
		return decimal.Zero
	}
	return valor
}

type ClienteRequest struct {
	ID        string `json:"id"        validate:"required,uuid"`
	Nome      string `json:"nome"      validate:"required"`
	Documento string `json:"documento"`
	Telefone  string `json:"telefone"`
	Email     string `json:"email"     validate:"omitempty,email"`
}

// MetodoRequest selects the payment method. Recebido only applies to
// dinheiro; Parcelas only to crédito.
type MetodoRequest struct {
	Metodo   string           `json:"metodo"   validate:"required,oneof=dinheiro credito debito pix"`
	Recebido *decimal.Decimal `json:"recebido" validate:"omitempty,min=0"`
	Parcelas *int             `json:"parcelas" validate:"omitempty,min=1,max=12"`
}

type ConfirmarVendaRequest struct {
	Observacoes string `json:"observacoes" validate:"omitempty,max=500"`
	// ClienteEmail: optional — when present, the print worker also mails the
	// PDF cupom.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCarrinhoResponse struct {
	LinhaID       string          `json:"linha_id"`
	ProdutoID     string          `json:"produto_id"`
	SKU           string          `json:"sku"`
	Nome          string          `json:"nome"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Quantidade    int             `json:"quantidade"`
	Desconto      decimal.Decimal `json:"desconto"`
	TotalLinha    decimal.Decimal `json:"total_linha"`
	Disponivel    int             `json:"disponivel"`
}

// PagamentoStateResponse mirrors the active sub-flow so the POS screen can
// render the method-specific dialog.
type PagamentoStateResponse struct {
	Metodo              string           `json:"metodo"`
	Pronto              bool             `json:"pronto"`
	Recebido            *decimal.Decimal `json:"recebido,omitempty"`
	Troco               *decimal.Decimal `json:"troco,omitempty"`
	Parcelas            *int             `json:"parcelas,omitempty"`
	ValorParcela        *decimal.Decimal `json:"valor_parcela,omitempty"`
	ReferenciaTransacao string           `json:"referencia_transacao,omitempty"`
	CobrancaID          string           `json:"cobranca_id,omitempty"`
	QRCode              string           `json:"qr_code,omitempty"`
	Confirmado          bool             `json:"confirmado,omitempty"`
}

type ClienteResponse struct {
	ID        string `json:"id,omitempty"`
	Nome      string `json:"nome"`
	Documento string `json:"documento"`
}

type SessaoResponse struct {
	ID        string                  `json:"id"`
	Itens     []ItemCarrinhoResponse  `json:"itens"`
	Subtotal  decimal.Decimal         `json:"subtotal"`
	Desconto  decimal.Decimal         `json:"desconto"`
	Total     decimal.Decimal         `json:"total"`
	Cliente   *ClienteResponse        `json:"cliente,omitempty"`
	Pagamento *PagamentoStateResponse `json:"pagamento,omitempty"`
	CriadaEm  string                  `json:"criada_em"`
}

type PixCobrancaResponse struct {
	CobrancaID string `json:"cobranca_id"`
	QRCode     string `json:"qr_code"`
	CopiaECola string `json:"copia_e_cola"`
}

// VendaResponse is the commit answer: the authoritative server result plus
// the rendered cupom text, ready to show/print.
type VendaResponse struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero"`
	ValorFinal   decimal.Decimal `json:"valor_final"`
	Troco        decimal.Decimal `json:"troco"`
	ConfirmadaEm string          `json:"confirmada_em"`
	Recibo       string          `json:"recibo"`
}
