package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metodo tags a payment sub-flow. The four methods are mutually exclusive:
// selecting one discards any state accumulated by another.
type Metodo string

const (
	MetodoDinheiro Metodo = "dinheiro"
	MetodoCredito  Metodo = "credito"
	MetodoDebito   Metodo = "debito"
	MetodoPix      Metodo = "pix"
)

// Valido reports whether m is one of the four known methods.
func (m Metodo) Valido() bool {
	switch m {
	case MetodoDinheiro, MetodoCredito, MetodoDebito, MetodoPix:
		return true
	}
	return false
}

// Rotulo is the human label printed on receipts.
func (m Metodo) Rotulo() string {
	switch m {
	case MetodoDinheiro:
		return "Dinheiro"
	case MetodoCredito:
		return "Cartão de Crédito"
	case MetodoDebito:
		return "Cartão de Débito"
	case MetodoPix:
		return "PIX"
	}
	return string(m)
}

// Pagamento is one accepted payment toward the sale total. Credit carries the
// full total plus the installment count — never a pre-split amount. The
// transaction reference comes from the external channel for débito/PIX and is
// generated locally otherwise.
type Pagamento struct {
	Metodo              Metodo          `json:"metodo"`
	Valor               decimal.Decimal `json:"valor"`
	Parcelas            int             `json:"parcelas,omitempty"`
	ReferenciaTransacao string          `json:"referencia_transacao"`
}

// FluxoPagamento is the tagged union over the method-specific sub-flows.
// Implementations hold only the state their method needs; transitions are
// plain value updates so the orchestration stays trivially testable.
type FluxoPagamento interface {
	Metodo() Metodo
	// Pronto reports whether the sub-flow gathered everything commit needs.
	// While false the confirm action must stay disabled (guard, not error).
	Pronto(total decimal.Decimal) bool
	// Registro builds the single payment record covering total.
	Registro(total decimal.Decimal) (Pagamento, error)
}

func referenciaLocal() string { return "LOC-" + uuid.NewString() }

// ── Dinheiro ─────────────────────────────────────────────────────────────────

// FluxoDinheiro: the operator types the received amount; commit unlocks once
// it covers the total.
type FluxoDinheiro struct {
	Recebido decimal.Decimal
}

func (f *FluxoDinheiro) Metodo() Metodo { return MetodoDinheiro }

func (f *FluxoDinheiro) Pronto(total decimal.Decimal) bool {
	return f.Recebido.GreaterThanOrEqual(total)
}

// Troco = max(0, recebido − total).
func (f *FluxoDinheiro) Troco(total decimal.Decimal) decimal.Decimal {
	troco := f.Recebido.Sub(total)
	if troco.IsNegative() {
		return decimal.Zero
	}
	return troco
}

func (f *FluxoDinheiro) Registro(total decimal.Decimal) (Pagamento, error) {
	if !f.Pronto(total) {
		return Pagamento{}, ErrPagamentoIncompleto
	}
	return Pagamento{Metodo: MetodoDinheiro, Valor: total, ReferenciaTransacao: referenciaLocal()}, nil
}

// ── Crédito parcelado ────────────────────────────────────────────────────────

// FluxoCredito: installment credit, 1–12 parcelas. Ready immediately — the
// acquirer settlement happens outside this flow.
type FluxoCredito struct {
	Parcelas int
}

// NovoFluxoCredito validates the installment count up front.
func NovoFluxoCredito(parcelas int) (*FluxoCredito, error) {
	if parcelas < 1 || parcelas > 12 {
		return nil, ErrParcelasInvalidas
	}
	return &FluxoCredito{Parcelas: parcelas}, nil
}

func (f *FluxoCredito) Metodo() Metodo { return MetodoCredito }

func (f *FluxoCredito) Pronto(decimal.Decimal) bool { return true }

// ValorParcela is display-only: the record always carries the full total.
func (f *FluxoCredito) ValorParcela(total decimal.Decimal) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(f.Parcelas))).Round(2)
}

func (f *FluxoCredito) Registro(total decimal.Decimal) (Pagamento, error) {
	if f.Parcelas < 1 || f.Parcelas > 12 {
		return Pagamento{}, ErrParcelasInvalidas
	}
	return Pagamento{Metodo: MetodoCredito, Valor: total, Parcelas: f.Parcelas, ReferenciaTransacao: referenciaLocal()}, nil
}

// ── Débito (maquininha) ──────────────────────────────────────────────────────

// FluxoDebito trusts the card terminal hand-off: commit unlocks only after the
// device reported a transaction reference, and only while the cart total still
// matches the amount the device authorized. A cart edited after the hand-off
// invalidates the authorization instead of committing a charge the customer
// never made.
type FluxoDebito struct {
	ReferenciaTransacao string
	ValorAutorizado     decimal.Decimal
}

func (f *FluxoDebito) Metodo() Metodo { return MetodoDebito }

func (f *FluxoDebito) Pronto(total decimal.Decimal) bool {
	return f.ReferenciaTransacao != "" && f.ValorAutorizado.Equal(total)
}

func (f *FluxoDebito) Registro(total decimal.Decimal) (Pagamento, error) {
	if !f.Pronto(total) {
		return Pagamento{}, ErrPagamentoIncompleto
	}
	return Pagamento{Metodo: MetodoDebito, Valor: f.ValorAutorizado, ReferenciaTransacao: f.ReferenciaTransacao}, nil
}

// ── PIX ──────────────────────────────────────────────────────────────────────

// FluxoPix tracks the QR charge lifecycle: a charge is created over the cart
// total, then polled until the PSP confirms payment. Confirmation unlocks
// commit only while the total still matches the charged amount — the QR is
// amount-bound, so editing the cart afterwards invalidates the charge.
type FluxoPix struct {
	CobrancaID          string
	QRCode              string
	ReferenciaTransacao string
	Confirmado          bool
	ValorCobrado        decimal.Decimal
}

func (f *FluxoPix) Metodo() Metodo { return MetodoPix }

func (f *FluxoPix) Pronto(total decimal.Decimal) bool {
	return f.Confirmado && f.ReferenciaTransacao != "" && f.ValorCobrado.Equal(total)
}

func (f *FluxoPix) Registro(total decimal.Decimal) (Pagamento, error) {
	if !f.Pronto(total) {
		return Pagamento{}, ErrPagamentoIncompleto
	}
	return Pagamento{Metodo: MetodoPix, Valor: f.ValorCobrado, ReferenciaTransacao: f.ReferenciaTransacao}, nil
}
