package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

// toleranciaCentavos is the rounding tolerance accepted between the payment
// sum and the cart total at commit time.
var toleranciaCentavos = decimal.New(1, -2) // 0.01

// Sessao is the explicit, injectable checkout state: one cart, an optional
// customer and at most one payment sub-flow. It replaces view-local mutable
// fields so every operation can be exercised deterministically in tests.
type Sessao struct {
	ID       uuid.UUID
	Carrinho Carrinho
	Cliente  *model.Cliente
	Fluxo    FluxoPagamento
	// ChaveIdempotencia disambiguates retries after an ambiguous commit
	// failure: assigned on the first confirm attempt for a user-intended
	// transaction and rotated only after the remote side acknowledged it.
	ChaveIdempotencia uuid.UUID
	CriadaEm          time.Time
}

func NovaSessao() *Sessao {
	return &Sessao{ID: uuid.New(), CriadaEm: time.Now()}
}

// SelecionarFluxo switches the active payment method. Any received amount,
// charge or transaction reference accumulated by the previous method is
// discarded — sub-flows are mutually exclusive, not additive.
func (s *Sessao) SelecionarFluxo(f FluxoPagamento) {
	s.Fluxo = f
}

// CancelarFluxo aborts the in-progress sub-flow (operator closed the dialog,
// device cancelled, charge expired). The orchestrator returns to method
// selection with zero payment records; cart and discount stay untouched.
func (s *Sessao) CancelarFluxo() {
	s.Fluxo = nil
}

// PodeConfirmar is the commit guard: non-empty cart, a selected method, and a
// sub-flow that gathered everything it needs. It returns the specific guard
// violation so the surface can tell the operator what is missing.
func (s *Sessao) PodeConfirmar() error {
	if s.Carrinho.Vazio() {
		return ErrCarrinhoVazio
	}
	if s.Fluxo == nil {
		return ErrFluxoNaoSelecionado
	}
	if !s.Fluxo.Pronto(s.Carrinho.Total()) {
		return ErrPagamentoIncompleto
	}
	return nil
}

// Pagamentos produces the payment records for commit: exactly one record per
// completed sub-flow, summing to the cart total (within a centavo).
func (s *Sessao) Pagamentos() ([]Pagamento, error) {
	if err := s.PodeConfirmar(); err != nil {
		return nil, err
	}
	total := s.Carrinho.Total()
	registro, err := s.Fluxo.Registro(total)
	if err != nil {
		return nil, err
	}
	if registro.Valor.Sub(total).Abs().GreaterThan(toleranciaCentavos) {
		return nil, ErrPagamentoIncompleto
	}
	return []Pagamento{registro}, nil
}

// Troco returns the cash change for the current state, zero for every
// non-cash method.
func (s *Sessao) Troco() decimal.Decimal {
	if dinheiro, ok := s.Fluxo.(*FluxoDinheiro); ok {
		return dinheiro.Troco(s.Carrinho.Total())
	}
	return decimal.Zero
}

// ClienteOuPadrao resolves the customer sent to process_sale, substituting
// the unidentified-customer sentinel when none was selected.
func (s *Sessao) ClienteOuPadrao() model.Cliente {
	if s.Cliente != nil {
		return *s.Cliente
	}
	return model.ClienteNaoIdentificado()
}

// ChaveParaCommit returns the idempotency key for the pending transaction,
// assigning one on first use. Retries after a transport failure reuse the
// same key so the remote side can deduplicate.
func (s *Sessao) ChaveParaCommit() uuid.UUID {
	if s.ChaveIdempotencia == uuid.Nil {
		s.ChaveIdempotencia = uuid.New()
	}
	return s.ChaveIdempotencia
}

// Limpar resets the session after a successful commit or an explicit clear:
// empty cart, no discount, no customer, no payment state, fresh idempotency
// scope for the next transaction.
func (s *Sessao) Limpar() {
	s.Carrinho.Limpar()
	s.Cliente = nil
	s.Fluxo = nil
	s.ChaveIdempotencia = uuid.Nil
}
