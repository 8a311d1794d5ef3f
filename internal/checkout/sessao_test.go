package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

func sessaoComItem(t *testing.T, preco string) *Sessao {
	t.Helper()
	s := NovaSessao()
	require.NoError(t, s.Carrinho.AdicionarItem(produtoTeste("Item", preco, 10)))
	return s
}

// ── Fluxos ───────────────────────────────────────────────────────────────────

func TestFluxoDinheiroTrocoEProntidao(t *testing.T) {
	total := decimal.RequireFromString("80.00")

	f := &FluxoDinheiro{Recebido: decimal.RequireFromString("50.00")}
	assert.False(t, f.Pronto(total))
	assert.True(t, f.Troco(total).IsZero())

	f.Recebido = decimal.RequireFromString("100.00")
	assert.True(t, f.Pronto(total))
	assert.True(t, f.Troco(total).Equal(decimal.RequireFromString("20.00")))

	reg, err := f.Registro(total)
	require.NoError(t, err)
	assert.Equal(t, MetodoDinheiro, reg.Metodo)
	// o registro carrega o total, não o valor recebido
	assert.True(t, reg.Valor.Equal(total))
	assert.NotEmpty(t, reg.ReferenciaTransacao)
}

func TestFluxoCreditoParcelas(t *testing.T) {
	_, err := NovoFluxoCredito(0)
	assert.ErrorIs(t, err, ErrParcelasInvalidas)
	_, err = NovoFluxoCredito(13)
	assert.ErrorIs(t, err, ErrParcelasInvalidas)

	f, err := NovoFluxoCredito(3)
	require.NoError(t, err)

	total := decimal.RequireFromString("300.00")
	assert.True(t, f.Pronto(total))
	assert.True(t, f.ValorParcela(total).Equal(decimal.RequireFromString("100.00")))

	reg, err := f.Registro(total)
	require.NoError(t, err)
	// valor integral + contagem de parcelas, nunca o valor fatiado
	assert.True(t, reg.Valor.Equal(total))
	assert.Equal(t, 3, reg.Parcelas)
}

func TestFluxoDebitoExigeReferencia(t *testing.T) {
	total := decimal.RequireFromString("50.00")

	f := &FluxoDebito{}
	assert.False(t, f.Pronto(total))
	_, err := f.Registro(total)
	assert.ErrorIs(t, err, ErrPagamentoIncompleto)

	f.ReferenciaTransacao = "TRX-123"
	f.ValorAutorizado = total
	assert.True(t, f.Pronto(total))
	reg, err := f.Registro(total)
	require.NoError(t, err)
	assert.Equal(t, "TRX-123", reg.ReferenciaTransacao)
	assert.True(t, reg.Valor.Equal(total))
}

func TestFluxoDebitoInvalidaAutorizacaoAposMudancaDeTotal(t *testing.T) {
	f := &FluxoDebito{
		ReferenciaTransacao: "TRX-123",
		ValorAutorizado:     decimal.RequireFromString("25.00"),
	}

	// o carrinho mudou depois da autorização: nada de registrar a referência
	// antiga com um valor que a maquininha nunca cobrou
	novoTotal := decimal.RequireFromString("50.00")
	assert.False(t, f.Pronto(novoTotal))
	_, err := f.Registro(novoTotal)
	assert.ErrorIs(t, err, ErrPagamentoIncompleto)

	// voltando ao valor autorizado, a referência segue válida
	assert.True(t, f.Pronto(decimal.RequireFromString("25.00")))
}

func TestFluxoPixExigeConfirmacao(t *testing.T) {
	total := decimal.RequireFromString("50.00")

	f := &FluxoPix{CobrancaID: "ch_1", QRCode: "00020126...", ValorCobrado: total}
	assert.False(t, f.Pronto(total))

	f.Confirmado = true
	f.ReferenciaTransacao = "E2E-abc"
	assert.True(t, f.Pronto(total))

	reg, err := f.Registro(total)
	require.NoError(t, err)
	assert.Equal(t, MetodoPix, reg.Metodo)
	assert.Equal(t, "E2E-abc", reg.ReferenciaTransacao)
}

func TestFluxoPixInvalidaCobrancaAposMudancaDeTotal(t *testing.T) {
	f := &FluxoPix{
		CobrancaID:          "ch_1",
		QRCode:              "00020126...",
		Confirmado:          true,
		ReferenciaTransacao: "E2E-abc",
		ValorCobrado:        decimal.RequireFromString("25.00"),
	}

	// o QR é preso ao valor: carrinho editado depois do pagamento não pode
	// confirmar com a cobrança antiga
	novoTotal := decimal.RequireFromString("50.00")
	assert.False(t, f.Pronto(novoTotal))
	_, err := f.Registro(novoTotal)
	assert.ErrorIs(t, err, ErrPagamentoIncompleto)
}

// ── Sessão ───────────────────────────────────────────────────────────────────

func TestPodeConfirmarGuardas(t *testing.T) {
	s := NovaSessao()
	assert.ErrorIs(t, s.PodeConfirmar(), ErrCarrinhoVazio)

	require.NoError(t, s.Carrinho.AdicionarItem(produtoTeste("Item", "30.00", 5)))
	assert.ErrorIs(t, s.PodeConfirmar(), ErrFluxoNaoSelecionado)

	s.SelecionarFluxo(&FluxoDinheiro{Recebido: decimal.RequireFromString("10.00")})
	assert.ErrorIs(t, s.PodeConfirmar(), ErrPagamentoIncompleto)

	s.SelecionarFluxo(&FluxoDinheiro{Recebido: decimal.RequireFromString("30.00")})
	assert.NoError(t, s.PodeConfirmar())
}

func TestSelecionarFluxoDescartaEstadoAnterior(t *testing.T) {
	s := sessaoComItem(t, "30.00")

	s.SelecionarFluxo(&FluxoDinheiro{Recebido: decimal.RequireFromString("100.00")})
	s.SelecionarFluxo(&FluxoPix{})

	pix, ok := s.Fluxo.(*FluxoPix)
	require.True(t, ok)
	assert.False(t, pix.Confirmado)
	assert.True(t, s.Troco().IsZero())
}

func TestCancelarFluxoVoltaASelecao(t *testing.T) {
	s := sessaoComItem(t, "30.00")
	s.SelecionarFluxo(&FluxoDebito{ReferenciaTransacao: "TRX-9"})

	s.CancelarFluxo()
	assert.Nil(t, s.Fluxo)
	assert.ErrorIs(t, s.PodeConfirmar(), ErrFluxoNaoSelecionado)
	// carrinho intacto
	assert.Len(t, s.Carrinho.Itens, 1)
}

func TestPagamentosCobremOTotal(t *testing.T) {
	s := sessaoComItem(t, "75.50")
	s.SelecionarFluxo(&FluxoDinheiro{Recebido: decimal.RequireFromString("80.00")})

	pagamentos, err := s.Pagamentos()
	require.NoError(t, err)
	require.Len(t, pagamentos, 1)
	assert.True(t, pagamentos[0].Valor.Equal(decimal.RequireFromString("75.50")))
}

func TestTrocoSomenteParaDinheiro(t *testing.T) {
	s := sessaoComItem(t, "30.00")

	s.SelecionarFluxo(&FluxoDinheiro{Recebido: decimal.RequireFromString("50.00")})
	assert.True(t, s.Troco().Equal(decimal.RequireFromString("20.00")))

	s.SelecionarFluxo(&FluxoDebito{ReferenciaTransacao: "TRX-1"})
	assert.True(t, s.Troco().IsZero())
}

func TestClienteOuPadrao(t *testing.T) {
	s := sessaoComItem(t, "30.00")

	padrao := s.ClienteOuPadrao()
	assert.Equal(t, "Consumidor não identificado", padrao.Nome)
	assert.Equal(t, "000.000.000-00", padrao.Documento)
	assert.False(t, padrao.Identificado())

	id := uuid.New()
	s.Cliente = &model.Cliente{ID: &id, Nome: "Maria Souza", Documento: "123.456.789-00"}
	assert.Equal(t, "Maria Souza", s.ClienteOuPadrao().Nome)
	assert.True(t, s.ClienteOuPadrao().Identificado())
}

func TestChaveParaCommitEstavelAteLimpar(t *testing.T) {
	s := sessaoComItem(t, "30.00")

	chave := s.ChaveParaCommit()
	require.NotEqual(t, uuid.Nil, chave)
	// retries reutilizam a mesma chave
	assert.Equal(t, chave, s.ChaveParaCommit())

	s.Limpar()
	nova := s.ChaveParaCommit()
	assert.NotEqual(t, chave, nova)
}

func TestLimparResetaTudo(t *testing.T) {
	s := sessaoComItem(t, "30.00")
	id := uuid.New()
	s.Cliente = &model.Cliente{ID: &id, Nome: "João"}
	s.SelecionarFluxo(&FluxoDinheiro{Recebido: decimal.RequireFromString("50.00")})
	s.Carrinho.DefinirDesconto(decimal.RequireFromString("2.00"))
	_ = s.ChaveParaCommit()

	s.Limpar()

	assert.True(t, s.Carrinho.Vazio())
	assert.True(t, s.Carrinho.Desconto.IsZero())
	assert.Nil(t, s.Cliente)
	assert.Nil(t, s.Fluxo)
	assert.Equal(t, uuid.Nil, s.ChaveIdempotencia)
}
