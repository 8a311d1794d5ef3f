package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/dto"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/infra"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/receipt"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCatalogo is an in-memory CatalogoService backed by a fixed product list.
type stubCatalogo struct {
	mu           sync.Mutex
	produtos     map[uuid.UUID]model.Produto
	atualizacoes int
}

func newStubCatalogo(produtos ...model.Produto) *stubCatalogo {
	s := &stubCatalogo{produtos: make(map[uuid.UUID]model.Produto)}
	for _, p := range produtos {
		s.produtos[p.ID] = p
	}
	return s
}

func (s *stubCatalogo) Listar(_ context.Context, _ dto.ProdutoFilter) ([]model.Produto, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Produto, 0, len(s.produtos))
	for _, p := range s.produtos {
		out = append(out, p)
	}
	return out, time.Now(), nil
}

func (s *stubCatalogo) BuscarPorID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.produtos[id]
	if !ok {
		return nil, ErrProdutoNaoEncontrado
	}
	return &p, nil
}

func (s *stubCatalogo) Atualizar(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atualizacoes++
	return nil
}

var _ CatalogoService = (*stubCatalogo)(nil)

// stubVendaRepo records process_sale calls and answers with a scripted result.
type stubVendaRepo struct {
	mu       sync.Mutex
	chamadas []repository.ProcessarVendaParams
	err      error
	venda    *model.Venda
}

func (r *stubVendaRepo) ProcessarVenda(_ context.Context, params repository.ProcessarVendaParams) (*model.Venda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chamadas = append(r.chamadas, params)
	if r.err != nil {
		return nil, r.err
	}
	if r.venda != nil {
		return r.venda, nil
	}
	return &model.Venda{
		ID:           uuid.New(),
		Numero:       "V-000042",
		ValorFinal:   decimal.RequireFromString("50.00"),
		ConfirmadaEm: time.Now(),
	}, nil
}

var _ repository.VendaRepository = (*stubVendaRepo)(nil)

type stubTerminal struct {
	ref string
	err error
}

func (t *stubTerminal) IniciarPagamento(_ context.Context, _ decimal.Decimal, _ string) (string, error) {
	return t.ref, t.err
}

type stubPix struct {
	cobranca *infra.PixCobranca
	status   *infra.PixStatus
	err      error
}

func (p *stubPix) CriarCobranca(_ context.Context, _ decimal.Decimal, _ string) (*infra.PixCobranca, error) {
	return p.cobranca, p.err
}

func (p *stubPix) ConsultarCobranca(_ context.Context, _ string) (*infra.PixStatus, error) {
	return p.status, p.err
}

type stubEnqueuer struct {
	mu       sync.Mutex
	payloads []interface{}
}

func (e *stubEnqueuer) EnqueueImpressao(_ context.Context, payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payloads = append(e.payloads, payload)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	svc      CheckoutService
	catalogo *stubCatalogo
	vendas   *stubVendaRepo
	terminal *stubTerminal
	pix      *stubPix
	enq      *stubEnqueuer
	produto  model.Produto
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	produto := model.Produto{
		ID:                   uuid.New(),
		SKU:                  "PEL-001",
		Nome:                 "Película 3D",
		PrecoVenda:           decimal.RequireFromString("25.00"),
		QuantidadeDisponivel: 10,
	}
	f := &fixture{
		catalogo: newStubCatalogo(produto),
		vendas:   &stubVendaRepo{},
		terminal: &stubTerminal{ref: "TRX-OK"},
		pix:      &stubPix{},
		enq:      &stubEnqueuer{},
		produto:  produto,
	}
	renderer := receipt.NovoRenderer(receipt.Loja{Nome: "Paulo Cell"}, "pt-BR")
	f.svc = NewCheckoutService(
		f.catalogo, f.vendas,
		f.terminal, f.pix,
		infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		renderer, f.enq,
		uuid.New(), 5*time.Second,
	)
	return f
}

func (f *fixture) abrirComItem(t *testing.T) uuid.UUID {
	t.Helper()
	sessao := f.svc.AbrirSessao()
	id := uuid.MustParse(sessao.ID)
	_, err := f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: f.produto.ID.String()})
	require.NoError(t, err)
	_, err = f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: f.produto.ID.String()})
	require.NoError(t, err)
	return id
}

func (f *fixture) pagarEmDinheiro(t *testing.T, id uuid.UUID, recebido string) {
	t.Helper()
	valor := decimal.RequireFromString(recebido)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "dinheiro", Recebido: &valor})
	require.NoError(t, err)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAdicionarItemAtualizaTotais(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)

	resp, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	require.Len(t, resp.Itens, 1)
	assert.Equal(t, 2, resp.Itens[0].Quantidade)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("50.00")))
}

func TestAdicionarItemProdutoDesconhecido(t *testing.T) {
	f := newFixture(t)
	sessao := f.svc.AbrirSessao()
	id := uuid.MustParse(sessao.ID)

	_, err := f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrProdutoNaoEncontrado)
}

func TestAtualizarItemValidaContraSnapshotAtual(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	sessao, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	linhaID := uuid.MustParse(sessao.Itens[0].LinhaID)

	// um refresh pós-venda derrubou o estoque de 10 para 3
	f.catalogo.mu.Lock()
	produto := f.catalogo.produtos[f.produto.ID]
	produto.QuantidadeDisponivel = 3
	f.catalogo.produtos[f.produto.ID] = produto
	f.catalogo.mu.Unlock()

	// o teto congelado na linha (10) não vale mais
	_, err = f.svc.AtualizarItem(context.Background(), id, linhaID, dto.QuantidadeRequest{Quantidade: 5})
	var estoque *checkout.EstoqueInsuficienteError
	require.ErrorAs(t, err, &estoque)
	assert.Equal(t, 3, estoque.Disponivel)

	resp, err := f.svc.AtualizarItem(context.Background(), id, linhaID, dto.QuantidadeRequest{Quantidade: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Itens[0].Quantidade)
	assert.Equal(t, 3, resp.Itens[0].Disponivel)
}

func TestSessaoDesconhecida(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ObterSessao(uuid.New())
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
}

func TestConfirmarVendaSucessoLimpaSessao(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "100.00")

	venda, err := f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)
	assert.Equal(t, "V-000042", venda.Numero)
	assert.True(t, venda.Troco.Equal(decimal.RequireFromString("50.00")))
	assert.Contains(t, venda.Recibo, "CUPOM NÃO FISCAL")

	// sessão limpa para a próxima venda
	resp, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	assert.Empty(t, resp.Itens)
	assert.Nil(t, resp.Pagamento)

	// cupom enfileirado
	f.enq.mu.Lock()
	defer f.enq.mu.Unlock()
	assert.Len(t, f.enq.payloads, 1)
}

func TestConfirmarVendaRecusadaPreservaSessao(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "50.00")
	f.vendas.err = &repository.VendaRecusadaError{Motivo: "estoque insuficiente"}

	_, err := f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	var recusada *repository.VendaRecusadaError
	require.ErrorAs(t, err, &recusada)

	resp, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	assert.Len(t, resp.Itens, 1)
	require.NotNil(t, resp.Pagamento)
	assert.Equal(t, "dinheiro", resp.Pagamento.Metodo)
}

func TestConfirmarVendaReusaChaveIdempotenciaNoRetry(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "50.00")

	f.vendas.err = &repository.FalhaTransporteError{Causa: errors.New("timeout")}
	_, err := f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	var transporte *repository.FalhaTransporteError
	require.ErrorAs(t, err, &transporte)

	f.vendas.err = nil
	_, err = f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)

	require.Len(t, f.vendas.chamadas, 2)
	assert.Equal(t, f.vendas.chamadas[0].ChaveIdempotencia, f.vendas.chamadas[1].ChaveIdempotencia)
	assert.NotEqual(t, uuid.Nil, f.vendas.chamadas[0].ChaveIdempotencia)
}

func TestConfirmarVendaChaveNovaAposSucesso(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "50.00")
	_, err := f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)

	// nova transação na mesma sessão ganha chave própria
	_, err = f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: f.produto.ID.String()})
	require.NoError(t, err)
	f.pagarEmDinheiro(t, id, "25.00")
	_, err = f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)

	require.Len(t, f.vendas.chamadas, 2)
	assert.NotEqual(t, f.vendas.chamadas[0].ChaveIdempotencia, f.vendas.chamadas[1].ChaveIdempotencia)
}

func TestConfirmarVendaGuardas(t *testing.T) {
	f := newFixture(t)
	sessao := f.svc.AbrirSessao()
	id := uuid.MustParse(sessao.ID)

	_, err := f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, checkout.ErrCarrinhoVazio)

	_, err = f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: f.produto.ID.String()})
	require.NoError(t, err)
	_, err = f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, checkout.ErrFluxoNaoSelecionado)

	f.pagarEmDinheiro(t, id, "1.00")
	_, err = f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, checkout.ErrPagamentoIncompleto)

	assert.Empty(t, f.vendas.chamadas)
}

func TestConfirmarVendaEnviaClientePadrao(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "50.00")

	_, err := f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)

	require.Len(t, f.vendas.chamadas, 1)
	cliente := f.vendas.chamadas[0].Cliente
	assert.Nil(t, cliente.ID)
	assert.Equal(t, "Consumidor não identificado", cliente.Nome)
}

func TestDefinirERemoverCliente(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)

	resp, err := f.svc.DefinirCliente(id, dto.ClienteRequest{
		ID: uuid.NewString(), Nome: "Maria Souza", Documento: "123.456.789-00",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Cliente)
	assert.Equal(t, "Maria Souza", resp.Cliente.Nome)

	resp, err = f.svc.RemoverCliente(id)
	require.NoError(t, err)
	assert.Nil(t, resp.Cliente)
}

func TestSelecionarMetodoTrocaDescartaEstado(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "100.00")

	parcelas := 3
	resp, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "credito", Parcelas: &parcelas})
	require.NoError(t, err)
	require.NotNil(t, resp.Pagamento)
	assert.Equal(t, "credito", resp.Pagamento.Metodo)
	assert.Nil(t, resp.Pagamento.Recebido)
	assert.True(t, resp.Pagamento.Pronto)
}

func TestCancelarPagamentoMantemCarrinho(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "100.00")

	resp, err := f.svc.CancelarPagamento(id)
	require.NoError(t, err)
	assert.Nil(t, resp.Pagamento)
	assert.Len(t, resp.Itens, 1)
}

func TestPagamentoTerminalAprovado(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "debito"})
	require.NoError(t, err)

	resp, err := f.svc.PagamentoTerminal(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, resp.Pagamento)
	assert.Equal(t, "TRX-OK", resp.Pagamento.ReferenciaTransacao)
	assert.True(t, resp.Pagamento.Pronto)
}

func TestPagamentoTerminalCancelado(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "debito"})
	require.NoError(t, err)
	f.terminal.err = infra.ErrPagamentoTerminalCancelado
	f.terminal.ref = ""

	_, err = f.svc.PagamentoTerminal(context.Background(), id)
	assert.ErrorIs(t, err, checkout.ErrPagamentoCancelado)

	// volta à seleção de método
	resp, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	assert.Nil(t, resp.Pagamento)
}

func TestPagamentoTerminalNaoValeAposEditarCarrinho(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "debito"})
	require.NoError(t, err)

	// a maquininha autorizou 50.00
	_, err = f.svc.PagamentoTerminal(context.Background(), id)
	require.NoError(t, err)

	// operador adiciona mais um item depois da autorização: total agora 75.00
	resp, err := f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: f.produto.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, resp.Pagamento)
	assert.False(t, resp.Pagamento.Pronto)

	// a referência antiga não pode virar um pagamento de 75.00
	_, err = f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, checkout.ErrPagamentoIncompleto)
	assert.Empty(t, f.vendas.chamadas)

	// removendo o item extra o total volta ao autorizado e o commit passa
	sessao, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	_, err = f.svc.AtualizarItem(context.Background(), id, uuid.MustParse(sessao.Itens[0].LinhaID), dto.QuantidadeRequest{Quantidade: 2})
	require.NoError(t, err)
	_, err = f.svc.ConfirmarVenda(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)
	require.Len(t, f.vendas.chamadas, 1)
	assert.True(t, f.vendas.chamadas[0].Pagamentos[0].Valor.Equal(decimal.RequireFromString("50.00")))
}

func TestPagamentoTerminalExigeDebito(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "100.00")

	_, err := f.svc.PagamentoTerminal(context.Background(), id)
	assert.ErrorIs(t, err, ErrMetodoNaoCorresponde)
}

func TestFluxoPixCompleto(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "pix"})
	require.NoError(t, err)

	f.pix.cobranca = &infra.PixCobranca{CobrancaID: "ch_1", QRCode: "00020126...", CopiaECola: "copia"}
	cobranca, err := f.svc.CriarCobrancaPix(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ch_1", cobranca.CobrancaID)

	// primeiro poll: pendente
	f.pix.status = &infra.PixStatus{Status: infra.PixPendente}
	_, err = f.svc.ConfirmarPix(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, ErrPixPendente)

	// segundo poll: pago — commit imediato
	f.pix.status = &infra.PixStatus{Status: infra.PixPago, ReferenciaTransacao: "E2E-xyz"}
	venda, err := f.svc.ConfirmarPix(context.Background(), id, dto.ConfirmarVendaRequest{})
	require.NoError(t, err)
	assert.Equal(t, "V-000042", venda.Numero)

	require.Len(t, f.vendas.chamadas, 1)
	require.Len(t, f.vendas.chamadas[0].Pagamentos, 1)
	assert.Equal(t, checkout.MetodoPix, f.vendas.chamadas[0].Pagamentos[0].Metodo)
	assert.Equal(t, "E2E-xyz", f.vendas.chamadas[0].Pagamentos[0].ReferenciaTransacao)
}

func TestPixPagoNaoValeAposEditarCarrinho(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "pix"})
	require.NoError(t, err)

	// cobrança criada sobre 50.00
	f.pix.cobranca = &infra.PixCobranca{CobrancaID: "ch_3", QRCode: "qr"}
	_, err = f.svc.CriarCobrancaPix(context.Background(), id)
	require.NoError(t, err)

	// carrinho editado depois do QR: total agora 75.00
	_, err = f.svc.AdicionarItem(context.Background(), id, dto.AdicionarItemRequest{ProdutoID: f.produto.ID.String()})
	require.NoError(t, err)

	// o PSP confirma os 50.00 pagos, mas o commit não pode fechar 75.00
	f.pix.status = &infra.PixStatus{Status: infra.PixPago, ReferenciaTransacao: "E2E-old"}
	_, err = f.svc.ConfirmarPix(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, checkout.ErrPagamentoIncompleto)
	assert.Empty(t, f.vendas.chamadas)

	// sessão preservada para o operador resolver (nova cobrança ou estorno)
	resp, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	assert.Len(t, resp.Itens, 1)
	require.NotNil(t, resp.Pagamento)
	assert.Equal(t, "pix", resp.Pagamento.Metodo)
}

func TestPixExpiradoDescartaFluxo(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	_, err := f.svc.SelecionarMetodo(id, dto.MetodoRequest{Metodo: "pix"})
	require.NoError(t, err)
	f.pix.cobranca = &infra.PixCobranca{CobrancaID: "ch_2", QRCode: "qr"}
	_, err = f.svc.CriarCobrancaPix(context.Background(), id)
	require.NoError(t, err)

	f.pix.status = &infra.PixStatus{Status: infra.PixExpirado}
	_, err = f.svc.ConfirmarPix(context.Background(), id, dto.ConfirmarVendaRequest{})
	assert.ErrorIs(t, err, checkout.ErrPagamentoCancelado)

	resp, err := f.svc.ObterSessao(id)
	require.NoError(t, err)
	assert.Nil(t, resp.Pagamento)
	assert.Len(t, resp.Itens, 1)
}

func TestCriarCobrancaPixExigeMetodoPix(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)
	f.pagarEmDinheiro(t, id, "100.00")

	_, err := f.svc.CriarCobrancaPix(context.Background(), id)
	assert.ErrorIs(t, err, ErrMetodoNaoCorresponde)
}

func TestEncerrarSessao(t *testing.T) {
	f := newFixture(t)
	id := f.abrirComItem(t)

	require.NoError(t, f.svc.EncerrarSessao(id))
	_, err := f.svc.ObterSessao(id)
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada)
}
