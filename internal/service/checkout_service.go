package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/checkout"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/dto"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/infra"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/receipt"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/repository"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/worker"
)

var (
	// ErrSessaoNaoEncontrada: unknown or already closed checkout session.
	ErrSessaoNaoEncontrada = errors.New("sessão de checkout não encontrada")
	// ErrConfirmacaoEmCurso rejects any mutation — including a second
	// confirm — while a commit for the same session is in flight.
	ErrConfirmacaoEmCurso = errors.New("confirmação de venda em andamento")
	// ErrMetodoNaoCorresponde: the external sub-flow endpoint was called but
	// the selected method does not match (e.g. terminal hand-off without
	// débito selected).
	ErrMetodoNaoCorresponde = errors.New("método de pagamento não corresponde à operação")
	// ErrPixPendente: the charge exists but the PSP has not confirmed payment
	// yet. The POS keeps polling.
	ErrPixPendente = errors.New("cobrança PIX ainda pendente")
)

// TerminalGateway abstracts the card machine bridge for the débito sub-flow.
type TerminalGateway interface {
	IniciarPagamento(ctx context.Context, valor decimal.Decimal, referencia string) (string, error)
}

// PixGateway abstracts the PSP bridge for the PIX sub-flow.
type PixGateway interface {
	CriarCobranca(ctx context.Context, valor decimal.Decimal, referencia string) (*infra.PixCobranca, error)
	ConsultarCobranca(ctx context.Context, cobrancaID string) (*infra.PixStatus, error)
}

// ReciboEnqueuer hands the rendered cupom to the async print pipeline. Commit
// never waits for paper.
type ReciboEnqueuer interface {
	EnqueueImpressao(ctx context.Context, payload interface{}) error
}

// CheckoutService orchestrates the pending sale: cart mutations, customer
// selection, the payment sub-flows and the final commit through process_sale.
// Sessions live in memory — a checkout is a short-lived, single-operator
// affair; anything durable only exists after the remote commit.
type CheckoutService interface {
	AbrirSessao() *dto.SessaoResponse
	ObterSessao(id uuid.UUID) (*dto.SessaoResponse, error)
	EncerrarSessao(id uuid.UUID) error

	AdicionarItem(ctx context.Context, id uuid.UUID, req dto.AdicionarItemRequest) (*dto.SessaoResponse, error)
	AtualizarItem(ctx context.Context, id uuid.UUID, linhaID uuid.UUID, req dto.QuantidadeRequest) (*dto.SessaoResponse, error)
	RemoverItem(id uuid.UUID, linhaID uuid.UUID) (*dto.SessaoResponse, error)
	DefinirDesconto(id uuid.UUID, req dto.DescontoRequest) (*dto.SessaoResponse, error)

	DefinirCliente(id uuid.UUID, req dto.ClienteRequest) (*dto.SessaoResponse, error)
	RemoverCliente(id uuid.UUID) (*dto.SessaoResponse, error)

	SelecionarMetodo(id uuid.UUID, req dto.MetodoRequest) (*dto.SessaoResponse, error)
	CancelarPagamento(id uuid.UUID) (*dto.SessaoResponse, error)
	PagamentoTerminal(ctx context.Context, id uuid.UUID) (*dto.SessaoResponse, error)
	CriarCobrancaPix(ctx context.Context, id uuid.UUID) (*dto.PixCobrancaResponse, error)
	ConfirmarPix(ctx context.Context, id uuid.UUID, req dto.ConfirmarVendaRequest) (*dto.VendaResponse, error)

	ConfirmarVenda(ctx context.Context, id uuid.UUID, req dto.ConfirmarVendaRequest) (*dto.VendaResponse, error)
}

// sessaoAtiva pairs the session state with its own lock so two terminals (or
// a double-clicked button) cannot interleave mutations.
type sessaoAtiva struct {
	mu            sync.Mutex
	sessao        *checkout.Sessao
	emConfirmacao bool
}

type checkoutService struct {
	catalogo         CatalogoService
	vendas           repository.VendaRepository
	terminal         TerminalGateway
	pix              PixGateway
	cbTerminal       *infra.CircuitBreaker
	cbPix            *infra.CircuitBreaker
	renderer         *receipt.Renderer
	recibos          ReciboEnqueuer
	organizacaoID    uuid.UUID
	timeoutPagamento time.Duration

	mu      sync.RWMutex
	sessoes map[uuid.UUID]*sessaoAtiva
}

func NewCheckoutService(
	catalogo CatalogoService,
	vendas repository.VendaRepository,
	terminal TerminalGateway,
	pix PixGateway,
	cbTerminal *infra.CircuitBreaker,
	cbPix *infra.CircuitBreaker,
	renderer *receipt.Renderer,
	recibos ReciboEnqueuer,
	organizacaoID uuid.UUID,
	timeoutPagamento time.Duration,
) CheckoutService {
	return &checkoutService{
		catalogo:         catalogo,
		vendas:           vendas,
		terminal:         terminal,
		pix:              pix,
		cbTerminal:       cbTerminal,
		cbPix:            cbPix,
		renderer:         renderer,
		recibos:          recibos,
		organizacaoID:    organizacaoID,
		timeoutPagamento: timeoutPagamento,
		sessoes:          make(map[uuid.UUID]*sessaoAtiva),
	}
}

// ─── Session lifecycle ───────────────────────────────────────────────────────

func (s *checkoutService) AbrirSessao() *dto.SessaoResponse {
	sessao := checkout.NovaSessao()
	ativa := &sessaoAtiva{sessao: sessao}

	s.mu.Lock()
	s.sessoes[sessao.ID] = ativa
	s.mu.Unlock()

	log.Info().Str("sessao", sessao.ID.String()).Msg("checkout: sessão aberta")
	return montarSessaoResponse(sessao)
}

func (s *checkoutService) ObterSessao(id uuid.UUID) (*dto.SessaoResponse, error) {
	ativa, err := s.obter(id)
	if err != nil {
		return nil, err
	}
	ativa.mu.Lock()
	defer ativa.mu.Unlock()
	return montarSessaoResponse(ativa.sessao), nil
}

func (s *checkoutService) EncerrarSessao(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ativa, ok := s.sessoes[id]
	if !ok {
		return ErrSessaoNaoEncontrada
	}
	ativa.mu.Lock()
	emCurso := ativa.emConfirmacao
	ativa.mu.Unlock()
	if emCurso {
		return ErrConfirmacaoEmCurso
	}
	delete(s.sessoes, id)
	log.Info().Str("sessao", id.String()).Msg("checkout: sessão encerrada")
	return nil
}

func (s *checkoutService) obter(id uuid.UUID) (*sessaoAtiva, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ativa, ok := s.sessoes[id]
	if !ok {
		return nil, ErrSessaoNaoEncontrada
	}
	return ativa, nil
}

// mutar runs fn with the session locked, rejecting mutations while a commit
// is in flight.
func (s *checkoutService) mutar(id uuid.UUID, fn func(*checkout.Sessao) error) (*dto.SessaoResponse, error) {
	ativa, err := s.obter(id)
	if err != nil {
		return nil, err
	}
	ativa.mu.Lock()
	defer ativa.mu.Unlock()
	if ativa.emConfirmacao {
		return nil, ErrConfirmacaoEmCurso
	}
	if err := fn(ativa.sessao); err != nil {
		return nil, err
	}
	return montarSessaoResponse(ativa.sessao), nil
}

// ─── Cart ────────────────────────────────────────────────────────────────────

func (s *checkoutService) AdicionarItem(ctx context.Context, id uuid.UUID, req dto.AdicionarItemRequest) (*dto.SessaoResponse, error) {
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, ErrProdutoNaoEncontrado
	}
	produto, err := s.catalogo.BuscarPorID(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		return sessao.Carrinho.AdicionarItem(produto)
	})
}

func (s *checkoutService) AtualizarItem(ctx context.Context, id uuid.UUID, linhaID uuid.UUID, req dto.QuantidadeRequest) (*dto.SessaoResponse, error) {
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		// quantity edits validate against the latest snapshot, not the
		// availability frozen at add time: a post-sale refresh may have
		// tightened (or relaxed) the ceiling meanwhile
		if linha, ok := sessao.Carrinho.Linha(linhaID); ok {
			if produto, err := s.catalogo.BuscarPorID(ctx, linha.ProdutoID); err == nil {
				sessao.Carrinho.AtualizarDisponibilidade(produto.ID, produto.QuantidadeDisponivel)
			}
		}
		if err := sessao.Carrinho.DefinirQuantidade(linhaID, req.Quantidade); err != nil {
			return err
		}
		if req.Desconto != nil && req.Quantidade > 0 {
			return sessao.Carrinho.DefinirDescontoLinha(linhaID, *req.Desconto)
		}
		return nil
	})
}

func (s *checkoutService) RemoverItem(id uuid.UUID, linhaID uuid.UUID) (*dto.SessaoResponse, error) {
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		return sessao.Carrinho.RemoverItem(linhaID)
	})
}

func (s *checkoutService) DefinirDesconto(id uuid.UUID, req dto.DescontoRequest) (*dto.SessaoResponse, error) {
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		sessao.Carrinho.DefinirDesconto(req.ValorDecimal())
		return nil
	})
}

// ─── Customer ────────────────────────────────────────────────────────────────

func (s *checkoutService) DefinirCliente(id uuid.UUID, req dto.ClienteRequest) (*dto.SessaoResponse, error) {
	clienteID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrSessaoNaoEncontrada
	}
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		sessao.Cliente = &model.Cliente{
			ID:        &clienteID,
			Nome:      req.Nome,
			Documento: req.Documento,
			Telefone:  req.Telefone,
			Email:     req.Email,
		}
		return nil
	})
}

func (s *checkoutService) RemoverCliente(id uuid.UUID) (*dto.SessaoResponse, error) {
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		sessao.Cliente = nil
		return nil
	})
}

// ─── Payment sub-flows ───────────────────────────────────────────────────────

func (s *checkoutService) SelecionarMetodo(id uuid.UUID, req dto.MetodoRequest) (*dto.SessaoResponse, error) {
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		switch checkout.Metodo(req.Metodo) {
		case checkout.MetodoDinheiro:
			recebido := decimal.Zero
			if req.Recebido != nil {
				recebido = *req.Recebido
			}
			sessao.SelecionarFluxo(&checkout.FluxoDinheiro{Recebido: recebido})
		case checkout.MetodoCredito:
			parcelas := 1
			if req.Parcelas != nil {
				parcelas = *req.Parcelas
			}
			fluxo, err := checkout.NovoFluxoCredito(parcelas)
			if err != nil {
				return err
			}
			sessao.SelecionarFluxo(fluxo)
		case checkout.MetodoDebito:
			sessao.SelecionarFluxo(&checkout.FluxoDebito{})
		case checkout.MetodoPix:
			sessao.SelecionarFluxo(&checkout.FluxoPix{})
		default:
			return ErrMetodoNaoCorresponde
		}
		return nil
	})
}

func (s *checkoutService) CancelarPagamento(id uuid.UUID) (*dto.SessaoResponse, error) {
	return s.mutar(id, func(sessao *checkout.Sessao) error {
		sessao.CancelarFluxo()
		return nil
	})
}

// PagamentoTerminal hands the sale total to the card machine and blocks until
// the device answers (bounded by the payment timeout). The session stays
// unlocked during the cardholder interaction so the POS can keep reading it.
func (s *checkoutService) PagamentoTerminal(ctx context.Context, id uuid.UUID) (*dto.SessaoResponse, error) {
	ativa, err := s.obter(id)
	if err != nil {
		return nil, err
	}

	ativa.mu.Lock()
	if ativa.emConfirmacao {
		ativa.mu.Unlock()
		return nil, ErrConfirmacaoEmCurso
	}
	fluxo, ok := ativa.sessao.Fluxo.(*checkout.FluxoDebito)
	if !ok {
		ativa.mu.Unlock()
		return nil, ErrMetodoNaoCorresponde
	}
	total := ativa.sessao.Carrinho.Total()
	referencia := ativa.sessao.ID.String()
	ativa.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeoutPagamento)
	defer cancel()

	var ref string
	err = s.cbTerminal.Execute(func() error {
		var execErr error
		ref, execErr = s.terminal.IniciarPagamento(ctx, total, referencia)
		return execErr
	})
	if err != nil {
		if errors.Is(err, infra.ErrPagamentoTerminalCancelado) {
			// the cardholder or operator aborted on the device: back to
			// method selection with zero payment records
			s.descartarFluxo(ativa, fluxo)
			return nil, checkout.ErrPagamentoCancelado
		}
		return nil, err
	}

	ativa.mu.Lock()
	defer ativa.mu.Unlock()
	// only apply if the operator did not switch methods while the device ran
	if ativa.sessao.Fluxo == checkout.FluxoPagamento(fluxo) {
		fluxo.ReferenciaTransacao = ref
		// the authorization is bound to this amount: editing the cart
		// afterwards must invalidate it, not silently re-price the charge
		fluxo.ValorAutorizado = total
	}
	return montarSessaoResponse(ativa.sessao), nil
}

// CriarCobrancaPix asks the PSP for a dynamic QR charge over the sale total.
func (s *checkoutService) CriarCobrancaPix(ctx context.Context, id uuid.UUID) (*dto.PixCobrancaResponse, error) {
	ativa, err := s.obter(id)
	if err != nil {
		return nil, err
	}

	ativa.mu.Lock()
	if ativa.emConfirmacao {
		ativa.mu.Unlock()
		return nil, ErrConfirmacaoEmCurso
	}
	fluxo, ok := ativa.sessao.Fluxo.(*checkout.FluxoPix)
	if !ok {
		ativa.mu.Unlock()
		return nil, ErrMetodoNaoCorresponde
	}
	total := ativa.sessao.Carrinho.Total()
	referencia := ativa.sessao.ID.String()
	ativa.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeoutPagamento)
	defer cancel()

	var cobranca *infra.PixCobranca
	err = s.cbPix.Execute(func() error {
		var execErr error
		cobranca, execErr = s.pix.CriarCobranca(ctx, total, referencia)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	ativa.mu.Lock()
	defer ativa.mu.Unlock()
	if ativa.sessao.Fluxo == checkout.FluxoPagamento(fluxo) {
		fluxo.CobrancaID = cobranca.CobrancaID
		fluxo.QRCode = cobranca.QRCode
		fluxo.ValorCobrado = total
	}
	return &dto.PixCobrancaResponse{
		CobrancaID: cobranca.CobrancaID,
		QRCode:     cobranca.QRCode,
		CopiaECola: cobranca.CopiaECola,
	}, nil
}

// ConfirmarPix polls the charge once. Paid charges flow straight into the
// regular commit; cancelled or expired ones drop the sub-flow and put the
// operator back at method selection.
func (s *checkoutService) ConfirmarPix(ctx context.Context, id uuid.UUID, req dto.ConfirmarVendaRequest) (*dto.VendaResponse, error) {
	ativa, err := s.obter(id)
	if err != nil {
		return nil, err
	}

	ativa.mu.Lock()
	if ativa.emConfirmacao {
		ativa.mu.Unlock()
		return nil, ErrConfirmacaoEmCurso
	}
	fluxo, ok := ativa.sessao.Fluxo.(*checkout.FluxoPix)
	if !ok || fluxo.CobrancaID == "" {
		ativa.mu.Unlock()
		return nil, ErrMetodoNaoCorresponde
	}
	cobrancaID := fluxo.CobrancaID
	ativa.mu.Unlock()

	pollCtx, cancel := context.WithTimeout(ctx, s.timeoutPagamento)
	defer cancel()

	var status *infra.PixStatus
	err = s.cbPix.Execute(func() error {
		var execErr error
		status, execErr = s.pix.ConsultarCobranca(pollCtx, cobrancaID)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	switch status.Status {
	case infra.PixPago:
		ativa.mu.Lock()
		if ativa.sessao.Fluxo == checkout.FluxoPagamento(fluxo) {
			fluxo.Confirmado = true
			fluxo.ReferenciaTransacao = status.ReferenciaTransacao
		}
		ativa.mu.Unlock()
		return s.ConfirmarVenda(ctx, id, req)
	case infra.PixPendente:
		return nil, ErrPixPendente
	default: // cancelado, expirado
		s.descartarFluxo(ativa, fluxo)
		return nil, checkout.ErrPagamentoCancelado
	}
}

// descartarFluxo drops fluxo if it is still the session's active sub-flow.
func (s *checkoutService) descartarFluxo(ativa *sessaoAtiva, fluxo checkout.FluxoPagamento) {
	ativa.mu.Lock()
	defer ativa.mu.Unlock()
	if ativa.sessao.Fluxo == fluxo {
		ativa.sessao.CancelarFluxo()
	}
}

// ─── Commit ──────────────────────────────────────────────────────────────────

// ConfirmarVenda is the only write path of a sale. It snapshots the session,
// calls process_sale and — only on an acknowledged success — clears the
// session and hands the cupom to the print queue. Any failure leaves cart,
// customer, payment state and idempotency key untouched so the operator can
// retry or adjust.
func (s *checkoutService) ConfirmarVenda(ctx context.Context, id uuid.UUID, req dto.ConfirmarVendaRequest) (*dto.VendaResponse, error) {
	ativa, err := s.obter(id)
	if err != nil {
		return nil, err
	}

	ativa.mu.Lock()
	if ativa.emConfirmacao {
		ativa.mu.Unlock()
		return nil, ErrConfirmacaoEmCurso
	}
	if err := ativa.sessao.PodeConfirmar(); err != nil {
		ativa.mu.Unlock()
		return nil, err
	}
	pagamentos, err := ativa.sessao.Pagamentos()
	if err != nil {
		ativa.mu.Unlock()
		return nil, err
	}

	itens := ativa.sessao.Carrinho.Snapshot()
	desconto := ativa.sessao.Carrinho.Desconto
	cliente := ativa.sessao.ClienteOuPadrao()
	troco := ativa.sessao.Troco()
	chave := ativa.sessao.ChaveParaCommit()
	ativa.emConfirmacao = true
	ativa.mu.Unlock()

	defer func() {
		ativa.mu.Lock()
		ativa.emConfirmacao = false
		ativa.mu.Unlock()
	}()

	venda, err := s.vendas.ProcessarVenda(ctx, repository.ProcessarVendaParams{
		Cliente:           cliente,
		Itens:             itens,
		Pagamentos:        pagamentos,
		Desconto:          desconto,
		Observacoes:       req.Observacoes,
		OrganizacaoID:     s.organizacaoID,
		ChaveIdempotencia: chave,
	})
	if err != nil {
		// rejected or ambiguous: the session — idempotency key included —
		// stays exactly as it was, so a retry cannot double-sell
		log.Warn().Err(err).Str("sessao", id.String()).Msg("checkout: process_sale falhou")
		return nil, err
	}

	dados := receipt.Dados{
		Venda:      *venda,
		Cliente:    cliente,
		Itens:      itens,
		Pagamentos: pagamentos,
		Desconto:   desconto,
		Troco:      troco,
	}
	texto := s.renderer.Render(dados)

	ativa.mu.Lock()
	ativa.sessao.Limpar()
	ativa.mu.Unlock()

	s.enfileirarRecibo(dados, texto, req.ClienteEmail)

	// the committed sale decremented stock server-side; refresh so the next
	// cart validates against fresh quantities
	go func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.catalogo.Atualizar(refreshCtx); err != nil {
			log.Warn().Err(err).Msg("checkout: falha ao atualizar catálogo pós-venda")
		}
	}()

	log.Info().
		Str("venda", venda.Numero).
		Str("valor_final", venda.ValorFinal.StringFixed(2)).
		Msg("checkout: venda confirmada")

	return &dto.VendaResponse{
		ID:           venda.ID.String(),
		Numero:       venda.Numero,
		ValorFinal:   venda.ValorFinal,
		Troco:        troco,
		ConfirmadaEm: venda.ConfirmadaEm.Format(time.RFC3339),
		Recibo:       texto,
	}, nil
}

func (s *checkoutService) enfileirarRecibo(dados receipt.Dados, texto string, clienteEmail *string) {
	if s.recibos == nil {
		return
	}
	payload := worker.ImpressaoJobPayload{
		Dados:        dados,
		Texto:        texto,
		ClienteEmail: clienteEmail,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.recibos.EnqueueImpressao(ctx, payload); err != nil {
		log.Error().Err(err).Str("venda", dados.Venda.Numero).
			Msg("checkout: falha ao enfileirar impressão do cupom")
	}
}

// ─── Response assembly ───────────────────────────────────────────────────────

func montarSessaoResponse(sessao *checkout.Sessao) *dto.SessaoResponse {
	itens := make([]dto.ItemCarrinhoResponse, 0, len(sessao.Carrinho.Itens))
	for _, item := range sessao.Carrinho.Itens {
		itens = append(itens, dto.ItemCarrinhoResponse{
			LinhaID:       item.LinhaID.String(),
			ProdutoID:     item.ProdutoID.String(),
			SKU:           item.SKU,
			Nome:          item.Nome,
			PrecoUnitario: item.PrecoUnitario,
			Quantidade:    item.Quantidade,
			Desconto:      item.Desconto,
			TotalLinha:    item.TotalLinha(),
			Disponivel:    item.Disponivel,
		})
	}

	resp := &dto.SessaoResponse{
		ID:       sessao.ID.String(),
		Itens:    itens,
		Subtotal: sessao.Carrinho.Subtotal(),
		Desconto: sessao.Carrinho.Desconto,
		Total:    sessao.Carrinho.Total(),
		CriadaEm: sessao.CriadaEm.Format(time.RFC3339),
	}

	if sessao.Cliente != nil {
		cliente := &dto.ClienteResponse{
			Nome:      sessao.Cliente.Nome,
			Documento: sessao.Cliente.Documento,
		}
		if sessao.Cliente.ID != nil {
			cliente.ID = sessao.Cliente.ID.String()
		}
		resp.Cliente = cliente
	}

	resp.Pagamento = montarPagamentoState(sessao)
	return resp
}

func montarPagamentoState(sessao *checkout.Sessao) *dto.PagamentoStateResponse {
	if sessao.Fluxo == nil {
		return nil
	}
	total := sessao.Carrinho.Total()
	estado := &dto.PagamentoStateResponse{
		Metodo: string(sessao.Fluxo.Metodo()),
		Pronto: sessao.Fluxo.Pronto(total),
	}

	switch fluxo := sessao.Fluxo.(type) {
	case *checkout.FluxoDinheiro:
		recebido := fluxo.Recebido
		troco := fluxo.Troco(total)
		estado.Recebido = &recebido
		estado.Troco = &troco
	case *checkout.FluxoCredito:
		parcelas := fluxo.Parcelas
		valorParcela := fluxo.ValorParcela(total)
		estado.Parcelas = &parcelas
		estado.ValorParcela = &valorParcela
	case *checkout.FluxoDebito:
		estado.ReferenciaTransacao = fluxo.ReferenciaTransacao
	case *checkout.FluxoPix:
		estado.CobrancaID = fluxo.CobrancaID
		estado.QRCode = fluxo.QRCode
		estado.ReferenciaTransacao = fluxo.ReferenciaTransacao
		estado.Confirmado = fluxo.Confirmado
	}
	return estado
}
