package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/apierror"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/dto"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/service"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func sessaoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sessão inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// AbrirSessao godoc
// @Summary      Abrir sessão de checkout
// @Description  Cria uma sessão com carrinho vazio, sem cliente e sem pagamento.
// @Tags         checkout
// @Produce      json
// @Success      201 {object} dto.SessaoResponse
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) AbrirSessao(c *gin.Context) {
	c.JSON(http.StatusCreated, h.svc.AbrirSessao())
}

// ObterSessao godoc
// @Summary      Consultar sessão
// @Description  Estado completo da sessão: itens, totais, cliente e pagamento.
// @Tags         checkout
// @Produce      json
// @Param        id path string true "UUID da sessão"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id} [get]
func (h *CheckoutHandler) ObterSessao(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObterSessao(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EncerrarSessao godoc
// @Summary      Encerrar sessão
// @Description  Descarta a sessão e tudo que ela acumulou (nada foi persistido).
// @Tags         checkout
// @Param        id path string true "UUID da sessão"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id} [delete]
func (h *CheckoutHandler) EncerrarSessao(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	if err := h.svc.EncerrarSessao(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdicionarItem godoc
// @Summary      Adicionar item ao carrinho
// @Description  Incrementa a linha existente do produto ou cria uma nova com o preço atual do catálogo. Rejeita quando excede o estoque disponível.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "UUID da sessão"
// @Param        body body dto.AdicionarItemRequest true "Produto"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/checkout/{id}/itens [post]
func (h *CheckoutHandler) AdicionarItem(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	var req dto.AdicionarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AtualizarItem godoc
// @Summary      Atualizar quantidade/desconto de uma linha
// @Description  Quantidade ≤ 0 remove a linha. Quantidade acima do teto de estoque é rejeitada sem alterar o carrinho.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id       path string                true "UUID da sessão"
// @Param        linha_id path string                true "UUID da linha"
// @Param        body     body dto.QuantidadeRequest true "Quantidade e desconto da linha"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/checkout/{id}/itens/{linha_id} [patch]
func (h *CheckoutHandler) AtualizarItem(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	linhaID, err := uuid.Parse(c.Param("linha_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linha inválido"))
		return
	}
	var req dto.QuantidadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarItem(c.Request.Context(), id, linhaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverItem godoc
// @Summary      Remover linha do carrinho
// @Tags         checkout
// @Produce      json
// @Param        id       path string true "UUID da sessão"
// @Param        linha_id path string true "UUID da linha"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id}/itens/{linha_id} [delete]
func (h *CheckoutHandler) RemoverItem(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	linhaID, err := uuid.Parse(c.Param("linha_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linha inválido"))
		return
	}
	resp, err := h.svc.RemoverItem(id, linhaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirDesconto godoc
// @Summary      Definir desconto geral
// @Description  Aceita texto livre; entrada não numérica vale zero. Desconto maior que o subtotal é aceito (total pode ficar negativo).
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id   path string              true "UUID da sessão"
// @Param        body body dto.DescontoRequest true "Valor do desconto"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id}/desconto [put]
func (h *CheckoutHandler) DefinirDesconto(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	var req dto.DescontoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirDesconto(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirCliente godoc
// @Summary      Associar cliente à venda
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id   path string             true "UUID da sessão"
// @Param        body body dto.ClienteRequest true "Cliente"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id}/cliente [put]
func (h *CheckoutHandler) DefinirCliente(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirCliente(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverCliente godoc
// @Summary      Desassociar cliente
// @Description  A venda volta ao consumidor não identificado.
// @Tags         checkout
// @Produce      json
// @Param        id path string true "UUID da sessão"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id}/cliente [delete]
func (h *CheckoutHandler) RemoverCliente(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RemoverCliente(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelecionarMetodo godoc
// @Summary      Selecionar método de pagamento
// @Description  Métodos são mutuamente exclusivos: selecionar um descarta o estado acumulado pelo anterior. dinheiro aceita "recebido"; crédito aceita "parcelas" (1–12).
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id   path string            true "UUID da sessão"
// @Param        body body dto.MetodoRequest true "Método e parâmetros"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/checkout/{id}/pagamento [put]
func (h *CheckoutHandler) SelecionarMetodo(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	var req dto.MetodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SelecionarMetodo(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelarPagamento godoc
// @Summary      Cancelar sub-fluxo de pagamento
// @Description  Volta à seleção de método; carrinho e desconto ficam intactos.
// @Tags         checkout
// @Produce      json
// @Param        id path string true "UUID da sessão"
// @Success      200 {object} dto.SessaoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checkout/{id}/pagamento [delete]
func (h *CheckoutHandler) CancelarPagamento(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.CancelarPagamento(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PagamentoTerminal godoc
// @Summary      Enviar total à maquininha (débito)
// @Description  Bloqueia até o dispositivo aprovar, cancelar ou falhar — limitado pelo timeout de pagamento.
// @Tags         checkout
// @Produce      json
// @Param        id path string true "UUID da sessão"
// @Success      200 {object} dto.SessaoResponse
// @Failure      409 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/checkout/{id}/pagamento/terminal [post]
func (h *CheckoutHandler) PagamentoTerminal(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.PagamentoTerminal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CriarCobrancaPix godoc
// @Summary      Criar cobrança PIX
// @Description  Gera o QR dinâmico no PSP para o total da venda.
// @Tags         checkout
// @Produce      json
// @Param        id path string true "UUID da sessão"
// @Success      201 {object} dto.PixCobrancaResponse
// @Failure      422 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/checkout/{id}/pagamento/pix [post]
func (h *CheckoutHandler) CriarCobrancaPix(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.CriarCobrancaPix(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ConfirmarPix godoc
// @Summary      Consultar/confirmar cobrança PIX
// @Description  Consulta o PSP uma vez. Paga: executa o mesmo commit de /confirmar e retorna a venda. Pendente: 202. Cancelada/expirada: 409 e a sessão volta à seleção de método.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id   path string                    true "UUID da sessão"
// @Param        body body dto.ConfirmarVendaRequest false "Observações e e-mail do cupom"
// @Success      200 {object} dto.VendaResponse
// @Success      202 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/checkout/{id}/pagamento/pix/confirmar [post]
func (h *CheckoutHandler) ConfirmarPix(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	var req dto.ConfirmarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarPix(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrPixPendente) {
			c.JSON(http.StatusAccepted, apierror.New(err.Error()))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmarVenda godoc
// @Summary      Confirmar venda
// @Description  Único caminho de escrita: chama process_sale, que persiste a venda e baixa o estoque atomicamente. Sucesso limpa a sessão e enfileira a impressão do cupom; falha preserva tudo para nova tentativa.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id   path string                    true "UUID da sessão"
// @Param        body body dto.ConfirmarVendaRequest false "Observações e e-mail do cupom"
// @Success      201 {object} dto.VendaResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Failure      502 {object} apierror.APIError
// @Router       /v1/checkout/{id}/confirmar [post]
func (h *CheckoutHandler) ConfirmarVenda(c *gin.Context) {
	id, ok := sessaoID(c)
	if !ok {
		return
	}
	var req dto.ConfirmarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarVenda(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
