package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/apierror"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/dto"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/service"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar produtos vendáveis
// @Description  Snapshot local do catálogo remoto, com filtro por texto livre (nome/SKU) e categoria. As quantidades refletem a última atualização — a baixa definitiva acontece só no process_sale.
// @Tags         catalogo
// @Produce      json
// @Param        busca     query string false "Texto livre sobre nome e SKU"
// @Param        categoria query string false "Categoria exata"
// @Success      200 {object} dto.CatalogoResponse
// @Failure      502 {object} apierror.APIError
// @Router       /v1/produtos [get]
func (h *CatalogoHandler) Listar(c *gin.Context) {
	var filtro dto.ProdutoFilter
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("filtro inválido"))
		return
	}

	produtos, atualizadoEm, err := h.svc.Listar(c.Request.Context(), filtro)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("catálogo indisponível: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.CatalogoResponse{
		Data:         produtos,
		Total:        len(produtos),
		AtualizadoEm: atualizadoEm.Format(time.RFC3339),
	})
}

// Atualizar godoc
// @Summary      Forçar atualização do catálogo
// @Description  Rebusca o snapshot no banco remoto e substitui a cópia local e a do Redis.
// @Tags         catalogo
// @Produce      json
// @Success      204
// @Failure      502 {object} apierror.APIError
// @Router       /v1/produtos/atualizar [post]
func (h *CatalogoHandler) Atualizar(c *gin.Context) {
	if err := h.svc.Atualizar(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("falha ao atualizar o catálogo: "+err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
