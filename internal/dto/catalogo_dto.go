package dto

import "github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"

// ProdutoFilter is bound from the query string of GET /v1/produtos.
// Filtering happens over the in-memory snapshot, not against the remote DB.
type ProdutoFilter struct {
	Busca     string `form:"busca"`
	Categoria string `form:"categoria"`
}

type CatalogoResponse struct {
	Data         []model.Produto `json:"data"`
	Total        int             `json:"total"`
	AtualizadoEm string          `json:"atualizado_em"`
}
