package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
)

// CatalogoRepository fetches the sellable-product snapshot from the remote
// database. Read-only, no side effects — all stock arbitration stays in
// process_sale.
type CatalogoRepository interface {
	ListarProdutosParaVenda(ctx context.Context, organizacaoID uuid.UUID) ([]model.Produto, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) ListarProdutosParaVenda(ctx context.Context, organizacaoID uuid.UUID) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM get_products_for_sale(?::uuid)`, organizacaoID).
		Scan(&produtos).Error
	if err != nil {
		return nil, &FalhaTransporteError{Causa: fmt.Errorf("get_products_for_sale: %w", err)}
	}
	return produtos, nil
}
