package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/dto"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/repository"
)

// stubCatalogoRepo answers with a scripted product list and counts fetches.
type stubCatalogoRepo struct {
	produtos []model.Produto
	err      error
	chamadas int
}

func (r *stubCatalogoRepo) ListarProdutosParaVenda(_ context.Context, _ uuid.UUID) ([]model.Produto, error) {
	r.chamadas++
	if r.err != nil {
		return nil, r.err
	}
	return r.produtos, nil
}

var _ repository.CatalogoRepository = (*stubCatalogoRepo)(nil)

func produtosTeste() []model.Produto {
	return []model.Produto{
		{ID: uuid.New(), SKU: "PEL-001", Nome: "Película 3D iPhone 13", Categoria: "peliculas", PrecoVenda: decimal.RequireFromString("25.00"), QuantidadeDisponivel: 10},
		{ID: uuid.New(), SKU: "CAB-010", Nome: "Cabo USB-C 2m", Categoria: "cabos", PrecoVenda: decimal.RequireFromString("19.90"), QuantidadeDisponivel: 3},
		{ID: uuid.New(), SKU: "CAP-101", Nome: "Capinha Galaxy S23", Categoria: "capinhas", PrecoVenda: decimal.RequireFromString("30.00"), QuantidadeDisponivel: 0},
	}
}

func TestListarCarregaSnapshotUmaVez(t *testing.T) {
	repo := &stubCatalogoRepo{produtos: produtosTeste()}
	svc := NewCatalogoService(repo, nil, uuid.New(), time.Minute)

	produtos, _, err := svc.Listar(context.Background(), dto.ProdutoFilter{})
	require.NoError(t, err)
	assert.Len(t, produtos, 3)

	// segunda chamada serve do snapshot, sem nova ida ao remoto
	_, _, err = svc.Listar(context.Background(), dto.ProdutoFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.chamadas)
}

func TestListarFiltros(t *testing.T) {
	repo := &stubCatalogoRepo{produtos: produtosTeste()}
	svc := NewCatalogoService(repo, nil, uuid.New(), time.Minute)

	// texto livre casa nome e SKU, sem caixa
	produtos, _, err := svc.Listar(context.Background(), dto.ProdutoFilter{Busca: "usb-c"})
	require.NoError(t, err)
	require.Len(t, produtos, 1)
	assert.Equal(t, "CAB-010", produtos[0].SKU)

	produtos, _, err = svc.Listar(context.Background(), dto.ProdutoFilter{Busca: "cap-101"})
	require.NoError(t, err)
	require.Len(t, produtos, 1)

	produtos, _, err = svc.Listar(context.Background(), dto.ProdutoFilter{Categoria: "peliculas"})
	require.NoError(t, err)
	require.Len(t, produtos, 1)
	assert.Equal(t, "PEL-001", produtos[0].SKU)

	produtos, _, err = svc.Listar(context.Background(), dto.ProdutoFilter{Busca: "inexistente"})
	require.NoError(t, err)
	assert.Empty(t, produtos)
}

func TestBuscarPorID(t *testing.T) {
	lista := produtosTeste()
	repo := &stubCatalogoRepo{produtos: lista}
	svc := NewCatalogoService(repo, nil, uuid.New(), time.Minute)

	p, err := svc.BuscarPorID(context.Background(), lista[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "CAB-010", p.SKU)

	_, err = svc.BuscarPorID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProdutoNaoEncontrado)
}

func TestAtualizarSubstituiSnapshot(t *testing.T) {
	lista := produtosTeste()
	repo := &stubCatalogoRepo{produtos: lista}
	svc := NewCatalogoService(repo, nil, uuid.New(), time.Minute)

	_, _, err := svc.Listar(context.Background(), dto.ProdutoFilter{})
	require.NoError(t, err)

	// o remoto baixou o estoque após uma venda
	repo.produtos = []model.Produto{{ID: lista[0].ID, SKU: lista[0].SKU, Nome: lista[0].Nome, QuantidadeDisponivel: 7}}
	require.NoError(t, svc.Atualizar(context.Background()))

	p, err := svc.BuscarPorID(context.Background(), lista[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.QuantidadeDisponivel)
	assert.Equal(t, 2, repo.chamadas)
}

func TestListarPropagaFalhaRemota(t *testing.T) {
	repo := &stubCatalogoRepo{err: &repository.FalhaTransporteError{Causa: errors.New("conexão recusada")}}
	svc := NewCatalogoService(repo, nil, uuid.New(), time.Minute)

	_, _, err := svc.Listar(context.Background(), dto.ProdutoFilter{})
	var transporte *repository.FalhaTransporteError
	assert.ErrorAs(t, err, &transporte)
}
