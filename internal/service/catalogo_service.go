package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/dto"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/model"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/repository"
)

const catalogoCacheKey = "catalogo:produtos"

// ErrProdutoNaoEncontrado: the product id is not in the current snapshot.
var ErrProdutoNaoEncontrado = errors.New("produto não encontrado no catálogo")

// CatalogoService keeps the local snapshot of sellable products. The snapshot
// is read-only between refreshes: quantities are never decremented
// optimistically in response to cart activity — the remote commit is the only
// thing that moves stock, and Atualizar is called after every committed sale
// so the next fetch reflects the server-side decrement.
type CatalogoService interface {
	Listar(ctx context.Context, filtro dto.ProdutoFilter) ([]model.Produto, time.Time, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	Atualizar(ctx context.Context) error
}

type catalogoService struct {
	repo          repository.CatalogoRepository
	rdb           *redis.Client // nil in unit tests — cache becomes a no-op
	organizacaoID uuid.UUID
	ttl           time.Duration

	mu           sync.RWMutex
	snapshot     []model.Produto
	atualizadoEm time.Time
}

func NewCatalogoService(repo repository.CatalogoRepository, rdb *redis.Client, organizacaoID uuid.UUID, ttl time.Duration) CatalogoService {
	return &catalogoService{repo: repo, rdb: rdb, organizacaoID: organizacaoID, ttl: ttl}
}

// Listar returns the snapshot filtered by free text (nome/SKU) and category,
// fetching it first when the service has never loaded one.
func (s *catalogoService) Listar(ctx context.Context, filtro dto.ProdutoFilter) ([]model.Produto, time.Time, error) {
	if err := s.garantirSnapshot(ctx); err != nil {
		return nil, time.Time{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	busca := strings.ToLower(strings.TrimSpace(filtro.Busca))
	resultado := make([]model.Produto, 0, len(s.snapshot))
	for _, p := range s.snapshot {
		if filtro.Categoria != "" && p.Categoria != filtro.Categoria {
			continue
		}
		if busca != "" &&
			!strings.Contains(strings.ToLower(p.Nome), busca) &&
			!strings.Contains(strings.ToLower(p.SKU), busca) {
			continue
		}
		resultado = append(resultado, p)
	}
	return resultado, s.atualizadoEm, nil
}

// BuscarPorID resolves one product from the current snapshot. This is the
// stock reference the cart validates against — a stale read by design, with
// process_sale as the final arbiter.
func (s *catalogoService) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	if err := s.garantirSnapshot(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for idx := range s.snapshot {
		if s.snapshot[idx].ID == id {
			p := s.snapshot[idx]
			return &p, nil
		}
	}
	return nil, ErrProdutoNaoEncontrado
}

// Atualizar re-fetches the catalog from the remote function and replaces both
// the in-memory snapshot and the Redis copy.
func (s *catalogoService) Atualizar(ctx context.Context) error {
	produtos, err := s.repo.ListarProdutosParaVenda(ctx, s.organizacaoID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = produtos
	s.atualizadoEm = time.Now()
	s.mu.Unlock()

	s.gravarCache(ctx, produtos)
	return nil
}

// garantirSnapshot loads a snapshot when none exists yet: Redis copy first
// (set by a previous process lifetime), remote fetch otherwise.
func (s *catalogoService) garantirSnapshot(ctx context.Context) error {
	s.mu.RLock()
	carregado := s.snapshot != nil
	s.mu.RUnlock()
	if carregado {
		return nil
	}

	if produtos, ok := s.lerCache(ctx); ok {
		s.mu.Lock()
		if s.snapshot == nil {
			s.snapshot = produtos
			s.atualizadoEm = time.Now()
		}
		s.mu.Unlock()
		return nil
	}

	return s.Atualizar(ctx)
}

func (s *catalogoService) lerCache(ctx context.Context) ([]model.Produto, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, catalogoCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var produtos []model.Produto
	if err := json.Unmarshal(raw, &produtos); err != nil {
		log.Warn().Err(err).Msg("catalogo: cache corrompido — ignorando")
		return nil, false
	}
	return produtos, true
}

func (s *catalogoService) gravarCache(ctx context.Context, produtos []model.Produto) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(produtos)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, catalogoCacheKey, raw, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("catalogo: falha ao gravar cache")
	}
}
