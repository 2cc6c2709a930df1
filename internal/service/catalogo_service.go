package service

import (
	"context"
	"errors"
	"time"

	"github.com/luccTech/caixa-formatura/internal/apierror"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoService owns product records.
type CatalogoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	// Remover fails with NotFound when the id is absent. Historical venda and
	// caixa snapshots hold copies, so removal never alters them.
	Remover(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	repo repository.ProdutoRepository
}

func NewCatalogoService(repo repository.ProdutoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

// storageErr translates repository failures into the core taxonomy.
func storageErr(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.New(apierror.KindNotFound, notFoundMsg)
	}
	return apierror.Storage(err)
}

func (s *catalogoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if req.Nome == "" {
		return nil, apierror.New(apierror.KindValidation, "nome do produto é obrigatório")
	}
	codigo := model.NormalizeCodigo(req.Codigo)
	if codigo == "" {
		return nil, apierror.New(apierror.KindValidation, "código do produto é obrigatório")
	}
	if !req.Preco.IsPositive() {
		return nil, apierror.New(apierror.KindValidation, "preço deve ser maior que zero")
	}
	if req.Estoque < 0 {
		return nil, apierror.New(apierror.KindValidation, "estoque não pode ser negativo")
	}

	if existing, err := s.repo.FindByCodigo(ctx, codigo); err == nil && existing != nil {
		return nil, apierror.Newf(apierror.KindDuplicateCode, "código %s já está em uso", codigo)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Storage(err)
	}

	p := &model.Produto{
		Codigo:    codigo,
		Nome:      req.Nome,
		Categoria: req.Categoria,
		Preco:     req.Preco,
		Estoque:   req.Estoque,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apierror.Storage(err)
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "produto não encontrado")
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) BuscarPorCodigo(ctx context.Context, codigo string) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, model.NormalizeCodigo(codigo))
	if err != nil {
		return nil, storageErr(err, "produto não encontrado")
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	data := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		data = append(data, *produtoToResponse(&produtos[i]))
	}
	return &dto.ProdutoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "produto não encontrado")
	}

	if req.Codigo != nil {
		codigo := model.NormalizeCodigo(*req.Codigo)
		if codigo == "" {
			return nil, apierror.New(apierror.KindValidation, "código do produto é obrigatório")
		}
		if other, err := s.repo.FindByCodigo(ctx, codigo); err == nil && other.ID != p.ID {
			return nil, apierror.Newf(apierror.KindDuplicateCode, "código %s já está em uso", codigo)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Storage(err)
		}
		p.Codigo = codigo
	}
	if req.Nome != nil {
		if *req.Nome == "" {
			return nil, apierror.New(apierror.KindValidation, "nome do produto é obrigatório")
		}
		p.Nome = *req.Nome
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Preco != nil {
		if !req.Preco.IsPositive() {
			return nil, apierror.New(apierror.KindValidation, "preço deve ser maior que zero")
		}
		p.Preco = *req.Preco
	}
	if req.Estoque != nil {
		if *req.Estoque < 0 {
			return nil, apierror.New(apierror.KindValidation, "estoque não pode ser negativo")
		}
		p.Estoque = *req.Estoque
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apierror.Storage(err)
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) Remover(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storageErr(err, "produto não encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Storage(err)
	}
	return nil
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	return &dto.ProdutoResponse{
		ID:        p.ID.String(),
		Codigo:    p.Codigo,
		Nome:      p.Nome,
		Categoria: p.Categoria,
		Preco:     p.Preco,
		Estoque:   p.Estoque,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
