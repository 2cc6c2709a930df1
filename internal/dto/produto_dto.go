package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome      string          `json:"nome"      validate:"required,min=1"`
	Codigo    string          `json:"codigo"    validate:"required,min=1"`
	Categoria string          `json:"categoria"`
	Preco     decimal.Decimal `json:"preco"     validate:"required,gt=0"`
	Estoque   int             `json:"estoque"   validate:"min=0"`
}

// AtualizarProdutoRequest merges non-nil fields into an existing product.
type AtualizarProdutoRequest struct {
	Nome      *string          `json:"nome"      validate:"omitempty,min=1"`
	Codigo    *string          `json:"codigo"    validate:"omitempty,min=1"`
	Categoria *string          `json:"categoria"`
	Preco     *decimal.Decimal `json:"preco"     validate:"omitempty,gt=0"`
	Estoque   *int             `json:"estoque"   validate:"omitempty,min=0"`
}

// ProdutoFilter is bound from the query string of GET /v1/produtos.
type ProdutoFilter struct {
	Nome   string `form:"nome"`
	Codigo string `form:"codigo"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID        string          `json:"id"`
	Codigo    string          `json:"codigo"`
	Nome      string          `json:"nome"`
	Categoria string          `json:"categoria"`
	Preco     decimal.Decimal `json:"preco"`
	Estoque   int             `json:"estoque"`
	CreatedAt string          `json:"created_at"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ConsultaPrecoResponse is the payload of the cached price lookup endpoint.
type ConsultaPrecoResponse struct {
	Nome    string          `json:"nome"`
	Codigo  string          `json:"codigo"`
	Preco   decimal.Decimal `json:"preco"`
	Estoque int             `json:"estoque"`
}
