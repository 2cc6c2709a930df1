package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	Nome         string          `json:"nome"          validate:"required,min=1"`
	TrocoInicial decimal.Decimal `json:"troco_inicial" validate:"min=0"`
}

type ItemCaixaRequest struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,min=1"`
}

type AjustarQuantidadeRequest struct {
	// Quantidade ≤ 0 resets the staged quantity to zero.
	Quantidade int `json:"quantidade"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCaixaResponse struct {
	ProdutoID  string `json:"produto_id"`
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
}

type CaixaResponse struct {
	ID           string              `json:"id"`
	Nome         string              `json:"nome"`
	TrocoInicial decimal.Decimal     `json:"troco_inicial"`
	Estado       string              `json:"estado"`
	TotalVendas  decimal.Decimal     `json:"total_vendas"`
	QtdVendas    int                 `json:"qtd_vendas"`
	Itens        []ItemCaixaResponse `json:"itens"`
	OpenedAt     string              `json:"opened_at"`
	ClosedAt     *string             `json:"closed_at"`
}

type CaixaListResponse struct {
	Data  []CaixaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
