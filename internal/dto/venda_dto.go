package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,min=1"`
}

// PagamentoRequest is the tagged payment detail. Which amount fields are
// required depends on Forma:
//
//	dinheiro — ValorRecebido (≥ total)
//	pix      — nothing extra
//	combinar — Dinheiro + Pix, summing exactly to the total
type PagamentoRequest struct {
	Forma         string           `json:"forma"          validate:"required,oneof=dinheiro pix combinar"`
	ValorRecebido *decimal.Decimal `json:"valor_recebido" validate:"omitempty"`
	Dinheiro      *decimal.Decimal `json:"dinheiro"       validate:"omitempty"`
	Pix           *decimal.Decimal `json:"pix"            validate:"omitempty"`
}

type RegistrarVendaRequest struct {
	Itens     []ItemVendaRequest `json:"itens"     validate:"required,dive"`
	Desconto  decimal.Decimal    `json:"desconto"`
	Pagamento PagamentoRequest   `json:"pagamento" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	Codigo        string          `json:"codigo"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID             string              `json:"id"`
	CaixaID        string              `json:"caixa_id"`
	Itens          []ItemVendaResponse `json:"itens"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Desconto       decimal.Decimal     `json:"desconto"`
	Total          decimal.Decimal     `json:"total"`
	FormaPagamento string              `json:"forma_pagamento"`
	ValorRecebido  *decimal.Decimal    `json:"valor_recebido,omitempty"`
	Troco          decimal.Decimal     `json:"troco"`
	ParteDinheiro  *decimal.Decimal    `json:"parte_dinheiro,omitempty"`
	PartePix       *decimal.Decimal    `json:"parte_pix,omitempty"`
	CreatedAt      string              `json:"created_at"`
}
