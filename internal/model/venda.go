package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formas de pagamento.
const (
	PagamentoDinheiro = "dinheiro"
	PagamentoPix      = "pix"
	PagamentoCombinar = "combinar"
)

// Venda is an immutable sale record. It is created exactly once at checkout
// confirmation and never mutated; it is only ever deleted transitively when
// its caixa is excluded.
//
// ValorRecebido/Troco are meaningful for dinheiro; ParteDinheiro/PartePix are
// set only for combinar and must sum exactly to Total.
type Venda struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaixaID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"caixa_id"`
	Subtotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Desconto       decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"desconto"`
	Total          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total"`
	FormaPagamento string           `gorm:"type:varchar(20);not null" json:"forma_pagamento"`
	ValorRecebido  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"valor_recebido"`
	Troco          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"troco"`
	ParteDinheiro  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"parte_dinheiro"`
	PartePix       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"parte_pix"`
	CreatedAt      time.Time        `json:"created_at"`

	Itens []VendaItem `gorm:"foreignKey:VendaID" json:"itens"`
}

// VendaItem is a value snapshot of a cart line. Nome, Codigo and
// PrecoUnitario are copied from the product at confirmation time, so later
// catalog edits or deletions never alter historical sales.
type VendaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	VendaID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"venda_id"`
	ProdutoID      uuid.UUID       `gorm:"type:uuid;not null" json:"produto_id"`
	Nome           string          `gorm:"not null" json:"nome"`
	Codigo         string          `gorm:"not null" json:"codigo"`
	Quantidade     int             `gorm:"not null" json:"quantidade"`
	PrecoUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"preco_unitario"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// TableName overrides GORM's default pluralization (venda_items → venda_itens).
func (VendaItem) TableName() string { return "venda_itens" }
