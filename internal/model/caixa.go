package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caixa estados. A caixa only ever moves aberto → fechado; fechado is terminal.
const (
	CaixaAberto  = "aberto"
	CaixaFechado = "fechado"
)

// Caixa represents one register session from opening to closing.
// TotalVendas is maintained incrementally inside the sale-confirm transaction
// and must always equal the sum of Total over the caixa's vendas.
type Caixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nome         string          `gorm:"not null" json:"nome"`
	TrocoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"troco_inicial"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'aberto';index" json:"estado"`
	TotalVendas  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_vendas"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     *time.Time      `json:"closed_at"`

	Itens  []CaixaItem `gorm:"foreignKey:CaixaID" json:"itens"`
	Vendas []Venda     `gorm:"foreignKey:CaixaID" json:"vendas"`
}

// CaixaItem is a staging entry local to one caixa: a product made available
// to the session with a quantity counter. One row per product known at open
// time, quantidade 0 until staged.
type CaixaItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CaixaID    uuid.UUID `gorm:"type:uuid;not null;index" json:"caixa_id"`
	ProdutoID  uuid.UUID `gorm:"type:uuid;not null" json:"produto_id"`
	Nome       string    `gorm:"not null" json:"nome"`
	Quantidade int       `gorm:"not null;default:0" json:"quantidade"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides GORM's default pluralization (caixa_items → caixa_itens).
func (CaixaItem) TableName() string { return "caixa_itens" }
