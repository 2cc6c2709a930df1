package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a catalog entry. Codigo is stored normalized (uppercase, trimmed)
// and is unique across the whole catalog.
type Produto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Codigo    string          `gorm:"uniqueIndex;not null" json:"codigo"`
	Nome      string          `gorm:"index;not null" json:"nome"`
	Categoria string          `json:"categoria"`
	Preco     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"preco"`
	Estoque   int             `gorm:"not null;default:0" json:"estoque"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NormalizeCodigo applies the canonical product-code normalization used by
// create, update and lookup alike.
func NormalizeCodigo(codigo string) string {
	return strings.ToUpper(strings.TrimSpace(codigo))
}
