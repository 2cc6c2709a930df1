package repository

import (
	"context"

	"github.com/luccTech/caixa-formatura/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	ListByCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.Venda, error)
	DeleteByCaixaTx(tx *gorm.DB, caixaID uuid.UUID) error
	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Itens").First(&v, id).Error
	return &v, err
}

func (r *vendaRepo) ListByCaixa(ctx context.Context, caixaID uuid.UUID) ([]model.Venda, error) {
	var vendas []model.Venda
	err := r.db.WithContext(ctx).
		Preload("Itens").
		Where("caixa_id = ?", caixaID).
		Order("created_at ASC").
		Find(&vendas).Error
	return vendas, err
}

// DeleteByCaixaTx cascades the removal of a caixa to every venda that
// references it, itens first.
func (r *vendaRepo) DeleteByCaixaTx(tx *gorm.DB, caixaID uuid.UUID) error {
	if err := tx.Where("venda_id IN (?)",
		tx.Model(&model.Venda{}).Select("id").Where("caixa_id = ?", caixaID),
	).Delete(&model.VendaItem{}).Error; err != nil {
		return err
	}
	return tx.Where("caixa_id = ?", caixaID).Delete(&model.Venda{}).Error
}

func (r *vendaRepo) DB() *gorm.DB { return r.db }
