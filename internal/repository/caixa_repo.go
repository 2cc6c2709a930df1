package repository

import (
	"context"

	"github.com/luccTech/caixa-formatura/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaRepository interface {
	Create(ctx context.Context, c *model.Caixa) error
	// CreateTx inserts the caixa inside an open transaction; Abrir uses it so
	// the caixa and its staging snapshot commit together.
	CreateTx(tx *gorm.DB, c *model.Caixa) error
	// FindAberto resolves the single open caixa as a derived query over the
	// estado column — there is no cached "current caixa" anywhere.
	FindAberto(ctx context.Context) (*model.Caixa, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	Update(ctx context.Context, c *model.Caixa) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, page, limit int) ([]model.Caixa, int64, error)
	ListAll(ctx context.Context) ([]model.Caixa, error)

	// IncrementTotalTx bumps TotalVendas inside the sale-confirm transaction.
	IncrementTotalTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	// Staging itens
	CreateItensTx(tx *gorm.DB, itens []model.CaixaItem) error
	FindItem(ctx context.Context, caixaID, produtoID uuid.UUID) (*model.CaixaItem, error)
	SaveItem(ctx context.Context, item *model.CaixaItem) error

	DB() *gorm.DB
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) Create(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) CreateTx(tx *gorm.DB, c *model.Caixa) error {
	return tx.Create(c).Error
}

func (r *caixaRepo) FindAberto(ctx context.Context) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).Where("estado = ?", model.CaixaAberto).First(&c).Error
	return &c, err
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	err := r.db.WithContext(ctx).
		Preload("Itens").
		Preload("Vendas.Itens").
		First(&c, id).Error
	return &c, err
}

func (r *caixaRepo) Update(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteTx removes the caixa and its staging itens. Vendas are deleted by the
// caller in the same transaction (see VendaRepository.DeleteByCaixaTx).
func (r *caixaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("caixa_id = ?", id).Delete(&model.CaixaItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Caixa{}, id).Error
}

func (r *caixaRepo) List(ctx context.Context, page, limit int) ([]model.Caixa, int64, error) {
	var caixas []model.Caixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Caixa{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Vendas").
		Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&caixas).Error
	return caixas, total, err
}

func (r *caixaRepo) ListAll(ctx context.Context) ([]model.Caixa, error) {
	var caixas []model.Caixa
	err := r.db.WithContext(ctx).
		Preload("Vendas.Itens").
		Order("opened_at DESC").
		Find(&caixas).Error
	return caixas, err
}

func (r *caixaRepo) IncrementTotalTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Caixa{}).Where("id = ?", id).
		Update("total_vendas", gorm.Expr("total_vendas + ?", delta)).Error
}

func (r *caixaRepo) CreateItensTx(tx *gorm.DB, itens []model.CaixaItem) error {
	if len(itens) == 0 {
		return nil
	}
	return tx.Create(&itens).Error
}

func (r *caixaRepo) FindItem(ctx context.Context, caixaID, produtoID uuid.UUID) (*model.CaixaItem, error) {
	var item model.CaixaItem
	err := r.db.WithContext(ctx).
		Where("caixa_id = ? AND produto_id = ?", caixaID, produtoID).
		First(&item).Error
	return &item, err
}

func (r *caixaRepo) SaveItem(ctx context.Context, item *model.CaixaItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *caixaRepo) DB() *gorm.DB { return r.db }
