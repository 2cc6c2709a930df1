package service_test

// In-memory repository stubs. The Tx-variants accept the nil *gorm.DB the
// services pass when DB() returns nil, so the whole service layer runs
// without a database.

import (
	"context"
	"sort"

	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ProdutoRepository ─────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProdutoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	all, _ := r.ListAll(context.Background())
	var out []model.Produto
	for _, p := range all {
		if filter.Codigo != "" && p.Codigo != model.NormalizeCodigo(filter.Codigo) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) ListAll(_ context.Context) ([]model.Produto, error) {
	out := make([]model.Produto, 0, len(r.produtos))
	for _, p := range r.produtos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.produtos, id)
	return nil
}

func (r *stubProdutoRepo) BaixarEstoqueTx(_ *gorm.DB, id uuid.UUID, qtd int) error {
	p, ok := r.produtos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estoque -= qtd
	if p.Estoque < 0 {
		p.Estoque = 0
	}
	return nil
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// ── CaixaRepository ───────────────────────────────────────────────────────────

type stubCaixaRepo struct {
	caixas map[uuid.UUID]*model.Caixa
	itens  []*model.CaixaItem
	vendas *stubVendaRepo // optional: FindByID attaches this repo's vendas
}

func newStubCaixaRepo() *stubCaixaRepo {
	return &stubCaixaRepo{caixas: make(map[uuid.UUID]*model.Caixa)}
}

func (r *stubCaixaRepo) Create(_ context.Context, c *model.Caixa) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.caixas[c.ID] = c
	return nil
}

func (r *stubCaixaRepo) CreateTx(_ *gorm.DB, c *model.Caixa) error {
	return r.Create(context.Background(), c)
}

func (r *stubCaixaRepo) FindAberto(_ context.Context) (*model.Caixa, error) {
	for _, c := range r.caixas {
		if c.Estado == model.CaixaAberto {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caixa, error) {
	c, ok := r.caixas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c.Itens = c.Itens[:0]
	for _, item := range r.itens {
		if item.CaixaID == id {
			c.Itens = append(c.Itens, *item)
		}
	}
	if r.vendas != nil {
		c.Vendas, _ = r.vendas.ListByCaixa(context.Background(), id)
	}
	return c, nil
}

func (r *stubCaixaRepo) Update(_ context.Context, c *model.Caixa) error {
	r.caixas[c.ID] = c
	return nil
}

func (r *stubCaixaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.caixas, id)
	kept := r.itens[:0]
	for _, item := range r.itens {
		if item.CaixaID != id {
			kept = append(kept, item)
		}
	}
	r.itens = kept
	return nil
}

func (r *stubCaixaRepo) List(_ context.Context, page, limit int) ([]model.Caixa, int64, error) {
	all, _ := r.ListAll(context.Background())
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubCaixaRepo) ListAll(_ context.Context) ([]model.Caixa, error) {
	out := make([]model.Caixa, 0, len(r.caixas))
	for id := range r.caixas {
		c, _ := r.FindByID(context.Background(), id)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

func (r *stubCaixaRepo) IncrementTotalTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.caixas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalVendas = c.TotalVendas.Add(delta)
	return nil
}

func (r *stubCaixaRepo) CreateItensTx(_ *gorm.DB, itens []model.CaixaItem) error {
	for i := range itens {
		item := itens[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.itens = append(r.itens, &item)
	}
	return nil
}

func (r *stubCaixaRepo) FindItem(_ context.Context, caixaID, produtoID uuid.UUID) (*model.CaixaItem, error) {
	for _, item := range r.itens {
		if item.CaixaID == caixaID && item.ProdutoID == produtoID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCaixaRepo) SaveItem(_ context.Context, item *model.CaixaItem) error {
	for i, existing := range r.itens {
		if existing.CaixaID == item.CaixaID && existing.ProdutoID == item.ProdutoID {
			r.itens[i] = item
			return nil
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.itens = append(r.itens, item)
	return nil
}

func (r *stubCaixaRepo) DB() *gorm.DB { return nil }

var _ repository.CaixaRepository = (*stubCaixaRepo)(nil)

// ── VendaRepository ───────────────────────────────────────────────────────────

type stubVendaRepo struct {
	vendas map[uuid.UUID]*model.Venda
	order  []uuid.UUID
}

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *stubVendaRepo) CreateTx(_ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	r.vendas[v.ID] = v
	r.order = append(r.order, v.ID)
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVendaRepo) ListByCaixa(_ context.Context, caixaID uuid.UUID) ([]model.Venda, error) {
	var out []model.Venda
	for _, id := range r.order {
		if v, ok := r.vendas[id]; ok && v.CaixaID == caixaID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVendaRepo) DeleteByCaixaTx(_ *gorm.DB, caixaID uuid.UUID) error {
	for id, v := range r.vendas {
		if v.CaixaID == caixaID {
			delete(r.vendas, id)
		}
	}
	return nil
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

var _ repository.VendaRepository = (*stubVendaRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduto(repo *stubProdutoRepo, nome, codigo string, preco float64, estoque int) *model.Produto {
	p := &model.Produto{
		ID:      uuid.New(),
		Codigo:  model.NormalizeCodigo(codigo),
		Nome:    nome,
		Preco:   decimal.NewFromFloat(preco),
		Estoque: estoque,
	}
	repo.produtos[p.ID] = p
	return p
}
