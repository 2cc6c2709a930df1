package service

import (
	"context"
	"errors"
	"time"

	"github.com/luccTech/caixa-formatura/internal/apierror"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/repository"
	"github.com/luccTech/caixa-formatura/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CaixaService owns the lifecycle of the register session: aberto → fechado,
// the running total, the staging itens and the guarded deletion.
type CaixaService interface {
	Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error)
	// Atual resolves the open caixa, or SemCaixaAberto when nothing is open.
	Atual(ctx context.Context) (*dto.CaixaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error)
	Fechar(ctx context.Context) (*dto.CaixaResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	Historico(ctx context.Context, page, limit int) (*dto.CaixaListResponse, error)

	// Staging workflow
	AdicionarItem(ctx context.Context, req dto.ItemCaixaRequest) error
	RemoverItem(ctx context.Context, produtoID uuid.UUID) error
	AjustarQuantidade(ctx context.Context, produtoID uuid.UUID, quantidade int) error

	// FindCaixaAberto resolves the open caixa as a model, or SemCaixaAberto.
	// Called by VendaService before confirming a sale.
	FindCaixaAberto(ctx context.Context) (*model.Caixa, error)
}

type caixaService struct {
	repo        repository.CaixaRepository
	vendaRepo   repository.VendaRepository
	produtoRepo repository.ProdutoRepository
	dispatcher  *worker.Dispatcher
}

func NewCaixaService(
	repo repository.CaixaRepository,
	vendaRepo repository.VendaRepository,
	produtoRepo repository.ProdutoRepository,
	dispatcher *worker.Dispatcher,
) CaixaService {
	return &caixaService{repo: repo, vendaRepo: vendaRepo, produtoRepo: produtoRepo, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, req dto.AbrirCaixaRequest) (*dto.CaixaResponse, error) {
	if req.Nome == "" {
		return nil, apierror.New(apierror.KindValidation, "nome do caixa é obrigatório")
	}
	if req.TrocoInicial.IsNegative() {
		return nil, apierror.New(apierror.KindValidation, "troco inicial não pode ser negativo")
	}

	// Guard: at most one open caixa, system-wide. The partial unique index on
	// caixas(estado) WHERE estado = 'aberto' re-enforces this at the storage
	// layer, so a cross-device race loses on Create instead of racing this read.
	if _, err := s.repo.FindAberto(ctx); err == nil {
		return nil, apierror.New(apierror.KindCaixaJaAberto, "já existe um caixa aberto")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Storage(err)
	}

	produtos, err := s.produtoRepo.ListAll(ctx)
	if err != nil {
		return nil, apierror.Storage(err)
	}

	caixa := &model.Caixa{
		Nome:         req.Nome,
		TrocoInicial: req.TrocoInicial,
		Estado:       model.CaixaAberto,
		TotalVendas:  decimal.Zero,
		OpenedAt:     time.Now(),
	}

	// Caixa row and its catalog snapshot (staging itens, quantidade 0 each)
	// commit together: a caixa must never exist without its snapshot.
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, caixa); err != nil {
			return err
		}
		itens := make([]model.CaixaItem, 0, len(produtos))
		for _, p := range produtos {
			itens = append(itens, model.CaixaItem{
				CaixaID:   caixa.ID,
				ProdutoID: p.ID,
				Nome:      p.Nome,
			})
		}
		if err := s.repo.CreateItensTx(tx, itens); err != nil {
			return err
		}
		caixa.Itens = itens
		return nil
	})
	if txErr != nil {
		return nil, apierror.Storage(txErr)
	}

	return caixaToResponse(caixa), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *caixaService) Atual(ctx context.Context) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindAberto(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.KindSemCaixaAberto, "não há caixa aberto")
		}
		return nil, apierror.Storage(err)
	}
	full, err := s.repo.FindByID(ctx, caixa.ID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return caixaToResponse(full), nil
}

func (s *caixaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "caixa não encontrado")
	}
	return caixaToResponse(caixa), nil
}

func (s *caixaService) Historico(ctx context.Context, page, limit int) (*dto.CaixaListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	caixas, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	data := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		data = append(data, *caixaToResponse(&caixas[i]))
	}
	return &dto.CaixaListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Irreversible: a closed caixa never reopens.

func (s *caixaService) Fechar(ctx context.Context) (*dto.CaixaResponse, error) {
	caixa, err := s.repo.FindAberto(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.KindSemCaixaAberto, "não há caixa aberto")
		}
		return nil, apierror.Storage(err)
	}

	now := time.Now()
	caixa.ClosedAt = &now
	caixa.Estado = model.CaixaFechado
	if err := s.repo.Update(ctx, caixa); err != nil {
		return nil, apierror.Storage(err)
	}

	// Closing report — best effort, fire & forget.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRelatorio(ctx, worker.RelatorioJobPayload{CaixaID: caixa.ID.String()}); err != nil {
			log.Warn().Err(err).Str("caixa_id", caixa.ID.String()).Msg("failed to enqueue closing report")
		}
	}

	full, err := s.repo.FindByID(ctx, caixa.ID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return caixaToResponse(full), nil
}

// ── Excluir ───────────────────────────────────────────────────────────────────

func (s *caixaService) Excluir(ctx context.Context, id uuid.UUID) error {
	caixa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storageErr(err, "caixa não encontrado")
	}
	if caixa.Estado != model.CaixaFechado {
		return apierror.New(apierror.KindCaixaNaoFechado, "não é possível excluir um caixa aberto")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.vendaRepo.DeleteByCaixaTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	if txErr != nil {
		return apierror.Storage(txErr)
	}
	return nil
}

// ── Staging itens ─────────────────────────────────────────────────────────────

func (s *caixaService) AdicionarItem(ctx context.Context, req dto.ItemCaixaRequest) error {
	caixa, err := s.FindCaixaAberto(ctx)
	if err != nil {
		return err
	}
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return apierror.New(apierror.KindValidation, "produto_id inválido")
	}
	produto, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return storageErr(err, "produto não encontrado")
	}

	item, err := s.repo.FindItem(ctx, caixa.ID, produtoID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Storage(err)
		}
		item = &model.CaixaItem{CaixaID: caixa.ID, ProdutoID: produtoID, Nome: produto.Nome}
	}

	nova := item.Quantidade + req.Quantidade
	if nova > produto.Estoque {
		return apierror.Newf(apierror.KindValidation, "quantidade maior que o estoque disponível (%d)", produto.Estoque)
	}
	item.Quantidade = nova
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return apierror.Storage(err)
	}
	return nil
}

func (s *caixaService) RemoverItem(ctx context.Context, produtoID uuid.UUID) error {
	return s.AjustarQuantidade(ctx, produtoID, 0)
}

// AjustarQuantidade sets the staged quantity; quantidade ≤ 0 resets it to
// zero. The row itself stays for the rest of the session: it is the catalog
// snapshot taken at open time, not a cart line.
func (s *caixaService) AjustarQuantidade(ctx context.Context, produtoID uuid.UUID, quantidade int) error {
	caixa, err := s.FindCaixaAberto(ctx)
	if err != nil {
		return err
	}
	item, err := s.repo.FindItem(ctx, caixa.ID, produtoID)
	if err != nil {
		return storageErr(err, "item não encontrado no caixa")
	}
	if quantidade <= 0 {
		item.Quantidade = 0
		return s.saveItem(ctx, item)
	}
	produto, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return storageErr(err, "produto não encontrado")
	}
	if quantidade > produto.Estoque {
		return apierror.Newf(apierror.KindValidation, "quantidade maior que o estoque disponível (%d)", produto.Estoque)
	}
	item.Quantidade = quantidade
	return s.saveItem(ctx, item)
}

func (s *caixaService) saveItem(ctx context.Context, item *model.CaixaItem) error {
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return apierror.Storage(err)
	}
	return nil
}

// ── FindCaixaAberto ───────────────────────────────────────────────────────────

func (s *caixaService) FindCaixaAberto(ctx context.Context) (*model.Caixa, error) {
	caixa, err := s.repo.FindAberto(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.KindSemCaixaAberto, "não há caixa aberto")
		}
		return nil, apierror.Storage(err)
	}
	return caixa, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func caixaToResponse(c *model.Caixa) *dto.CaixaResponse {
	itens := make([]dto.ItemCaixaResponse, 0, len(c.Itens))
	for _, item := range c.Itens {
		itens = append(itens, dto.ItemCaixaResponse{
			ProdutoID:  item.ProdutoID.String(),
			Nome:       item.Nome,
			Quantidade: item.Quantidade,
		})
	}
	resp := &dto.CaixaResponse{
		ID:           c.ID.String(),
		Nome:         c.Nome,
		TrocoInicial: c.TrocoInicial,
		Estado:       c.Estado,
		TotalVendas:  c.TotalVendas,
		QtdVendas:    len(c.Vendas),
		Itens:        itens,
		OpenedAt:     c.OpenedAt.UTC().Format(time.RFC3339),
	}
	if c.ClosedAt != nil {
		t := c.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
