package service

import (
	"context"
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

// VendaService computes cart totals, validates the chosen payment and confirms
// the sale as one atomic unit: stock decrement, venda snapshot and caixa total.
type VendaService interface {
	Confirmar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	ListarPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]dto.VendaResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	caixa       CaixaService
	caixaRepo   repository.CaixaRepository
	produtoRepo repository.ProdutoRepository
	dispatcher  *worker.Dispatcher
}

func NewVendaService(
	repo repository.VendaRepository,
	caixa CaixaService,
	caixaRepo repository.CaixaRepository,
	produtoRepo repository.ProdutoRepository,
	dispatcher *worker.Dispatcher,
) VendaService {
	return &vendaService{
		repo:        repo,
		caixa:       caixa,
		caixaRepo:   caixaRepo,
		produtoRepo: produtoRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Pure settlement math ──────────────────────────────────────────────────────

// Totais holds the settled amounts of a cart.
type Totais struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// CalcularTotais sums the line subtotals and applies the discount.
func CalcularTotais(itens []model.VendaItem, desconto decimal.Decimal) (Totais, error) {
	subtotal := decimal.Zero
	for _, item := range itens {
		subtotal = subtotal.Add(item.Subtotal)
	}
	if desconto.IsNegative() {
		return Totais{}, apierror.New(apierror.KindValidation, "desconto não pode ser negativo")
	}
	if desconto.GreaterThan(subtotal) {
		return Totais{}, apierror.New(apierror.KindValidation, "desconto maior que o subtotal")
	}
	return Totais{Subtotal: subtotal, Total: subtotal.Sub(desconto)}, nil
}

// ValidarPagamento checks the method-specific constraints and returns the
// change due. Troco is only ever non-zero for dinheiro.
func ValidarPagamento(total decimal.Decimal, pagamento dto.PagamentoRequest) (decimal.Decimal, error) {
	switch pagamento.Forma {
	case model.PagamentoDinheiro:
		if pagamento.ValorRecebido == nil {
			return decimal.Zero, apierror.New(apierror.KindValidation, "valor recebido é obrigatório para pagamento em dinheiro")
		}
		if pagamento.ValorRecebido.IsNegative() {
			return decimal.Zero, apierror.New(apierror.KindValidation, "valor recebido não pode ser negativo")
		}
		if pagamento.ValorRecebido.LessThan(total) {
			return decimal.Zero, apierror.New(apierror.KindPagamentoInsuficiente, "valor recebido menor que o total da venda")
		}
		return pagamento.ValorRecebido.Sub(total), nil
	case model.PagamentoPix:
		return decimal.Zero, nil
	case model.PagamentoCombinar:
		if pagamento.Dinheiro == nil || pagamento.Pix == nil {
			return decimal.Zero, apierror.New(apierror.KindValidation, "pagamento combinado exige os valores de dinheiro e pix")
		}
		if pagamento.Dinheiro.IsNegative() || pagamento.Pix.IsNegative() {
			return decimal.Zero, apierror.New(apierror.KindValidation, "as parcelas de dinheiro e pix não podem ser negativas")
		}
		// Exact equality, no rounding slack.
		if !pagamento.Dinheiro.Add(*pagamento.Pix).Equal(total) {
			return decimal.Zero, apierror.New(apierror.KindPagamentoDivergente, "a soma de dinheiro e pix deve ser igual ao total")
		}
		return decimal.Zero, nil
	default:
		return decimal.Zero, apierror.Newf(apierror.KindValidation, "forma de pagamento inválida: %s", pagamento.Forma)
	}
}

// ── Confirmar ─────────────────────────────────────────────────────────────────
// Single logical unit:
//  1. Validate open caixa, cart, totals and payment (pre-flight, outside TX)
//  2. BEGIN TX: baixar estoque → criar venda (snapshot) → somar no caixa
//  3. COMMIT
//  4. (async) enqueue receipt PDF job
//
// Stock is decremented first on purpose: a crash mid-sequence leaves the
// inventory undercounted rather than revenue recorded without stock movement.

func (s *vendaService) Confirmar(ctx context.Context, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	if len(req.Itens) == 0 {
		return nil, apierror.New(apierror.KindCarrinhoVazio, "carrinho vazio")
	}

	caixa, err := s.caixa.FindCaixaAberto(ctx)
	if err != nil {
		return nil, err
	}

	// Resolve products and snapshot cart lines. Quantity is validated against
	// live stock here so the clamped decrement below cannot hide an oversell.
	itens := make([]model.VendaItem, 0, len(req.Itens))
	for _, linha := range req.Itens {
		produtoID, err := uuid.Parse(linha.ProdutoID)
		if err != nil {
			return nil, apierror.New(apierror.KindValidation, "produto_id inválido")
		}
		if linha.Quantidade < 1 {
			return nil, apierror.New(apierror.KindValidation, "quantidade deve ser no mínimo 1")
		}
		p, err := s.produtoRepo.FindByID(ctx, produtoID)
		if err != nil {
			return nil, storageErr(err, "produto não encontrado")
		}
		if linha.Quantidade > p.Estoque {
			return nil, apierror.Newf(apierror.KindValidation, "quantidade de %s maior que o estoque disponível (%d)", p.Nome, p.Estoque)
		}
		qtd := decimal.NewFromInt(int64(linha.Quantidade))
		itens = append(itens, model.VendaItem{
			ProdutoID:     p.ID,
			Nome:          p.Nome,
			Codigo:        p.Codigo,
			Quantidade:    linha.Quantidade,
			PrecoUnitario: p.Preco,
			Subtotal:      p.Preco.Mul(qtd),
		})
	}

	totais, err := CalcularTotais(itens, req.Desconto)
	if err != nil {
		return nil, err
	}
	if !totais.Total.IsPositive() {
		return nil, apierror.New(apierror.KindValidation, "total da venda deve ser maior que zero")
	}

	troco, err := ValidarPagamento(totais.Total, req.Pagamento)
	if err != nil {
		return nil, err
	}

	venda := model.Venda{
		CaixaID:        caixa.ID,
		Subtotal:       totais.Subtotal,
		Desconto:       req.Desconto,
		Total:          totais.Total,
		FormaPagamento: req.Pagamento.Forma,
		Troco:          troco,
		Itens:          itens,
	}
	switch req.Pagamento.Forma {
	case model.PagamentoDinheiro:
		venda.ValorRecebido = req.Pagamento.ValorRecebido
	case model.PagamentoCombinar:
		venda.ParteDinheiro = req.Pagamento.Dinheiro
		venda.PartePix = req.Pagamento.Pix
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range itens {
			if err := s.produtoRepo.BaixarEstoqueTx(tx, item.ProdutoID, item.Quantidade); err != nil {
				return err
			}
		}
		if err := s.repo.CreateTx(tx, &venda); err != nil {
			return err
		}
		return s.caixaRepo.IncrementTotalTx(tx, caixa.ID, venda.Total)
	})
	if txErr != nil {
		return nil, apierror.Storage(txErr)
	}

	// Receipt PDF — best effort, fire & forget.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{VendaID: venda.ID.String()}); err != nil {
			log.Warn().Err(err).Str("venda_id", venda.ID.String()).Msg("failed to enqueue receipt job")
		}
	}

	return vendaToResponse(&venda), nil
}

func (s *vendaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, "venda não encontrada")
	}
	return vendaToResponse(venda), nil
}

func (s *vendaService) ListarPorCaixa(ctx context.Context, caixaID uuid.UUID) ([]dto.VendaResponse, error) {
	vendas, err := s.repo.ListByCaixa(ctx, caixaID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		out = append(out, *vendaToResponse(&vendas[i]))
	}
	return out, nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		itens = append(itens, dto.ItemVendaResponse{
			ProdutoID:     item.ProdutoID.String(),
			Nome:          item.Nome,
			Codigo:        item.Codigo,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Subtotal:      item.Subtotal,
		})
	}
	return &dto.VendaResponse{
		ID:             v.ID.String(),
		CaixaID:        v.CaixaID.String(),
		Itens:          itens,
		Subtotal:       v.Subtotal,
		Desconto:       v.Desconto,
		Total:          v.Total,
		FormaPagamento: v.FormaPagamento,
		ValorRecebido:  v.ValorRecebido,
		Troco:          v.Troco,
		ParteDinheiro:  v.ParteDinheiro,
		PartePix:       v.PartePix,
		CreatedAt:      v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
