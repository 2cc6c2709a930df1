package service

import (
	"context"
	"time"

	"github.com/luccTech/caixa-formatura/internal/apierror"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reporting periods.
const (
	PeriodoHoje   = "hoje"
	PeriodoSemana = "semana"
	PeriodoMes    = "mes"
	PeriodoTodos  = "todos"
)

// RelatorioService is read-only aggregation over caixas and vendas. The
// aggregation functions below are pure: they recompute everything from the
// snapshot they are given, never from cached intermediate state.
type RelatorioService interface {
	Estatisticas(ctx context.Context, filter dto.RelatorioFilter) (*dto.EstatisticasResponse, error)
	RelatorioCaixa(ctx context.Context, caixaID uuid.UUID) (*dto.RelatorioCaixaResponse, error)
}

type relatorioService struct {
	caixaRepo repository.CaixaRepository
}

func NewRelatorioService(caixaRepo repository.CaixaRepository) RelatorioService {
	return &relatorioService{caixaRepo: caixaRepo}
}

func (s *relatorioService) Estatisticas(ctx context.Context, filter dto.RelatorioFilter) (*dto.EstatisticasResponse, error) {
	caixas, err := s.caixaRepo.ListAll(ctx)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	filtradas := FiltrarPorPeriodo(caixas, filter.Periodo, time.Now())
	resp := Agregar(filtradas)
	return &resp, nil
}

func (s *relatorioService) RelatorioCaixa(ctx context.Context, caixaID uuid.UUID) (*dto.RelatorioCaixaResponse, error) {
	caixa, err := s.caixaRepo.FindByID(ctx, caixaID)
	if err != nil {
		return nil, storageErr(err, "caixa não encontrado")
	}
	vendas := make([]dto.VendaResponse, 0, len(caixa.Vendas))
	for i := range caixa.Vendas {
		vendas = append(vendas, *vendaToResponse(&caixa.Vendas[i]))
	}
	return &dto.RelatorioCaixaResponse{
		Caixa:  *caixaToResponse(caixa),
		Resumo: ResumoPagamentos(caixa),
		Vendas: vendas,
	}, nil
}

// ── Pure aggregation ──────────────────────────────────────────────────────────

// FiltrarPorPeriodo keeps the caixas whose opening falls within the window
// ending at now. Windows:
//
//	hoje   — start of the current calendar day
//	semana — now minus 7 days (rolling, not calendar week)
//	mes    — same day-of-month one month back; time.Date normalizes short
//	         months (e.g. Mar 31 → Mar 3 via Feb 31) rather than clamping,
//	         mirroring the historical JS Date arithmetic
//	todos  — everything
func FiltrarPorPeriodo(caixas []model.Caixa, periodo string, now time.Time) []model.Caixa {
	var corte time.Time
	switch periodo {
	case PeriodoHoje:
		corte = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodoSemana:
		hoje := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		corte = hoje.AddDate(0, 0, -7)
	case PeriodoMes:
		corte = time.Date(now.Year(), now.Month()-1, now.Day(), 0, 0, 0, 0, now.Location())
	default:
		return caixas
	}

	out := make([]model.Caixa, 0, len(caixas))
	for _, c := range caixas {
		if !c.OpenedAt.Before(corte) {
			out = append(out, c)
		}
	}
	return out
}

// Agregar folds the filtered caixas into summary statistics. Pure: calling it
// twice on the same snapshot yields identical results.
func Agregar(caixas []model.Caixa) dto.EstatisticasResponse {
	resp := dto.EstatisticasResponse{
		TotalReceita:   decimal.Zero,
		TotalDescontos: decimal.Zero,
	}
	resp.TotalCaixas = len(caixas)
	for _, c := range caixas {
		switch c.Estado {
		case model.CaixaAberto:
			resp.CaixasAbertos++
		case model.CaixaFechado:
			resp.CaixasFechados++
		}
		resp.TotalReceita = resp.TotalReceita.Add(c.TotalVendas)
		resp.TotalVendas += len(c.Vendas)
		for _, v := range c.Vendas {
			resp.TotalDescontos = resp.TotalDescontos.Add(v.Desconto)
		}
	}
	return resp
}

// ResumoPagamentos breaks one caixa down per payment method. Combined sales
// contribute their dinheiro/pix portions to the respective buckets — there is
// no separate "combinar" bucket.
func ResumoPagamentos(caixa *model.Caixa) dto.ResumoPagamentosResponse {
	resumo := dto.ResumoPagamentosResponse{
		TotalDinheiro:  decimal.Zero,
		TotalPix:       decimal.Zero,
		TrocoTotal:     decimal.Zero,
		TotalDescontos: decimal.Zero,
	}
	for _, v := range caixa.Vendas {
		switch v.FormaPagamento {
		case model.PagamentoDinheiro:
			resumo.TotalDinheiro = resumo.TotalDinheiro.Add(v.Total)
		case model.PagamentoPix:
			resumo.TotalPix = resumo.TotalPix.Add(v.Total)
		case model.PagamentoCombinar:
			if v.ParteDinheiro != nil {
				resumo.TotalDinheiro = resumo.TotalDinheiro.Add(*v.ParteDinheiro)
			}
			if v.PartePix != nil {
				resumo.TotalPix = resumo.TotalPix.Add(*v.PartePix)
			}
		}
		resumo.TrocoTotal = resumo.TrocoTotal.Add(v.Troco)
		resumo.TotalDescontos = resumo.TotalDescontos.Add(v.Desconto)
	}
	return resumo
}

// TrocoTotal sums change across the caixa's vendas.
func TrocoTotal(caixa *model.Caixa) decimal.Decimal {
	total := decimal.Zero
	for _, v := range caixa.Vendas {
		total = total.Add(v.Troco)
	}
	return total
}

// DescontoTotal sums discounts across the caixa's vendas.
func DescontoTotal(caixa *model.Caixa) decimal.Decimal {
	total := decimal.Zero
	for _, v := range caixa.Vendas {
		total = total.Add(v.Desconto)
	}
	return total
}
