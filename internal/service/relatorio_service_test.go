package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caixaAbertoEm(openedAt time.Time, total float64, vendas ...model.Venda) model.Caixa {
	return model.Caixa{
		ID:          uuid.New(),
		Nome:        "Caixa",
		Estado:      model.CaixaFechado,
		TotalVendas: dec(total),
		OpenedAt:    openedAt,
		Vendas:      vendas,
	}
}

func TestFiltrarPorPeriodo(t *testing.T) {
	// Fixed clock: 2026-03-15 14:00 local.
	now := time.Date(2026, time.March, 15, 14, 0, 0, 0, time.Local)

	hoje := caixaAbertoEm(time.Date(2026, time.March, 15, 8, 0, 0, 0, time.Local), 10)
	ontem := caixaAbertoEm(time.Date(2026, time.March, 14, 20, 0, 0, 0, time.Local), 20)
	seisDias := caixaAbertoEm(time.Date(2026, time.March, 9, 10, 0, 0, 0, time.Local), 30)
	dezDias := caixaAbertoEm(time.Date(2026, time.March, 5, 10, 0, 0, 0, time.Local), 40)
	mesPassado := caixaAbertoEm(time.Date(2026, time.February, 20, 10, 0, 0, 0, time.Local), 50)
	antigo := caixaAbertoEm(time.Date(2025, time.December, 1, 10, 0, 0, 0, time.Local), 60)

	caixas := []model.Caixa{hoje, ontem, seisDias, dezDias, mesPassado, antigo}

	assert.Len(t, service.FiltrarPorPeriodo(caixas, service.PeriodoHoje, now), 1)
	assert.Len(t, service.FiltrarPorPeriodo(caixas, service.PeriodoSemana, now), 3)
	// mes: cutoff Feb 15 — includes Feb 20 onwards.
	assert.Len(t, service.FiltrarPorPeriodo(caixas, service.PeriodoMes, now), 5)
	assert.Len(t, service.FiltrarPorPeriodo(caixas, service.PeriodoTodos, now), 6)
	// Unknown periodo behaves as todos.
	assert.Len(t, service.FiltrarPorPeriodo(caixas, "qualquer", now), 6)
}

func TestFiltrarPorPeriodo_LimiteDoDia(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 30, 0, 0, time.Local)

	aposMeiaNoite := caixaAbertoEm(time.Date(2026, time.March, 15, 0, 5, 0, 0, time.Local), 10)
	antesMeiaNoite := caixaAbertoEm(time.Date(2026, time.March, 14, 23, 55, 0, 0, time.Local), 20)

	out := service.FiltrarPorPeriodo([]model.Caixa{aposMeiaNoite, antesMeiaNoite}, service.PeriodoHoje, now)
	require.Len(t, out, 1)
	assert.Equal(t, aposMeiaNoite.ID, out[0].ID)
}

func TestAgregar(t *testing.T) {
	caixas := []model.Caixa{
		{
			Estado:      model.CaixaAberto,
			TotalVendas: dec(100),
			Vendas: []model.Venda{
				{Total: dec(60), Desconto: dec(5)},
				{Total: dec(40), Desconto: decimal.Zero},
			},
		},
		{
			Estado:      model.CaixaFechado,
			TotalVendas: dec(30),
			Vendas:      []model.Venda{{Total: dec(30), Desconto: dec(2)}},
		},
	}

	resp := service.Agregar(caixas)
	assert.Equal(t, 2, resp.TotalCaixas)
	assert.Equal(t, 1, resp.CaixasAbertos)
	assert.Equal(t, 1, resp.CaixasFechados)
	assert.Equal(t, 3, resp.TotalVendas)
	assert.Equal(t, "130", resp.TotalReceita.String())
	assert.Equal(t, "7", resp.TotalDescontos.String())

	// Pure: a second pass over the same snapshot yields identical numbers.
	again := service.Agregar(caixas)
	assert.Equal(t, resp, again)
}

func TestAgregar_Vazio(t *testing.T) {
	resp := service.Agregar(nil)
	assert.Zero(t, resp.TotalCaixas)
	assert.True(t, resp.TotalReceita.IsZero())
	assert.True(t, resp.TotalDescontos.IsZero())
}

func TestResumoPagamentos_DobraCombinar(t *testing.T) {
	d10, p20 := dec(10), dec(20)
	caixa := &model.Caixa{
		Vendas: []model.Venda{
			{FormaPagamento: model.PagamentoDinheiro, Total: dec(50), Troco: dec(10), Desconto: dec(2)},
			{FormaPagamento: model.PagamentoPix, Total: dec(25)},
			{FormaPagamento: model.PagamentoCombinar, Total: dec(30), ParteDinheiro: &d10, PartePix: &p20},
		},
	}

	resumo := service.ResumoPagamentos(caixa)
	// Combined sale contributes to both buckets, never to a third one.
	assert.Equal(t, "60", resumo.TotalDinheiro.String())
	assert.Equal(t, "45", resumo.TotalPix.String())
	assert.Equal(t, "10", resumo.TrocoTotal.String())
	assert.Equal(t, "2", resumo.TotalDescontos.String())

	// dinheiro + pix buckets account for every centavo sold.
	soma := resumo.TotalDinheiro.Add(resumo.TotalPix)
	assert.Equal(t, "105", soma.String())
}

func TestEstatisticas_ComStub(t *testing.T) {
	caixaRepo := newStubCaixaRepo()
	vendaRepo := newStubVendaRepo()
	caixaRepo.vendas = vendaRepo

	c := caixaAbertoEm(time.Now(), 0)
	c.Estado = model.CaixaAberto
	caixaRepo.caixas[c.ID] = &c
	require.NoError(t, vendaRepo.CreateTx(nil, &model.Venda{CaixaID: c.ID, Total: dec(12)}))
	c.TotalVendas = dec(12)

	svc := service.NewRelatorioService(caixaRepo)
	resp, err := svc.Estatisticas(context.Background(), dto.RelatorioFilter{Periodo: service.PeriodoHoje})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalCaixas)
	assert.Equal(t, 1, resp.TotalVendas)
	assert.Equal(t, "12", resp.TotalReceita.String())
}

func TestRelatorioCaixa(t *testing.T) {
	caixaRepo := newStubCaixaRepo()
	vendaRepo := newStubVendaRepo()
	caixaRepo.vendas = vendaRepo

	c := caixaAbertoEm(time.Now(), 40)
	caixaRepo.caixas[c.ID] = &c
	require.NoError(t, vendaRepo.CreateTx(nil, &model.Venda{
		CaixaID: c.ID, Total: dec(40), FormaPagamento: model.PagamentoPix,
	}))

	svc := service.NewRelatorioService(caixaRepo)
	resp, err := svc.RelatorioCaixa(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID.String(), resp.Caixa.ID)
	assert.Equal(t, "40", resp.Resumo.TotalPix.String())
	require.Len(t, resp.Vendas, 1)
}
