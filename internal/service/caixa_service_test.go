package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/luccTech/caixa-formatura/internal/apierror"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCaixaSvc() (service.CaixaService, *stubCaixaRepo, *stubVendaRepo, *stubProdutoRepo) {
	caixaRepo := newStubCaixaRepo()
	vendaRepo := newStubVendaRepo()
	produtoRepo := newStubProdutoRepo()
	caixaRepo.vendas = vendaRepo
	svc := service.NewCaixaService(caixaRepo, vendaRepo, produtoRepo, nil)
	return svc, caixaRepo, vendaRepo, produtoRepo
}

func TestAbrirCaixa_SnapshotItens(t *testing.T) {
	svc, _, _, produtoRepo := buildCaixaSvc()
	seedProduto(produtoRepo, "Brigadeiro", "BRI-1", 3.5, 100)
	seedProduto(produtoRepo, "Coxinha", "COX-1", 5, 40)

	resp, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		Nome:         "Barraca 1",
		TrocoInicial: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CaixaAberto, resp.Estado)
	assert.Equal(t, "50", resp.TrocoInicial.String())
	// One staging entry per catalog product, quantidade 0.
	require.Len(t, resp.Itens, 2)
	for _, item := range resp.Itens {
		assert.Zero(t, item.Quantidade)
	}
}

func TestAbrirCaixa_JaAberto(t *testing.T) {
	svc, _, _, _ := buildCaixaSvc()

	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 1"})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 2"})
	assert.True(t, apierror.Is(err, apierror.KindCaixaJaAberto))
}

func TestAbrirCaixa_TrocoNegativo(t *testing.T) {
	svc, _, _, _ := buildCaixaSvc()
	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{
		Nome:         "Barraca 1",
		TrocoInicial: decimal.NewFromInt(-10),
	})
	assert.True(t, apierror.Is(err, apierror.KindValidation))
}

func TestAtual_SemCaixaAberto(t *testing.T) {
	svc, _, _, _ := buildCaixaSvc()
	_, err := svc.Atual(context.Background())
	assert.True(t, apierror.Is(err, apierror.KindSemCaixaAberto))
}

func TestFecharCaixa(t *testing.T) {
	svc, caixaRepo, _, _ := buildCaixaSvc()
	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 1"})
	require.NoError(t, err)

	resp, err := svc.Fechar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CaixaFechado, resp.Estado)
	require.NotNil(t, resp.ClosedAt)

	// Closing is terminal — no open caixa remains.
	_, err = svc.Fechar(context.Background())
	assert.True(t, apierror.Is(err, apierror.KindSemCaixaAberto))

	// A new session can now be opened.
	_, err = svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 2"})
	assert.NoError(t, err)
	assert.Len(t, caixaRepo.caixas, 2)
}

func TestTimestampsEmUTC(t *testing.T) {
	svc, _, _, _ := buildCaixaSvc()

	resp, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 1"})
	require.NoError(t, err)

	// RFC 3339 with a truthful Z designator: parsing must land on the actual
	// instant regardless of the server's local zone.
	aberto, err := time.Parse(time.RFC3339, resp.OpenedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), aberto, time.Minute)

	fechado, err := svc.Fechar(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fechado.ClosedAt)
	closedAt, err := time.Parse(time.RFC3339, *fechado.ClosedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), closedAt, time.Minute)
}

func TestExcluirCaixa_Guardas(t *testing.T) {
	svc, caixaRepo, vendaRepo, _ := buildCaixaSvc()
	aberto, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 1"})
	require.NoError(t, err)
	abertoID := uuid.MustParse(aberto.ID)

	// Open caixa cannot be deleted.
	err = svc.Excluir(context.Background(), abertoID)
	assert.True(t, apierror.Is(err, apierror.KindCaixaNaoFechado))

	// Close it, attach a venda, then delete: the venda goes with it.
	_, err = svc.Fechar(context.Background())
	require.NoError(t, err)
	require.NoError(t, vendaRepo.CreateTx(nil, &model.Venda{
		CaixaID: abertoID,
		Total:   decimal.NewFromInt(10),
	}))

	require.NoError(t, svc.Excluir(context.Background(), abertoID))
	assert.Empty(t, caixaRepo.caixas)
	assert.Empty(t, vendaRepo.vendas)

	// Deleting again: not found.
	err = svc.Excluir(context.Background(), abertoID)
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
}

func TestStagingItens(t *testing.T) {
	svc, _, _, produtoRepo := buildCaixaSvc()
	p := seedProduto(produtoRepo, "Pipoca", "PIP-1", 4, 10)
	_, err := svc.Abrir(context.Background(), dto.AbrirCaixaRequest{Nome: "Barraca 1"})
	require.NoError(t, err)

	// Add 3, then 4 more: accumulates.
	require.NoError(t, svc.AdicionarItem(context.Background(), dto.ItemCaixaRequest{ProdutoID: p.ID.String(), Quantidade: 3}))
	require.NoError(t, svc.AdicionarItem(context.Background(), dto.ItemCaixaRequest{ProdutoID: p.ID.String(), Quantidade: 4}))

	atual, err := svc.Atual(context.Background())
	require.NoError(t, err)
	require.Len(t, atual.Itens, 1)
	assert.Equal(t, 7, atual.Itens[0].Quantidade)

	// Accumulating past stock is rejected.
	err = svc.AdicionarItem(context.Background(), dto.ItemCaixaRequest{ProdutoID: p.ID.String(), Quantidade: 4})
	assert.True(t, apierror.Is(err, apierror.KindValidation))

	// Direct adjustment replaces the count; ≤ 0 clears it.
	require.NoError(t, svc.AjustarQuantidade(context.Background(), p.ID, 2))
	atual, _ = svc.Atual(context.Background())
	assert.Equal(t, 2, atual.Itens[0].Quantidade)

	require.NoError(t, svc.RemoverItem(context.Background(), p.ID))
	atual, _ = svc.Atual(context.Background())
	assert.Equal(t, 0, atual.Itens[0].Quantidade)
}

func TestStaging_SemCaixaAberto(t *testing.T) {
	svc, _, _, produtoRepo := buildCaixaSvc()
	p := seedProduto(produtoRepo, "Pipoca", "PIP-1", 4, 10)

	err := svc.AdicionarItem(context.Background(), dto.ItemCaixaRequest{ProdutoID: p.ID.String(), Quantidade: 1})
	assert.True(t, apierror.Is(err, apierror.KindSemCaixaAberto))
}

func TestHistorico_Paginacao(t *testing.T) {
	svc, caixaRepo, _, _ := buildCaixaSvc()
	base := time.Now()
	for i := 0; i < 5; i++ {
		caixaRepo.caixas[uuid.New()] = &model.Caixa{
			ID:       uuid.New(),
			Nome:     "Caixa",
			Estado:   model.CaixaFechado,
			OpenedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}

	resp, err := svc.Historico(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.EqualValues(t, 5, resp.Total)

	// Out-of-range values fall back to defaults.
	resp, err = svc.Historico(context.Background(), 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}
