//go:build integration

package router_test

// End-to-end API tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// Covered flow: catalog → abrir caixa → venda → relatorio → fechar →
// price cache → health.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luccTech/caixa-formatura/internal/config"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/infra"
	"github.com/luccTech/caixa-formatura/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Reader) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("caixa_test"),
		tcPostgres.WithUsername("caixa"),
		tcPostgres.WithPassword("caixa"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:           8000,
		Env:            "test",
		DatabaseURL:    pgURL,
		RedisURL:       rdURL,
		WorkerPoolSize: 1,
		PDFStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)
	return srv
}

func TestCicloCompletoDeVenda(t *testing.T) {
	srv := setupServer(t)

	// 1. Catalog
	resp := do(t, srv, http.MethodPost, "/v1/produtos", jsonBody(t, dto.CriarProdutoRequest{
		Nome:    "Coxinha",
		Codigo:  "cox-1",
		Preco:   decimal.NewFromInt(5),
		Estoque: 10,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var produto dto.ProdutoResponse
	decodeJSON(t, resp, &produto)
	assert.Equal(t, "COX-1", produto.Codigo)

	// 2. No caixa open yet — sale is refused.
	resp = do(t, srv, http.MethodPost, "/v1/vendas", jsonBody(t, dto.RegistrarVendaRequest{
		Itens:     []dto.ItemVendaRequest{{ProdutoID: produto.ID, Quantidade: 1}},
		Pagamento: dto.PagamentoRequest{Forma: "pix"},
	}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 3. Open the caixa.
	resp = do(t, srv, http.MethodPost, "/v1/caixa/abrir", jsonBody(t, dto.AbrirCaixaRequest{
		Nome:         "Barraca 1",
		TrocoInicial: decimal.NewFromInt(50),
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var caixa dto.CaixaResponse
	decodeJSON(t, resp, &caixa)
	assert.Equal(t, "aberto", caixa.Estado)
	require.Len(t, caixa.Itens, 1) // catalog snapshot

	// A second open is rejected.
	resp = do(t, srv, http.MethodPost, "/v1/caixa/abrir", jsonBody(t, dto.AbrirCaixaRequest{Nome: "Barraca 2"}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 4. Confirm a cash sale with change.
	recebido := decimal.NewFromInt(20)
	resp = do(t, srv, http.MethodPost, "/v1/vendas", jsonBody(t, dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{{ProdutoID: produto.ID, Quantidade: 3}},
		Pagamento: dto.PagamentoRequest{
			Forma:         "dinheiro",
			ValorRecebido: &recebido,
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venda dto.VendaResponse
	decodeJSON(t, resp, &venda)
	assert.Equal(t, "15", venda.Total.String())
	assert.Equal(t, "5", venda.Troco.String())

	// Stock decremented.
	resp = do(t, srv, http.MethodGet, "/v1/produtos/"+produto.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &produto)
	assert.Equal(t, 7, produto.Estoque)

	// 5. Report reflects the sale.
	resp = do(t, srv, http.MethodGet, "/v1/relatorios/caixas/"+caixa.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var relatorio dto.RelatorioCaixaResponse
	decodeJSON(t, resp, &relatorio)
	assert.Equal(t, "15", relatorio.Resumo.TotalDinheiro.String())
	assert.Equal(t, "5", relatorio.Resumo.TrocoTotal.String())
	require.Len(t, relatorio.Vendas, 1)

	// CSV export serves an attachment.
	resp = do(t, srv, http.MethodGet, "/v1/relatorios/caixas/"+caixa.ID+"/csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	resp.Body.Close()

	// 6. Close the caixa.
	resp = do(t, srv, http.MethodPost, "/v1/caixa/fechar", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &caixa)
	assert.Equal(t, "fechado", caixa.Estado)
	assert.Equal(t, "15", caixa.TotalVendas.String())
	assert.NotNil(t, caixa.ClosedAt)

	// No open caixa remains.
	resp = do(t, srv, http.MethodGet, "/v1/caixa/atual", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestConsultaPrecoComCache(t *testing.T) {
	srv := setupServer(t)

	resp := do(t, srv, http.MethodPost, "/v1/produtos", jsonBody(t, dto.CriarProdutoRequest{
		Nome:    "Guaraná",
		Codigo:  "GUA-1",
		Preco:   decimal.NewFromFloat(4.50),
		Estoque: 24,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// First hit populates the cache, second one is served from it —
	// both must answer the same payload. Lookup is case-insensitive.
	for i := 0; i < 2; i++ {
		resp = do(t, srv, http.MethodGet, "/v1/precos/gua-1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var preco dto.ConsultaPrecoResponse
		decodeJSON(t, resp, &preco)
		assert.Equal(t, "Guaraná", preco.Nome)
		assert.Equal(t, "4.5", preco.Preco.String())
	}

	resp = do(t, srv, http.MethodGet, "/v1/precos/NAO-EXISTE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	resp := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "connected", health["db"])
	assert.Equal(t, "connected", health["redis"])
}
