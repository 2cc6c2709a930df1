package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/luccTech/caixa-formatura/internal/apierror"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/infra"
	"github.com/luccTech/caixa-formatura/internal/repository"
	"github.com/luccTech/caixa-formatura/internal/service"

	"github.com/gin-gonic/gin"
)

type RelatoriosHandler struct {
	svc            service.RelatorioService
	caixaRepo      repository.CaixaRepository
	pdfStoragePath string
}

func NewRelatoriosHandler(svc service.RelatorioService, caixaRepo repository.CaixaRepository, pdfStoragePath string) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc, caixaRepo: caixaRepo, pdfStoragePath: pdfStoragePath}
}

// Estatisticas godoc
// @Summary Estatísticas agregadas dos caixas
// @Tags relatorios
// @Produce json
// @Param periodo query string false "hoje | semana | mes | todos"
// @Success 200 {object} dto.EstatisticasResponse
// @Router /v1/relatorios/estatisticas [get]
func (h *RelatoriosHandler) Estatisticas(c *gin.Context) {
	var filter dto.RelatorioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewAPIError(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewAPIError("período inválido: use hoje, semana, mes ou todos"))
		return
	}
	resp, err := h.svc.Estatisticas(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioCaixa serves the full per-caixa report (summary + vendas).
func (h *RelatoriosHandler) RelatorioCaixa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RelatorioCaixa(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RelatorioCaixaPDF renders and serves the closing report PDF. Rendering is
// cheap enough to redo per request — no staleness to reason about.
func (h *RelatoriosHandler) RelatorioCaixaPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	caixa, err := h.caixaRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.NewAPIError("caixa não encontrado"))
		return
	}
	path, err := infra.GerarRelatorioCaixaPDF(caixa, h.pdfStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.NewAPIError("falha ao gerar o PDF"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="relatorio_caixa.pdf"`)
	c.File(path)
}

// RelatorioCaixaCSV serves the report as CSV text: a summary block followed by
// one line per venda.
func (h *RelatoriosHandler) RelatorioCaixaCSV(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RelatorioCaixa(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"caixa", resp.Caixa.Nome})
	_ = w.Write([]string{"troco_inicial", resp.Caixa.TrocoInicial.StringFixed(2)})
	_ = w.Write([]string{"total_vendas", resp.Caixa.TotalVendas.StringFixed(2)})
	_ = w.Write([]string{"total_dinheiro", resp.Resumo.TotalDinheiro.StringFixed(2)})
	_ = w.Write([]string{"total_pix", resp.Resumo.TotalPix.StringFixed(2)})
	_ = w.Write([]string{"troco_total", resp.Resumo.TrocoTotal.StringFixed(2)})
	_ = w.Write([]string{"total_descontos", resp.Resumo.TotalDescontos.StringFixed(2)})
	_ = w.Write([]string{})
	_ = w.Write([]string{"venda_id", "criada_em", "forma_pagamento", "desconto", "total"})
	for _, v := range resp.Vendas {
		_ = w.Write([]string{v.ID, v.CreatedAt, v.FormaPagamento, v.Desconto.StringFixed(2), v.Total.StringFixed(2)})
	}
	w.Flush()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio_caixa_%s.csv"`, id.String()[:8]))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
