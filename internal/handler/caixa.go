package handler

import (
	"net/http"
	"strconv"

	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/service"

	"github.com/gin-gonic/gin"
)

type CaixaHandler struct {
	svc   service.CaixaService
	venda service.VendaService
}

func NewCaixaHandler(svc service.CaixaService, venda service.VendaService) *CaixaHandler {
	return &CaixaHandler{svc: svc, venda: venda}
}

// Abrir godoc
// @Summary Abre um caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Param caixa body dto.AbrirCaixaRequest true "Caixa"
// @Success 201 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Atual godoc
// @Summary Caixa aberto no momento
// @Tags caixa
// @Produce json
// @Success 200 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/atual [get]
func (h *CaixaHandler) Atual(c *gin.Context) {
	resp, err := h.svc.Atual(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fechar godoc
// @Summary Fecha o caixa aberto
// @Tags caixa
// @Produce json
// @Success 200 {object} dto.CaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	resp, err := h.svc.Fechar(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CaixaHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CaixaHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CaixaHandler) Historico(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Historico(c.Request.Context(), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVendas serves the sales of one caixa, oldest first.
func (h *CaixaHandler) ListarVendas(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.venda.ListarPorCaixa(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Staging itens ─────────────────────────────────────────────────────────────

func (h *CaixaHandler) AdicionarItem(c *gin.Context) {
	var req dto.ItemCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AdicionarItem(c.Request.Context(), req); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CaixaHandler) RemoverItem(c *gin.Context) {
	produtoID, ok := parseID(c, "produto_id")
	if !ok {
		return
	}
	if err := h.svc.RemoverItem(c.Request.Context(), produtoID); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CaixaHandler) AjustarQuantidade(c *gin.Context) {
	produtoID, ok := parseID(c, "produto_id")
	if !ok {
		return
	}
	var req dto.AjustarQuantidadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AjustarQuantidade(c.Request.Context(), produtoID, req.Quantidade); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
