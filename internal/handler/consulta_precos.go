package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/luccTech/caixa-formatura/internal/apierror"
	"github.com/luccTech/caixa-formatura/internal/dto"
	"github.com/luccTech/caixa-formatura/internal/model"
	"github.com/luccTech/caixa-formatura/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const precoCacheTTL = 4 * time.Hour

// ConsultaPrecosHandler serves the price check endpoint the register devices
// poll between sales. Read-through redis cache, no side effects.
type ConsultaPrecosHandler struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewConsultaPrecosHandler(repo repository.ProdutoRepository, rdb *redis.Client) *ConsultaPrecosHandler {
	return &ConsultaPrecosHandler{repo: repo, rdb: rdb}
}

// GetPrecoPorCodigo godoc
// @Summary Consulta de preço por código do produto
// @Tags precos
// @Produce json
// @Param codigo path string true "Código do produto"
// @Success 200 {object} dto.ConsultaPrecoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precos/{codigo} [get]
func (h *ConsultaPrecosHandler) GetPrecoPorCodigo(c *gin.Context) {
	codigo := model.NormalizeCodigo(c.Param("codigo"))
	ctx := c.Request.Context()
	cacheKey := "preco:" + codigo

	// 1. Try redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecoResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	produto, err := h.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.NewAPIError("Produto não encontrado"))
		return
	}

	resp := dto.ConsultaPrecoResponse{
		Nome:    produto.Nome,
		Codigo:  produto.Codigo,
		Preco:   produto.Preco,
		Estoque: produto.Estoque,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precoCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
