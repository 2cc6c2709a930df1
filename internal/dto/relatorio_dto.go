package dto

import "github.com/shopspring/decimal"

// RelatorioFilter selects the reporting window.
// Periodo: hoje | semana | mes | todos (default).
type RelatorioFilter struct {
	Periodo string `form:"periodo,default=todos" validate:"oneof=hoje semana mes todos"`
}

// EstatisticasResponse aggregates over the filtered caixas.
type EstatisticasResponse struct {
	TotalCaixas    int             `json:"total_caixas"`
	CaixasAbertos  int             `json:"caixas_abertos"`
	CaixasFechados int             `json:"caixas_fechados"`
	TotalReceita   decimal.Decimal `json:"total_receita"`
	TotalVendas    int             `json:"total_vendas"`
	TotalDescontos decimal.Decimal `json:"total_descontos"`
}

// ResumoPagamentosResponse breaks one caixa down per payment method.
// Combined sales are folded into the dinheiro/pix buckets.
type ResumoPagamentosResponse struct {
	TotalDinheiro  decimal.Decimal `json:"total_dinheiro"`
	TotalPix       decimal.Decimal `json:"total_pix"`
	TrocoTotal     decimal.Decimal `json:"troco_total"`
	TotalDescontos decimal.Decimal `json:"total_descontos"`
}

// RelatorioCaixaResponse is the full per-caixa report payload consumed by
// export collaborators (PDF, CSV, clipboard).
type RelatorioCaixaResponse struct {
	Caixa  CaixaResponse            `json:"caixa"`
	Resumo ResumoPagamentosResponse `json:"resumo"`
	Vendas []VendaResponse          `json:"vendas"`
}
