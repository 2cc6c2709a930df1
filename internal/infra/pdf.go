package infra

// pdf.go — PDF generation using go-pdf/fpdf.
// Two documents come out of here:
//   - the thermal-style sale receipt (recibo), written after each confirmed venda
//   - the A4 caixa closing report (relatório de fechamento)

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luccTech/caixa-formatura/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GerarReciboPDF writes a PDF receipt for a confirmed Venda.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GerarReciboPDF(venda *model.Venda, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", shortID(venda.ID.String()))
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Caixa Formatura", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Venda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Sale info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venda %s", shortID(venda.ID.String())), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venda.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Itens {
		nome := item.Nome
		if len(nome) > 22 {
			nome = nome[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !venda.Desconto.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$"+venda.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$"+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payment ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	switch venda.FormaPagamento {
	case model.PagamentoCombinar:
		if venda.ParteDinheiro != nil {
			pdf.CellFormat(col1+col2, 4, "Pago (dinheiro):", "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 4, "R$"+venda.ParteDinheiro.StringFixed(2), "", 1, "R", false, 0, "")
		}
		if venda.PartePix != nil {
			pdf.CellFormat(col1+col2, 4, "Pago (pix):", "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 4, "R$"+venda.PartePix.StringFixed(2), "", 1, "R", false, 0, "")
		}
	default:
		pdf.CellFormat(col1+col2, 4, "Pago ("+venda.FormaPagamento+"):", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$"+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if venda.Troco.IsPositive() {
		pdf.CellFormat(col1+col2, 4, "Troco:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$"+venda.Troco.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GerarRelatorioCaixaPDF writes the A4 closing report for a caixa: session
// header, payment breakdown and one line per venda. Combined payments split
// into the dinheiro/pix buckets, matching the on-screen report.
func GerarRelatorioCaixaPDF(caixa *model.Caixa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("relatorio_caixa_%s.pdf", shortID(caixa.ID.String()))
	filePath := filepath.Join(storagePath, fileName)

	totalDinheiro := decimal.Zero
	totalPix := decimal.Zero
	trocoTotal := decimal.Zero
	descontos := decimal.Zero
	for _, v := range caixa.Vendas {
		switch v.FormaPagamento {
		case model.PagamentoDinheiro:
			totalDinheiro = totalDinheiro.Add(v.Total)
		case model.PagamentoPix:
			totalPix = totalPix.Add(v.Total)
		case model.PagamentoCombinar:
			if v.ParteDinheiro != nil {
				totalDinheiro = totalDinheiro.Add(*v.ParteDinheiro)
			}
			if v.PartePix != nil {
				totalPix = totalPix.Add(*v.PartePix)
			}
		}
		trocoTotal = trocoTotal.Add(v.Troco)
		descontos = descontos.Add(v.Desconto)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Relatório de Fechamento de Caixa", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Caixa: "+caixa.Nome, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "Abertura: "+caixa.OpenedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if caixa.ClosedAt != nil {
		pdf.CellFormat(contentW, 6, "Fechamento: "+caixa.ClosedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Summary ───────────────────────────────────────────────────────────────
	rows := []struct {
		label string
		value string
	}{
		{"Troco inicial", "R$" + caixa.TrocoInicial.StringFixed(2)},
		{"Total de vendas", "R$" + caixa.TotalVendas.StringFixed(2)},
		{"Quantidade de vendas", fmt.Sprintf("%d", len(caixa.Vendas))},
		{"Recebido em dinheiro", "R$" + totalDinheiro.StringFixed(2)},
		{"Recebido em pix", "R$" + totalPix.StringFixed(2)},
		{"Troco entregue", "R$" + trocoTotal.StringFixed(2)},
		{"Descontos concedidos", "R$" + descontos.StringFixed(2)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(contentW*0.6, 7, row.label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 7, row.value, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// ── Vendas ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.25, 7, "Hora", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.25, 7, "Pagamento", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.25, 7, "Desconto", "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.25, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, v := range caixa.Vendas {
		pdf.CellFormat(contentW*0.25, 6, v.CreatedAt.Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, v.FormaPagamento, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, "R$"+v.Desconto.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.25, 6, "R$"+v.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
