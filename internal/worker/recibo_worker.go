package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibo: loads the confirmed venda and
// writes its PDF receipt to disk.

import (
	"context"
	"encoding/json"

	"github.com/luccTech/caixa-formatura/internal/infra"
	"github.com/luccTech/caixa-formatura/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	VendaID string `json:"venda_id"`
}

// ReciboWorker generates the PDF receipt for a confirmed sale.
type ReciboWorker struct {
	vendaRepo      repository.VendaRepository
	rdb            *redis.Client
	pdfStoragePath string
}

func NewReciboWorker(vendaRepo repository.VendaRepository, rdb *redis.Client, pdfStoragePath string) *ReciboWorker {
	return &ReciboWorker{vendaRepo: vendaRepo, rdb: rdb, pdfStoragePath: pdfStoragePath}
}

// Process fetches the venda and writes its receipt PDF. A venda that cannot
// be loaded or rendered goes to the DLQ — the sale itself is already settled,
// only the paper trail is missing.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	vendaID, err := uuid.Parse(payload.VendaID)
	if err != nil {
		log.Error().Str("venda_id", payload.VendaID).Msg("recibo_worker: invalid venda_id")
		return
	}

	venda, err := w.vendaRepo.FindByID(ctx, vendaID)
	if err != nil {
		log.Error().Err(err).Str("venda_id", payload.VendaID).Msg("recibo_worker: venda not found")
		SendToDLQ(ctx, w.rdb, QueueRecibo, "recibo", raw, "venda not found: "+err.Error(), 1)
		return
	}

	pdfPath, err := infra.GerarReciboPDF(venda, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("venda_id", payload.VendaID).Msg("recibo_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueRecibo, "recibo", raw, "pdf generation failed: "+err.Error(), 1)
		return
	}

	log.Info().Str("venda_id", payload.VendaID).Str("pdf", pdfPath).Msg("recibo_worker: receipt generated")
}
