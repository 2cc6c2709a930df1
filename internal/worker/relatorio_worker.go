package worker

// relatorio_worker.go
// Processes closing-report jobs from QueueRelatorio: renders the caixa
// closing report as PDF and mails it to the configured address.
// SMTP sends retry with exponential backoff before the job lands in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luccTech/caixa-formatura/internal/infra"
	"github.com/luccTech/caixa-formatura/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RelatorioJobPayload is the job envelope sent to QueueRelatorio.
type RelatorioJobPayload struct {
	CaixaID string `json:"caixa_id"`
}

// RelatorioWorker renders and mails the caixa closing report.
type RelatorioWorker struct {
	caixaRepo      repository.CaixaRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
	reportEmail    string
}

func NewRelatorioWorker(
	caixaRepo repository.CaixaRepository,
	mailer *infra.Mailer,
	rdb *redis.Client,
	pdfStoragePath string,
	reportEmail string,
) *RelatorioWorker {
	return &RelatorioWorker{
		caixaRepo:      caixaRepo,
		mailer:         mailer,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		reportEmail:    reportEmail,
	}
}

// Process handles one closing-report job:
//  1. Load the caixa with its vendas
//  2. Render the closing report PDF
//  3. Mail it to the configured report address (3 attempts, backoff 1s, 2s)
func (w *RelatorioWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RelatorioJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("relatorio_worker: invalid payload")
		return
	}

	caixaID, err := uuid.Parse(payload.CaixaID)
	if err != nil {
		log.Error().Str("caixa_id", payload.CaixaID).Msg("relatorio_worker: invalid caixa_id")
		return
	}

	caixa, err := w.caixaRepo.FindByID(ctx, caixaID)
	if err != nil {
		log.Error().Err(err).Str("caixa_id", payload.CaixaID).Msg("relatorio_worker: caixa not found")
		SendToDLQ(ctx, w.rdb, QueueRelatorio, "relatorio", raw, "caixa not found: "+err.Error(), 1)
		return
	}

	pdfPath, err := infra.GerarRelatorioCaixaPDF(caixa, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("caixa_id", payload.CaixaID).Msg("relatorio_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueRelatorio, "relatorio", raw, "pdf generation failed: "+err.Error(), 1)
		return
	}
	log.Info().Str("caixa_id", payload.CaixaID).Str("pdf", pdfPath).Msg("relatorio_worker: report generated")

	if w.reportEmail == "" {
		log.Debug().Msg("relatorio_worker: no report email configured — skipping send")
		return
	}

	subject := fmt.Sprintf("Fechamento de caixa — %s", caixa.Nome)
	body := fmt.Sprintf(
		"Caixa %s fechado.\nTotal de vendas: R$%s em %d vendas.\nRelatório completo em anexo.",
		caixa.Nome, caixa.TotalVendas.StringFixed(2), len(caixa.Vendas),
	)

	const maxAttempts = 3
	sendErr := withRetry(ctx, maxAttempts, func(attempt int) error {
		if err := w.mailer.SendRelatorio(w.reportEmail, subject, body, pdfPath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("caixa_id", payload.CaixaID).
				Msg("relatorio_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("caixa_id", payload.CaixaID).Msg("relatorio_worker: send failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueRelatorio, "relatorio", raw, "smtp send failed: "+sendErr.Error(), maxAttempts)
		return
	}

	log.Info().Str("caixa_id", payload.CaixaID).Str("to", w.reportEmail).Msg("relatorio_worker: report mailed")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
