package worker

// impressao_worker.go
// Processes cupom print jobs from QueueImpressao: generates the PDF copy,
// sends the text to the thermal printer bridge and, when the customer left an
// e-mail, chains an email job. The sale itself finished long before any of
// this runs — print failures are retried in background, never surfaced to
// the checkout flow.

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/infra"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/receipt"
)

// ImpressaoJobPayload is the job envelope sent to QueueImpressao.
// Tentativa counts delivery attempts for the retry/DLQ policy.
type ImpressaoJobPayload struct {
	Dados        receipt.Dados `json:"dados"`
	Texto        string        `json:"texto"`
	ClienteEmail *string       `json:"cliente_email,omitempty"`
	Tentativa    int           `json:"tentativa"`
}

// ImpressaoWorker drives the printer bridge and the PDF archive.
type ImpressaoWorker struct {
	impressora     *infra.ImpressoraClient
	dispatcher     *Dispatcher
	rdb            *redis.Client
	loja           receipt.Loja
	pdfStoragePath string
}

func NewImpressaoWorker(
	impressora *infra.ImpressoraClient,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	loja receipt.Loja,
	pdfStoragePath string,
) *ImpressaoWorker {
	return &ImpressaoWorker{
		impressora:     impressora,
		dispatcher:     dispatcher,
		rdb:            rdb,
		loja:           loja,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single print job:
//  1. Generate the PDF copy (best effort — the thermal print matters more)
//  2. POST the cupom text to the printer bridge
//  3. On bridge failure, schedule a retry (capped, then DLQ)
//  4. Chain an email job when the customer wants the cupom mailed
func (w *ImpressaoWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ImpressaoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("impressao_worker: invalid payload")
		return
	}

	numero := payload.Dados.Venda.Numero

	pdfPath, err := infra.GerarReciboPDF(w.loja, payload.Dados, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("venda", numero).Msg("impressao_worker: PDF generation failed")
		pdfPath = ""
	}

	if err := w.impressora.Imprimir(ctx, payload.Texto); err != nil {
		log.Warn().Err(err).Str("venda", numero).Int("tentativa", payload.Tentativa).
			Msg("impressao_worker: bridge print failed")
		ScheduleImpressaoRetry(ctx, w.rdb, payload)
		// the email copy still goes out — it does not depend on the bridge
	} else {
		log.Info().Str("venda", numero).Msg("impressao_worker: cupom printed")
	}

	// only on the first attempt — retries would duplicate the e-mail
	if payload.Tentativa == 0 && payload.ClienteEmail != nil && *payload.ClienteEmail != "" {
		emailPayload := EmailJobPayload{
			ToEmail: *payload.ClienteEmail,
			Subject: "Seu cupom — venda " + numero,
			Body:    payload.Texto,
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailPayload); err != nil {
			log.Error().Err(err).Str("venda", numero).Msg("impressao_worker: failed to enqueue email job")
		}
	}
}
