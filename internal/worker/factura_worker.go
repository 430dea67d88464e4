package worker

// factura_worker.go
// Processes invoice jobs from QueueFactura: renders the PDF invoice for a
// sale and, when the customer left an email, enqueues a send job.
// Implements exponential backoff (max 3 retries) around PDF generation since
// the storage path may live on slow network mounts.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/infra"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FacturaJobPayload is the job envelope sent to QueueFactura.
type FacturaJobPayload struct {
	VentaID      string `json:"venta_id"`
	ClienteEmail string `json:"cliente_email,omitempty"`
}

// FacturaWorker renders PDF invoices for completed sales.
type FacturaWorker struct {
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
	negocioNombre  string
}

func NewFacturaWorker(
	ventaRepo repository.VentaRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
	negocioNombre string,
) *FacturaWorker {
	return &FacturaWorker{
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		negocioNombre:  negocioNombre,
	}
}

// Process handles a single factura job:
//  1. Parse FacturaJobPayload from the job envelope
//  2. Fetch the Venta (with items) from DB
//  3. Render the PDF invoice, with backoff
//  4. Optionally enqueue an email job with the PDF attached
func (w *FacturaWorker) Process(ctx context.Context, job Job) {
	var payload FacturaJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("factura_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("factura_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("factura_worker: venta not found")
		return
	}

	var pdfPath string
	pdfErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateFacturaPDF(venta, w.negocioNombre, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("venta_id", payload.VentaID).
				Msg("factura_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if pdfErr != nil {
		log.Error().Err(pdfErr).Str("venta_id", payload.VentaID).Msg("factura_worker: PDF generation failed after retries")
		SendToDLQ(ctx, w.rdb, QueueFactura, "factura", job.Payload, pdfErr.Error(), job.Attempts+1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("venta_id", payload.VentaID).Msg("factura_worker: PDF generated")

	if payload.ClienteEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: payload.ClienteEmail,
			Subject: fmt.Sprintf("%s — Factura %s", w.negocioNombre, venta.NumeroFactura),
			Body:    fmt.Sprintf("Adjunto encontrarás tu factura.\nTotal: RD$ %s", venta.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", payload.ClienteEmail).Msg("factura_worker: failed to enqueue email")
		}
	}
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
