package worker

// email_worker.go
// Renders inventory alerts and delivers them by SMTP through a circuit breaker.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KenthE710/antonella-management-server/internal/infra"

	"github.com/rs/zerolog/log"
)

// Sender delivers one email; *infra.Mailer satisfies it.
type Sender interface {
	Send(to []string, subject, text, html string) error
}

// EmailWorker turns alert jobs into emails for the configured recipients.
type EmailWorker struct {
	sender Sender
	cb     *infra.CircuitBreaker
	to     []string
}

// NewEmailWorker accepts a comma separated recipient list.
func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker, destinatarios string) *EmailWorker {
	var to []string
	for _, d := range strings.Split(destinatarios, ",") {
		if d = strings.TrimSpace(d); d != "" {
			to = append(to, d)
		}
	}
	return &EmailWorker{sender: sender, cb: cb, to: to}
}

// Register binds the alert job types to pool.
func (w *EmailWorker) Register(pool *Pool) {
	pool.Handle(JobStockBajo, w.ProcessStockBajo)
	pool.Handle(JobVencimiento, w.ProcessVencimiento)
}

func (w *EmailWorker) ProcessStockBajo(_ context.Context, raw json.RawMessage) error {
	var p StockBajoPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid stock_bajo payload")
		return nil // malformed payloads never succeed; drop instead of retrying
	}
	subject := fmt.Sprintf("Stock bajo: %s", p.Producto)
	body := fmt.Sprintf(
		"El producto %s tiene %d usos restantes (umbral %d).\nUnidades en existencia: %d.\n\nProducto: %s\n",
		p.Producto, p.UsosRestantes, p.Umbral, p.Existencias, p.ProductoID,
	)
	return w.send(subject, body)
}

func (w *EmailWorker) ProcessVencimiento(_ context.Context, raw json.RawMessage) error {
	var p VencimientoPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid vencimiento payload")
		return nil
	}
	subject := fmt.Sprintf("Lote por vencer: %s", p.Producto)
	body := fmt.Sprintf(
		"Un lote de %s vence el %s y aún tiene %d usos disponibles.\n\nLote: %s\nProducto: %s\n",
		p.Producto, p.FeExp.Format("02/01/2006"), p.Restantes, p.LoteID, p.ProductoID,
	)
	return w.send(subject, body)
}

func (w *EmailWorker) send(subject, body string) error {
	if len(w.to) == 0 {
		log.Warn().Str("subject", subject).Msg("email_worker: no recipients configured, skipping")
		return nil
	}
	if err := w.cb.Execute(func() error { return w.sender.Send(w.to, subject, body, "") }); err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}
	log.Info().Str("subject", subject).Strs("to", w.to).Msg("email_worker: alert sent")
	return nil
}
