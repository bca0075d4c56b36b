package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/EnmerSandoval/gasolinera/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertas when a sale
// leaves a tank at or below its minimum-stock threshold.
type AlertaStockPayload struct {
	SucursalNombre  string `json:"sucursal_nombre"`
	TanqueCodigo    string `json:"tanque_codigo"`
	TipoCombustible string `json:"tipo_combustible"`
	StockActual     string `json:"stock_actual"`
	StockMinimo     string `json:"stock_minimo"`
}

// AlertaWorker mails low-stock alerts to the supervisor mailbox.
type AlertaWorker struct {
	mailer *infra.Mailer
	toAddr string
}

func NewAlertaWorker(mailer *infra.Mailer, toAddr string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, toAddr: toAddr}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) {
	var p AlertaStockPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if w.toAddr == "" {
		log.Warn().Msg("alerta_worker: ALERT_EMAIL not configured — skipping")
		return
	}

	subject := fmt.Sprintf("Stock bajo: tanque %s (%s) en %s", p.TanqueCodigo, p.TipoCombustible, p.SucursalNombre)
	body := fmt.Sprintf(
		"El tanque %s (%s) de la sucursal %s quedó en %s galones, por debajo del mínimo de %s galones.\n\nProgramar pedido al proveedor.",
		p.TanqueCodigo, p.TipoCombustible, p.SucursalNombre, p.StockActual, p.StockMinimo)

	if err := w.mailer.SendAlerta(w.toAddr, subject, body); err != nil {
		log.Error().Err(err).Str("tanque", p.TanqueCodigo).Msg("alerta_worker: failed to send alert")
		return
	}
	log.Info().Str("tanque", p.TanqueCodigo).Str("to", w.toAddr).Msg("alerta_worker: alert sent")
}
