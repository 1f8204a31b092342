package consumer

import (
	"context"
	"encoding/json"

	"go-planillas/internal/events"
	"go-planillas/internal/planilla"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePlanillaProcesada marks the detail lines of a processed planilla as
// notified. Marking is idempotent (only lines still flagged 'N' flip), so
// redelivered messages are harmless.
func ConsumePlanillaProcesada(
	ctx context.Context,
	reader *kafkago.Reader,
	planillaRepo planilla.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.planilla_procesada")
	log.Info("planilla procesada consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("planilla procesada consumer stopped")
				return
			}
			log.Error("fetch planilla procesada message failed", zap.Error(err))
			continue
		}

		var event events.PlanillaProcesadaEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode planilla_procesada event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		notificados, err := planillaRepo.MarkDetallesNotificados(ctx, event.PlanillaID)
		if err != nil {
			// Leave the message uncommitted so it is retried
			log.Error("mark detalles notificados failed",
				zap.String("planilla_id", event.PlanillaID),
				zap.Error(err),
			)
			continue
		}

		log.Info("detalles marked as notified",
			zap.String("planilla_id", event.PlanillaID),
			zap.String("empresa_id", event.EmpresaID),
			zap.Int64("detalles", notificados),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit planilla procesada message failed", zap.Error(err))
		}
	}
}
