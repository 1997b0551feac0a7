package consumer

import (
	"context"
	"encoding/json"

	"go-bizops/internal/bootstrap"
	"go-bizops/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeSalaryPaid turns salary/bonus payout events into audit-log entries so
// every money movement leaves a trace outside the ledger database.
func ConsumeSalaryPaid(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.salary_paid")
	log.Info("salary paid consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("salary paid consumer stopped")
				return
			}
			log.Error("fetch salary paid message failed", zap.Error(err))
			continue
		}

		var event events.SalaryPaidEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode salary_paid event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "SALARY_PAID",
			Message: "Salary payment recorded",
			Meta: map[string]any{
				"payment_id":   event.PaymentID,
				"company_id":   event.CompanyID,
				"user_id":      event.UserID,
				"amount":       event.Amount,
				"payment_type": event.PaymentType,
				"occurred_at":  event.OccurredAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit salary paid message failed", zap.Error(err))
			continue
		}

		log.Info("salary paid event audited",
			zap.String("payment_id", event.PaymentID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
