package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/airboeing1212/expense-tracker-api/internal/amqp"
	"github.com/airboeing1212/expense-tracker-api/internal/config"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
)

// expense-worker drains the expense event queue and writes an audit trail
// to the log. It runs alongside the API server as a separate process.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentAMQP,
	})
	log.SetDefault(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set to run the expense worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("Starting expense worker", log.FieldOperation, log.OpStartup,
		"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	counts := map[string]int64{}
	err = client.ConsumeExpenseEvents(ctx, func(msg *amqp.ExpenseEventMessage) error {
		counts[msg.Event]++
		logger.Info("Expense event received",
			"event", msg.Event,
			log.FieldExpenseID, msg.ExpenseID,
			log.FieldUserID, msg.UserID,
			"timestamp", msg.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown,
		"created", counts[amqp.EventExpenseCreated],
		"updated", counts[amqp.EventExpenseUpdated],
		"deleted", counts[amqp.EventExpenseDeleted])
}
