package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/barzda/barbershop-api/pkg/config"
	"github.com/barzda/barbershop-api/pkg/events"
	"github.com/barzda/barbershop-api/pkg/logger"
)

// Reminder/notification worker: consumes appointment events off NATS so
// the api binary never blocks on downstream notification work.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	err = eventBus.Subscribe(events.AppointmentBooked, func(msg *events.Message) {
		var ev events.AppointmentBookedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("Bad appointment.booked payload", "error", err)
			return
		}
		logger.Info("Appointment booked",
			"appointment_id", ev.AppointmentID,
			"user_id", ev.UserID,
			"start_time", ev.StartTime,
		)
	})
	if err != nil {
		logger.Error("Subscribe failed", "subject", events.AppointmentBooked, "error", err)
		os.Exit(1)
	}

	err = eventBus.Subscribe(events.AppointmentCancelled, func(msg *events.Message) {
		var ev events.AppointmentCancelledEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("Bad appointment.cancelled payload", "error", err)
			return
		}
		logger.Info("Appointment cancelled",
			"appointment_id", ev.AppointmentID,
			"user_id", ev.UserID,
			"start_time", ev.StartTime,
		)
	})
	if err != nil {
		logger.Error("Subscribe failed", "subject", events.AppointmentCancelled, "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker running", "nats_url", cfg.NATS.URL)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down notify worker")
}
