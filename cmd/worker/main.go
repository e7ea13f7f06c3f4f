package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jeremyjsx/quill/internal/config"
	"github.com/jeremyjsx/quill/internal/events"
	"github.com/jeremyjsx/quill/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load(logger.New("info"))
	log := logger.New(cfg.LogLevel).With().Str("service", "quill-worker").Logger()

	if cfg.RabbitMQURL == "" {
		log.Fatal().Msg("RABBITMQ_URL is required")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open channel")
	}
	defer ch.Close()

	q, err := events.DeclareQueue(ch)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to declare queue")
	}

	deliveries, err := ch.Consume(q.Name, "notifications-worker", false, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start consuming")
	}

	log.Info().Str("queue", q.Name).Msg("notifications worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Info().Msg("worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Warn().Msg("delivery channel closed")
				return
			}
			handlePostPublished(log, d)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handlePostPublished(log zerolog.Logger, d amqp.Delivery) {
	handle(log, d.Body, d)
}

func handle(log zerolog.Logger, body []byte, ack acknowledger) {
	e, err := events.Decode(body)
	if err != nil {
		log.Error().Err(err).Msg("invalid event body")
		_ = ack.Nack(false, false)
		return
	}
	if e.Type != events.TypePostPublished {
		log.Debug().Str("type", e.Type).Msg("ignoring event type")
		_ = ack.Ack(false)
		return
	}
	log.Info().
		Str("post_id", e.Payload.PostID).
		Str("title", e.Payload.Title).
		Strs("tags", e.Payload.Tags).
		Time("published_at", e.Timestamp).
		Msg("post published event received")

	if err := ack.Ack(false); err != nil {
		log.Error().Err(err).Msg("failed to ack")
	}
}
