package worker

import (
	"context"
	"encoding/json"
	"time"

	"feedforge/internal/config"
	"feedforge/internal/events"
	"feedforge/internal/feed/generator"
	"feedforge/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Worker consumes feed events and drives generation runs. One event triggers
// a full run; the generator itself pages through batches and persists
// progress, so a crashed run resumes where it stopped.
type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	generator *generator.Generator
}

func New(cfg *config.Config, logger *logger.Logger, gen *generator.Generator) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "feedforge-worker",
		Topic:          cfg.FeedTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		generator: gen,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for feed events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			if err == context.DeadlineExceeded {
				continue
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.process(event); err != nil {
			w.logger.Error("Failed to process %s for feed %s: %v", event.Type, event.FeedID, err)
		}
	}
}

func (w *Worker) process(event events.Event) error {
	switch event.Type {
	case events.TypeFeedGenerate:
		w.logger.Info("Generating feed %s", event.FeedID)
		return w.generator.Run(context.Background(), event.FeedID)
	case events.TypeFeedCancel:
		// cancellation is a status flip; the running generator notices it at
		// the next batch boundary
		w.logger.Info("Cancel requested for feed %s", event.FeedID)
		return nil
	default:
		w.logger.Debug("Ignoring event type %s", event.Type)
		return nil
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
