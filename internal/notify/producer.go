package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mikelabs-llc/schoolgate-pass/internal/config"
)

// Producer publishes serialized events to the configured broker.
type Producer interface {
	Publish(ctx context.Context, value interface{}) error
	Close() error
}

// NewProducer builds the producer selected by config: "nats", "kafka", or a
// nop producer when the broker is unset.
func NewProducer(cfg config.NotifyConfig, logger *slog.Logger) (Producer, error) {
	switch cfg.Broker {
	case "nats":
		return NewNATSProducer(cfg.URL, cfg.Subject, logger)
	case "kafka":
		return NewKafkaProducer(cfg.Brokers, cfg.Topic, logger)
	case "":
		logger.Info("notifications disabled: no broker configured")
		return nopProducer{}, nil
	default:
		return nil, fmt.Errorf("unknown notify broker %q", cfg.Broker)
	}
}

type nopProducer struct{}

func (nopProducer) Publish(ctx context.Context, value interface{}) error { return nil }
func (nopProducer) Close() error                                         { return nil }
