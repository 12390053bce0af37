package events

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/config"
)

// NewPublisher builds the publisher selected by cfg.Broker.
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Broker {
	case "", "log":
		return NewLogPublisher(log.StandardLogger()), nil
	case "rabbitmq":
		return NewRabbitPublisher(cfg.URL, cfg.Exchange)
	case "kafka":
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic), nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Broker)
	}
}
