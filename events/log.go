package events

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogPublisher writes events to the process log. It is the default when no
// broker is configured.
type LogPublisher struct {
	logger log.FieldLogger
}

// NewLogPublisher uses the standard logger when logger is nil.
func NewLogPublisher(logger log.FieldLogger) *LogPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	fields := log.Fields{
		"event":       event.Type,
		"order_id":    event.OrderID,
		"bill_number": event.BillNumber,
	}
	for k, v := range event.Payload {
		fields["payload_"+k] = v
	}
	p.logger.WithFields(fields).Info("event published")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
