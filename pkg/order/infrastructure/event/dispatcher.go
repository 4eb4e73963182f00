package event

import (
	log "github.com/sirupsen/logrus"

	"orderservice/pkg/common/domain"
)

// NewLogDispatcher returns a dispatcher that records every domain event in the
// service log.
func NewLogDispatcher(logger log.FieldLogger) domain.EventDispatcher {
	return &logDispatcher{logger: logger}
}

type logDispatcher struct {
	logger log.FieldLogger
}

func (d *logDispatcher) Dispatch(event domain.Event) error {
	d.logger.WithFields(log.Fields{
		"type":    event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}
