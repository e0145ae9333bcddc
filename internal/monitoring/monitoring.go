package monitoring

import (
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Service records operational events. Currently log-only; the labels are
// shaped so a metrics backend can be attached without touching call sites.
type Service struct{}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	ts := time.Now()
	nuts.L.Infof("[Monitoring] Event %s recorded at %v with labels: %v", eventName, ts, labels)
}
