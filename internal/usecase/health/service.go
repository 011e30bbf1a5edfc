// Package health reports whether the index store and the responder are reachable.
package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means answers fall back to templates; retrieval still works.
	Degraded Status = "degraded"
	// Unhealthy means the index store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names in the report.
const (
	ComponentDatabase  = "database"
	ComponentResponder = "responder"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	responder ResponderChecker
}

// New creates a Service. responder can be nil.
func New(db DBPinger, responder ResponderChecker) *Service {
	return &Service{db: db, responder: responder}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)
	checks := make(map[string]CheckResult, 2)
	status := Healthy

	checks[ComponentDatabase] = CheckOK
	if err := s.db.Ping(ctx); err != nil {
		log.Warn("database health check failed", zap.Error(err))
		checks[ComponentDatabase] = CheckError
		status = Unhealthy
	}

	if s.responder != nil {
		checks[ComponentResponder] = CheckOK
		if err := s.responder.HealthCheck(ctx); err != nil {
			log.Warn("responder health check failed", zap.Error(err))
			checks[ComponentResponder] = CheckError
			if status == Healthy {
				status = Degraded
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
