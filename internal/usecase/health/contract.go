package health

import "context"

// DBPinger checks index store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ResponderChecker checks the language-model responder. Optional.
type ResponderChecker interface {
	HealthCheck(ctx context.Context) error
}
