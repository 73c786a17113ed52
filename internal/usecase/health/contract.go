package health

import "context"

// DBPinger checks document store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RecognizerChecker checks the remote entity recognizer. Offline recognizers
// have nothing to check and pass nil instead.
type RecognizerChecker interface {
	HealthCheck(ctx context.Context) error
}
