package ports

import "context"

// HealthChecker verifies connectivity of one backing dependency.
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}
