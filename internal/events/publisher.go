package events

import "context"

// Publisher announces domain events. Callers treat failures as non-fatal.
type Publisher interface {
	PublishPostPublished(ctx context.Context, e PostPublished) error
}
