package interfaces

import (
	"context"
	"time"
)

// IProcessedEventStore remembers provider notifications that were fully
// handled so redeliveries skip the provider lookup.
type IProcessedEventStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) error
}
