package importbatch

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, b *Batch) error
	// Finalize writes the terminal status, completion time, counters and
	// error log. It only applies to a batch still PROCESSING; finalizing a
	// terminal batch is an error.
	Finalize(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, batchID string) (*Batch, error)
	// MarkStale fails every PROCESSING batch started before cutoff (orphans
	// left by a crashed process) and reports how many were swept.
	MarkStale(ctx context.Context, cutoff time.Time, reason string) (int64, error)
}
