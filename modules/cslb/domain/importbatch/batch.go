package importbatch

import (
	"time"

	"github.com/google/uuid"
)

// Status is monotonic: PROCESSING -> {COMPLETED, FAILED}. A batch never
// leaves a terminal state.
const (
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Batch is one ledger row per pipeline invocation.
type Batch struct {
	BatchID    string
	RunID      uuid.UUID
	BatchDate  time.Time
	ImportType string
	Status     string

	StartedAt   time.Time
	CompletedAt *time.Time

	TotalRecords   int
	NewRecords     int
	UpdatedRecords int
	ErrorRecords   int

	ErrorLog *string
}

// NewID derives the batch identifier from the start time. Identifiers are
// assumed unique per process invocation.
func NewID(startedAt time.Time) string {
	return "CSLB_" + startedAt.UTC().Format("20060102_150405")
}

func New(importType string, startedAt time.Time) *Batch {
	u := startedAt.UTC()
	return &Batch{
		BatchID:    NewID(u),
		RunID:      uuid.New(),
		BatchDate:  time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC),
		ImportType: importType,
		Status:     StatusProcessing,
		StartedAt:  u,
	}
}
