package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"

	"github.com/norcalcba/cslbsync/modules/cslb/domain/importbatch"
	"github.com/norcalcba/cslbsync/modules/cslb/infrastructure/persistence/models"
	"github.com/norcalcba/cslbsync/pkg/composables"
)

var (
	ErrBatchNotFound = fmt.Errorf("import batch not found")
	// ErrBatchFinalized means the batch already reached COMPLETED or FAILED.
	// Terminal states are never overwritten.
	ErrBatchFinalized = fmt.Errorf("import batch already finalized")
)

const (
	batchFindQuery = `
		SELECT batch_id, run_id, batch_date, import_type, status,
			started_at, completed_at,
			total_records, new_records, updated_records, error_records,
			error_log
		FROM import_batches`

	batchInsertQuery = `
		INSERT INTO import_batches (
			batch_id, run_id, batch_date, import_type, status,
			started_at, completed_at,
			total_records, new_records, updated_records, error_records,
			error_log
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	batchFinalizeQuery = `
		UPDATE import_batches
		SET status = $1, completed_at = $2,
			total_records = $3, new_records = $4, updated_records = $5,
			error_records = $6, error_log = $7
		WHERE batch_id = $8 AND status = 'PROCESSING'`

	batchMarkStaleQuery = `
		UPDATE import_batches
		SET status = 'FAILED', completed_at = $1, error_log = $2
		WHERE status = 'PROCESSING' AND started_at < $3`
)

type ImportBatchRepository struct{}

func NewImportBatchRepository() importbatch.Repository {
	return &ImportBatchRepository{}
}

func (r *ImportBatchRepository) Create(ctx context.Context, b *importbatch.Batch) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	m := toDBBatch(b)
	if _, err := tx.Exec(
		ctx,
		batchInsertQuery,
		m.BatchID,
		m.RunID,
		m.BatchDate,
		m.ImportType,
		m.Status,
		m.StartedAt,
		m.CompletedAt,
		m.TotalRecords,
		m.NewRecords,
		m.UpdatedRecords,
		m.ErrorRecords,
		m.ErrorLog,
	); err != nil {
		return errors.Wrap(err, "insert import batch")
	}
	return nil
}

func (r *ImportBatchRepository) Finalize(ctx context.Context, b *importbatch.Batch) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	m := toDBBatch(b)
	tag, err := tx.Exec(
		ctx,
		batchFinalizeQuery,
		m.Status,
		m.CompletedAt,
		m.TotalRecords,
		m.NewRecords,
		m.UpdatedRecords,
		m.ErrorRecords,
		m.ErrorLog,
		m.BatchID,
	)
	if err != nil {
		return errors.Wrap(err, "finalize import batch")
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, b.BatchID); err != nil {
			return err
		}
		return ErrBatchFinalized
	}
	return nil
}

func (r *ImportBatchRepository) GetByID(ctx context.Context, batchID string) (*importbatch.Batch, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := batchFindQuery + " WHERE batch_id = $1"
	rows, err := tx.Query(ctx, query, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "query import batch")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrBatchNotFound
	}

	var m models.ImportBatch
	if err := rows.Scan(
		&m.BatchID,
		&m.RunID,
		&m.BatchDate,
		&m.ImportType,
		&m.Status,
		&m.StartedAt,
		&m.CompletedAt,
		&m.TotalRecords,
		&m.NewRecords,
		&m.UpdatedRecords,
		&m.ErrorRecords,
		&m.ErrorLog,
	); err != nil {
		return nil, errors.Wrap(err, "scan import batch")
	}
	return toDomainBatch(&m)
}

func (r *ImportBatchRepository) MarkStale(ctx context.Context, cutoff time.Time, reason string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, batchMarkStaleQuery, nowUTC(), reason, cutoff.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "mark stale batches")
	}
	return tag.RowsAffected(), nil
}
