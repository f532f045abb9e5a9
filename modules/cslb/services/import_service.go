package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/norcalcba/cslbsync/modules/cslb/domain/contractor"
	"github.com/norcalcba/cslbsync/modules/cslb/domain/importbatch"
	"github.com/norcalcba/cslbsync/modules/cslb/infrastructure/persistence"
	"github.com/norcalcba/cslbsync/modules/cslb/normalize"
	"github.com/norcalcba/cslbsync/modules/cslb/transform"
	"github.com/norcalcba/cslbsync/pkg/composables"
)

// ClassificationMode decides what happens to a contractor's classification
// list on update. InsertOnly matches the historical behavior: the list is
// expanded on first insert and never touched again.
type ClassificationMode int

const (
	ClassificationInsertOnly ClassificationMode = iota
	ClassificationResync
)

const errorLogLimit = 50

// Supplemental file columns.
const (
	colPersonName  = "PERSON_NAME"
	colInsurerName = "INSURER_NAME"
)

type ImportOptions struct {
	ImportType      string
	Classifications ClassificationMode
}

type Result struct {
	Batch *importbatch.Batch

	MasterRows      int
	PersonnelRows   int
	WorkersCompRows int

	RowErrors []*RowError
}

type ImportService struct {
	contractors contractor.Repository
	batches     importbatch.Repository
	geocoder    Geocoder
	throttle    time.Duration
	logger      *logrus.Logger

	// transaction runners, swappable in tests
	inTx    func(context.Context, func(context.Context) error) error
	inRowTx func(context.Context, func(context.Context) error) error
}

func NewImportService(
	contractors contractor.Repository,
	batches importbatch.Repository,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		contractors: contractors,
		batches:     batches,
		logger:      logger,
		inTx:        composables.InTx,
		inRowTx:     composables.InNestedTx,
	}
}

// WithGeocoder enables best-effort geocoding with a cooperative delay between
// calls.
func (s *ImportService) WithGeocoder(g Geocoder, throttle time.Duration) *ImportService {
	s.geocoder = g
	s.throttle = throttle
	return s
}

// Import runs one full batch: ledger start, a single transaction streaming
// every file, ledger finalize. The returned Result is populated even when the
// batch fails. personnel and workersComp may be nil.
func (s *ImportService) Import(
	ctx context.Context,
	master RowSource,
	personnel RowSource,
	workersComp RowSource,
	opts ImportOptions,
) (*Result, error) {
	batch := importbatch.New(opts.ImportType, time.Now())
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, errors.Wrap(err, "start batch ledger")
	}

	res := &Result{Batch: batch}
	log := s.logger.WithFields(logrus.Fields{
		"batch_id": batch.BatchID,
		"run_id":   batch.RunID,
	})
	log.Infof("batch started: type=%s", batch.ImportType)

	runErr := s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.importMaster(txCtx, master, batch, res, opts, log); err != nil {
			return err
		}
		if personnel != nil {
			if err := s.countPersonnel(personnel, batch, res, log); err != nil {
				return err
			}
		}
		if workersComp != nil {
			if err := s.applyWorkersComp(txCtx, workersComp, batch, res, log); err != nil {
				return err
			}
		}
		return nil
	})

	now := time.Now().UTC()
	batch.CompletedAt = &now
	if runErr != nil {
		batch.Status = importbatch.StatusFailed
		batch.ErrorLog = errorLog(runErr, res.RowErrors)
		if ferr := s.batches.Finalize(ctx, batch); ferr != nil {
			log.WithError(ferr).Error("could not mark batch FAILED")
		}
		log.WithError(runErr).Error("batch failed, all rows rolled back")
		return res, runErr
	}

	batch.Status = importbatch.StatusCompleted
	batch.ErrorLog = errorLog(nil, res.RowErrors)
	if err := s.batches.Finalize(ctx, batch); err != nil {
		return res, errors.Wrap(err, "finish batch ledger")
	}
	log.Infof("batch completed: total=%d new=%d updated=%d errors=%d",
		batch.TotalRecords, batch.NewRecords, batch.UpdatedRecords, batch.ErrorRecords)
	return res, nil
}

// ReconcileStale fails PROCESSING ledger rows older than staleAfter. These are
// orphans of crashed runs; a live run younger than the threshold is left alone.
func (s *ImportService) ReconcileStale(ctx context.Context, staleAfter time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)
	reason := "reconciled: batch exceeded " + staleAfter.String() + " in PROCESSING"
	swept, err := s.batches.MarkStale(ctx, cutoff, reason)
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.logger.Warnf("reconciled %d stale PROCESSING batch(es) older than %s", swept, staleAfter)
	}
	return swept, nil
}

func (s *ImportService) importMaster(
	ctx context.Context,
	src RowSource,
	batch *importbatch.Batch,
	res *Result,
	opts ImportOptions,
	log *logrus.Entry,
) error {
	for {
		row, line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Stream failure is batch-level: roll back everything.
			return errors.Wrap(err, src.Name())
		}

		res.MasterRows++
		batch.TotalRecords++

		rec, err := transform.ContractorRecord(row, batch.BatchID)
		if err != nil {
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorTransform, File: src.Name(), Line: line, Err: err,
			})
			continue
		}

		if err := s.upsertRow(ctx, rec, batch, res, opts, log, src.Name(), line); err != nil {
			return err
		}
	}
	log.Infof("%s: %d row(s) processed", src.Name(), res.MasterRows)
	return nil
}

// upsertRow writes one contractor inside a savepoint so a failing row rolls
// back only itself and the batch transaction stays healthy.
func (s *ImportService) upsertRow(
	ctx context.Context,
	rec *transform.Record,
	batch *importbatch.Batch,
	res *Result,
	opts ImportOptions,
	log *logrus.Entry,
	file string,
	line int,
) error {
	var loc *Location
	if s.geocoder != nil && rec.HasValidAddress {
		got, err := s.geocoder.Geocode(ctx, Address{
			Line1: deref(rec.Address1),
			City:  deref(rec.City),
			State: deref(rec.State),
			Zip:   deref(rec.Zip),
		})
		if err != nil {
			// Best effort: the row is stored without coordinates.
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorGeocode, File: file, Line: line, License: rec.LicenseNo, Err: err,
			})
		} else {
			loc = &got
		}
		if s.throttle > 0 {
			time.Sleep(s.throttle)
		}
	}

	err := s.inRowTx(ctx, func(rowCtx context.Context) error {
		existing, err := s.contractors.GetByLicenseNo(rowCtx, rec.LicenseNo)
		switch {
		case err == nil:
			updated := applyRecord(existing, rec, loc)
			if err := s.contractors.Update(rowCtx, updated); err != nil {
				return err
			}
			batch.UpdatedRecords++
			if opts.Classifications == ClassificationResync {
				s.resyncClassifications(rowCtx, existing.ID, rec, batch, res, log, file, line)
			}
			return nil
		case errors.Is(err, persistence.ErrContractorNotFound):
			created, err := s.contractors.Create(rowCtx, applyRecord(&contractor.Contractor{
				LicenseNo: rec.LicenseNo,
				CreatedAt: time.Now().UTC(),
			}, rec, loc))
			if err != nil {
				return err
			}
			batch.NewRecords++
			s.expandClassifications(rowCtx, created.ID, rec.Classifications, batch, res, log, file, line)
			return nil
		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.rowError(batch, res, log, &RowError{
			Kind: RowErrorWrite, File: file, Line: line, License: rec.LicenseNo, Err: err,
		})
	}
	return nil
}

// expandClassifications inserts one association per code; the first code in
// source order is primary. A failing token is logged and skipped, its
// siblings and the parent row stand.
func (s *ImportService) expandClassifications(
	ctx context.Context,
	contractorID int64,
	codes []string,
	batch *importbatch.Batch,
	res *Result,
	log *logrus.Entry,
	file string,
	line int,
) {
	for i, code := range codes {
		err := s.inRowTx(ctx, func(tokenCtx context.Context) error {
			_, err := s.contractors.AddClassification(tokenCtx, contractorID, code, i == 0)
			return err
		})
		if err != nil {
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorClassification, File: file, Line: line, Err: errors.Wrap(err, code),
			})
		}
	}
}

func (s *ImportService) resyncClassifications(
	ctx context.Context,
	contractorID int64,
	rec *transform.Record,
	batch *importbatch.Batch,
	res *Result,
	log *logrus.Entry,
	file string,
	line int,
) {
	s.expandClassifications(ctx, contractorID, rec.Classifications, batch, res, log, file, line)
	deactivated, err := s.contractors.DeactivateClassificationsExcept(ctx, contractorID, rec.Classifications)
	if err != nil {
		s.rowError(batch, res, log, &RowError{
			Kind: RowErrorClassification, File: file, Line: line, License: rec.LicenseNo, Err: err,
		})
		return
	}
	if deactivated > 0 {
		log.Debugf("license %s: deactivated %d stale classification(s)", rec.LicenseNo, deactivated)
	}
}

func (s *ImportService) countPersonnel(
	src RowSource,
	batch *importbatch.Batch,
	res *Result,
	log *logrus.Entry,
) error {
	for {
		row, line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, src.Name())
		}
		if strings.TrimSpace(row[transform.ColLicenseNumber]) == "" {
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorTransform, File: src.Name(), Line: line,
				Err: transform.ErrMissingLicense,
			})
			continue
		}
		res.PersonnelRows++
	}
	log.Infof("%s: %d row(s) counted", src.Name(), res.PersonnelRows)
	return nil
}

// applyWorkersComp attaches the carrier to each referenced contractor. Rows
// naming an unknown license are orphans, logged and skipped.
func (s *ImportService) applyWorkersComp(
	ctx context.Context,
	src RowSource,
	batch *importbatch.Batch,
	res *Result,
	log *logrus.Entry,
) error {
	for {
		row, line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, src.Name())
		}

		licenseNo := strings.TrimSpace(row[transform.ColLicenseNumber])
		if licenseNo == "" {
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorTransform, File: src.Name(), Line: line,
				Err: transform.ErrMissingLicense,
			})
			continue
		}

		err = s.inRowTx(ctx, func(rowCtx context.Context) error {
			existing, err := s.contractors.GetByLicenseNo(rowCtx, licenseNo)
			if err != nil {
				return err
			}
			carrier := normalize.BusinessName(row[colInsurerName])
			existing.WorkersCompCarrier = optional(carrier)
			existing.UpdatedAt = time.Now().UTC()
			return s.contractors.Update(rowCtx, existing)
		})
		switch {
		case err == nil:
			res.WorkersCompRows++
		case errors.Is(err, persistence.ErrContractorNotFound):
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorOrphan, File: src.Name(), Line: line, License: licenseNo, Err: err,
			})
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			s.rowError(batch, res, log, &RowError{
				Kind: RowErrorWrite, File: src.Name(), Line: line, License: licenseNo, Err: err,
			})
		}
	}
	log.Infof("%s: %d row(s) applied", src.Name(), res.WorkersCompRows)
	return nil
}

func (s *ImportService) rowError(batch *importbatch.Batch, res *Result, log *logrus.Entry, re *RowError) {
	batch.ErrorRecords++
	res.RowErrors = append(res.RowErrors, re)
	log.WithFields(logrus.Fields{
		"file":    re.File,
		"line":    re.Line,
		"license": re.License,
		"kind":    re.Kind,
	}).Warn(re.Err)
}

func applyRecord(c *contractor.Contractor, rec *transform.Record, loc *Location) *contractor.Contractor {
	now := time.Now().UTC()
	out := *c
	out.BusinessName = rec.BusinessName
	out.TradeName = rec.TradeName
	out.Address1 = rec.Address1
	out.Address2 = rec.Address2
	out.City = rec.City
	out.State = rec.State
	out.Zip = rec.Zip
	out.County = rec.County
	out.Phone = rec.Phone
	out.LicenseStatus = rec.LicenseStatus
	out.LicenseStatusDate = rec.LicenseStatusDate
	out.LicenseType = rec.LicenseType
	out.IssueDate = rec.IssueDate
	out.OriginalIssueDate = rec.OriginalIssueDate
	out.ExpiryDate = rec.ExpiryDate
	out.BusinessType = rec.BusinessType
	out.BondAmount = rec.BondAmount
	out.BondCompany = rec.BondCompany
	out.BondNumber = rec.BondNumber
	out.HasValidAddress = rec.HasValidAddress
	out.HasValidPhone = rec.HasValidPhone
	out.ImportBatchID = &rec.ImportBatchID
	out.LastSyncedAt = now
	out.UpdatedAt = now
	if loc != nil {
		lat := decimal.NewFromFloat(loc.Latitude)
		lng := decimal.NewFromFloat(loc.Longitude)
		out.Latitude = &lat
		out.Longitude = &lng
	}
	return &out
}

func errorLog(batchErr error, rowErrors []*RowError) *string {
	var lines []string
	if batchErr != nil {
		lines = append(lines, batchErr.Error())
	}
	for i, re := range rowErrors {
		if i == errorLogLimit {
			lines = append(lines, "... truncated")
			break
		}
		lines = append(lines, re.Error())
	}
	if len(lines) == 0 {
		return nil
	}
	joined := strings.Join(lines, "\n")
	return &joined
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
