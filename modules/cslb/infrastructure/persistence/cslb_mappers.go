package persistence

import (
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/norcalcba/cslbsync/modules/cslb/domain/contractor"
	"github.com/norcalcba/cslbsync/modules/cslb/domain/importbatch"
	"github.com/norcalcba/cslbsync/modules/cslb/infrastructure/persistence/models"
	"github.com/norcalcba/cslbsync/pkg/mapping"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

func pgDateOnlyUTC(t *time.Time) pgtype.Date {
	if t == nil || t.IsZero() {
		return pgtype.Date{}
	}
	u := t.UTC()
	y, m, d := u.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func pgDateToPointer(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func decimalPointerToNullString(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullStringToDecimalPointer(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toDBContractor(c *contractor.Contractor) *models.Contractor {
	return &models.Contractor{
		ID:                 c.ID,
		LicenseNo:          c.LicenseNo,
		BusinessName:       mapping.PointerToSQLNullString(c.BusinessName),
		TradeName:          mapping.PointerToSQLNullString(c.TradeName),
		Address1:           mapping.PointerToSQLNullString(c.Address1),
		Address2:           mapping.PointerToSQLNullString(c.Address2),
		City:               mapping.PointerToSQLNullString(c.City),
		State:              mapping.PointerToSQLNullString(c.State),
		Zip:                mapping.PointerToSQLNullString(c.Zip),
		County:             mapping.PointerToSQLNullString(c.County),
		Phone:              mapping.PointerToSQLNullString(c.Phone),
		LicenseStatus:      mapping.PointerToSQLNullString(c.LicenseStatus),
		LicenseStatusDate:  pgDateOnlyUTC(c.LicenseStatusDate),
		LicenseType:        mapping.PointerToSQLNullString(c.LicenseType),
		IssueDate:          pgDateOnlyUTC(c.IssueDate),
		OriginalIssueDate:  pgDateOnlyUTC(c.OriginalIssueDate),
		ExpiryDate:         pgDateOnlyUTC(c.ExpiryDate),
		BusinessType:       mapping.PointerToSQLNullString(c.BusinessType),
		BondAmount:         decimalPointerToNullString(c.BondAmount),
		BondCompany:        mapping.PointerToSQLNullString(c.BondCompany),
		BondNumber:         mapping.PointerToSQLNullString(c.BondNumber),
		WorkersCompCarrier: mapping.PointerToSQLNullString(c.WorkersCompCarrier),
		Latitude:           decimalPointerToNullString(c.Latitude),
		Longitude:          decimalPointerToNullString(c.Longitude),
		HasValidAddress:    c.HasValidAddress,
		HasValidPhone:      c.HasValidPhone,
		ImportBatchID:      mapping.PointerToSQLNullString(c.ImportBatchID),
		LastSyncedAt:       c.LastSyncedAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toDomainContractor(m *models.Contractor) (*contractor.Contractor, error) {
	bondAmount, err := nullStringToDecimalPointer(m.BondAmount)
	if err != nil {
		return nil, errors.Wrap(err, "bond_amount")
	}
	latitude, err := nullStringToDecimalPointer(m.Latitude)
	if err != nil {
		return nil, errors.Wrap(err, "latitude")
	}
	longitude, err := nullStringToDecimalPointer(m.Longitude)
	if err != nil {
		return nil, errors.Wrap(err, "longitude")
	}

	return &contractor.Contractor{
		ID:                 m.ID,
		LicenseNo:          m.LicenseNo,
		BusinessName:       mapping.SQLNullStringToPointer(m.BusinessName),
		TradeName:          mapping.SQLNullStringToPointer(m.TradeName),
		Address1:           mapping.SQLNullStringToPointer(m.Address1),
		Address2:           mapping.SQLNullStringToPointer(m.Address2),
		City:               mapping.SQLNullStringToPointer(m.City),
		State:              mapping.SQLNullStringToPointer(m.State),
		Zip:                mapping.SQLNullStringToPointer(m.Zip),
		County:             mapping.SQLNullStringToPointer(m.County),
		Phone:              mapping.SQLNullStringToPointer(m.Phone),
		LicenseStatus:      mapping.SQLNullStringToPointer(m.LicenseStatus),
		LicenseStatusDate:  pgDateToPointer(m.LicenseStatusDate),
		LicenseType:        mapping.SQLNullStringToPointer(m.LicenseType),
		IssueDate:          pgDateToPointer(m.IssueDate),
		OriginalIssueDate:  pgDateToPointer(m.OriginalIssueDate),
		ExpiryDate:         pgDateToPointer(m.ExpiryDate),
		BusinessType:       mapping.SQLNullStringToPointer(m.BusinessType),
		BondAmount:         bondAmount,
		BondCompany:        mapping.SQLNullStringToPointer(m.BondCompany),
		BondNumber:         mapping.SQLNullStringToPointer(m.BondNumber),
		WorkersCompCarrier: mapping.SQLNullStringToPointer(m.WorkersCompCarrier),
		Latitude:           latitude,
		Longitude:          longitude,
		HasValidAddress:    m.HasValidAddress,
		HasValidPhone:      m.HasValidPhone,
		ImportBatchID:      mapping.SQLNullStringToPointer(m.ImportBatchID),
		LastSyncedAt:       m.LastSyncedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

func toDomainClassification(m *models.ContractorClassification) *contractor.Classification {
	return &contractor.Classification{
		ID:           m.ID,
		ContractorID: m.ContractorID,
		Code:         m.Classification,
		IsPrimary:    m.IsPrimary,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

func toDBBatch(b *importbatch.Batch) *models.ImportBatch {
	return &models.ImportBatch{
		BatchID:        b.BatchID,
		RunID:          b.RunID.String(),
		BatchDate:      pgDateOnlyUTC(&b.BatchDate),
		ImportType:     b.ImportType,
		Status:         b.Status,
		StartedAt:      b.StartedAt,
		CompletedAt:    mapping.PointerToSQLNullTime(b.CompletedAt),
		TotalRecords:   b.TotalRecords,
		NewRecords:     b.NewRecords,
		UpdatedRecords: b.UpdatedRecords,
		ErrorRecords:   b.ErrorRecords,
		ErrorLog:       mapping.PointerToSQLNullString(b.ErrorLog),
	}
}

func toDomainBatch(m *models.ImportBatch) (*importbatch.Batch, error) {
	runID, err := uuid.Parse(m.RunID)
	if err != nil {
		return nil, errors.Wrap(err, "run_id")
	}
	batchDate := pgDateToPointer(m.BatchDate)
	if batchDate == nil {
		return nil, errors.New("batch_date is null")
	}

	return &importbatch.Batch{
		BatchID:        m.BatchID,
		RunID:          runID,
		BatchDate:      *batchDate,
		ImportType:     m.ImportType,
		Status:         m.Status,
		StartedAt:      m.StartedAt,
		CompletedAt:    mapping.SQLNullTimeToPointer(m.CompletedAt),
		TotalRecords:   m.TotalRecords,
		NewRecords:     m.NewRecords,
		UpdatedRecords: m.UpdatedRecords,
		ErrorRecords:   m.ErrorRecords,
		ErrorLog:       mapping.SQLNullStringToPointer(m.ErrorLog),
	}, nil
}
