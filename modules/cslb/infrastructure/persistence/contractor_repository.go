package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/norcalcba/cslbsync/modules/cslb/domain/contractor"
	"github.com/norcalcba/cslbsync/modules/cslb/infrastructure/persistence/models"
	"github.com/norcalcba/cslbsync/pkg/composables"
)

var (
	ErrContractorNotFound = fmt.Errorf("contractor not found")
)

const (
	contractorFindQuery = `
		SELECT id, license_no, business_name, trade_name,
			address1, address2, city, state, zip, county, phone,
			license_status, license_status_date, license_type,
			issue_date, original_issue_date, expiry_date,
			business_type, bond_amount, bond_company, bond_number,
			workers_comp_carrier, latitude, longitude,
			has_valid_address, has_valid_phone,
			import_batch_id, last_synced_at, created_at, updated_at
		FROM contractors`

	contractorInsertQuery = `
		INSERT INTO contractors (
			license_no, business_name, trade_name,
			address1, address2, city, state, zip, county, phone,
			license_status, license_status_date, license_type,
			issue_date, original_issue_date, expiry_date,
			business_type, bond_amount, bond_company, bond_number,
			workers_comp_carrier, latitude, longitude,
			has_valid_address, has_valid_phone,
			import_batch_id, last_synced_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)
		RETURNING id`

	contractorUpdateQuery = `
		UPDATE contractors
		SET business_name = $1, trade_name = $2,
			address1 = $3, address2 = $4, city = $5, state = $6, zip = $7,
			county = $8, phone = $9,
			license_status = $10, license_status_date = $11, license_type = $12,
			issue_date = $13, original_issue_date = $14, expiry_date = $15,
			business_type = $16, bond_amount = $17, bond_company = $18,
			bond_number = $19, workers_comp_carrier = $20,
			latitude = $21, longitude = $22,
			has_valid_address = $23, has_valid_phone = $24,
			import_batch_id = $25, last_synced_at = $26, updated_at = $27
		WHERE id = $28`

	classificationFindQuery = `
		SELECT id, contractor_id, classification, is_primary, is_active, created_at
		FROM contractor_classifications`

	classificationInsertQuery = `
		INSERT INTO contractor_classifications (contractor_id, classification, is_primary, is_active, created_at)
		VALUES ($1, $2, $3, true, $4)
		ON CONFLICT (contractor_id, classification) DO NOTHING`

	classificationReactivateQuery = `
		UPDATE contractor_classifications
		SET is_active = true
		WHERE contractor_id = $1 AND classification = $2 AND NOT is_active`

	classificationDeactivateQuery = `
		UPDATE contractor_classifications
		SET is_active = false
		WHERE contractor_id = $1 AND is_active AND NOT (classification = ANY($2))`
)

type ContractorRepository struct{}

func NewContractorRepository() contractor.Repository {
	return &ContractorRepository{}
}

func (r *ContractorRepository) GetByLicenseNo(ctx context.Context, licenseNo string) (*contractor.Contractor, error) {
	query := contractorFindQuery + " WHERE license_no = $1"
	contractors, err := r.queryContractors(ctx, query, licenseNo)
	if err != nil {
		return nil, err
	}

	if len(contractors) == 0 {
		return nil, ErrContractorNotFound
	}

	return contractors[0], nil
}

func (r *ContractorRepository) Create(ctx context.Context, c *contractor.Contractor) (*contractor.Contractor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	m := toDBContractor(c)
	var id int64
	if err := tx.QueryRow(
		ctx,
		contractorInsertQuery,
		m.LicenseNo,
		m.BusinessName,
		m.TradeName,
		m.Address1,
		m.Address2,
		m.City,
		m.State,
		m.Zip,
		m.County,
		m.Phone,
		m.LicenseStatus,
		m.LicenseStatusDate,
		m.LicenseType,
		m.IssueDate,
		m.OriginalIssueDate,
		m.ExpiryDate,
		m.BusinessType,
		m.BondAmount,
		m.BondCompany,
		m.BondNumber,
		m.WorkersCompCarrier,
		m.Latitude,
		m.Longitude,
		m.HasValidAddress,
		m.HasValidPhone,
		m.ImportBatchID,
		m.LastSyncedAt,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "insert contractor")
	}

	created := *c
	created.ID = id
	return &created, nil
}

func (r *ContractorRepository) Update(ctx context.Context, c *contractor.Contractor) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	m := toDBContractor(c)
	tag, err := tx.Exec(
		ctx,
		contractorUpdateQuery,
		m.BusinessName,
		m.TradeName,
		m.Address1,
		m.Address2,
		m.City,
		m.State,
		m.Zip,
		m.County,
		m.Phone,
		m.LicenseStatus,
		m.LicenseStatusDate,
		m.LicenseType,
		m.IssueDate,
		m.OriginalIssueDate,
		m.ExpiryDate,
		m.BusinessType,
		m.BondAmount,
		m.BondCompany,
		m.BondNumber,
		m.WorkersCompCarrier,
		m.Latitude,
		m.Longitude,
		m.HasValidAddress,
		m.HasValidPhone,
		m.ImportBatchID,
		m.LastSyncedAt,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update contractor")
	}
	if tag.RowsAffected() == 0 {
		return ErrContractorNotFound
	}
	return nil
}

func (r *ContractorRepository) AddClassification(ctx context.Context, contractorID int64, code string, isPrimary bool) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, classificationInsertQuery, contractorID, code, isPrimary, nowUTC())
	if err != nil {
		return false, errors.Wrap(err, "insert classification")
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Existing pair: re-adding is a no-op, but a previously deactivated pair
	// that reappears in the source becomes active again.
	if _, err := tx.Exec(ctx, classificationReactivateQuery, contractorID, code); err != nil {
		return false, errors.Wrap(err, "reactivate classification")
	}
	return false, nil
}

func (r *ContractorRepository) Classifications(ctx context.Context, contractorID int64) ([]contractor.Classification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := classificationFindQuery + " WHERE contractor_id = $1 ORDER BY id"
	rows, err := tx.Query(ctx, query, contractorID)
	if err != nil {
		return nil, errors.Wrap(err, "query classifications")
	}
	defer rows.Close()

	var out []contractor.Classification
	for rows.Next() {
		var m models.ContractorClassification
		if err := rows.Scan(
			&m.ID,
			&m.ContractorID,
			&m.Classification,
			&m.IsPrimary,
			&m.IsActive,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan classification")
		}
		out = append(out, *toDomainClassification(&m))
	}
	return out, rows.Err()
}

func (r *ContractorRepository) DeactivateClassificationsExcept(ctx context.Context, contractorID int64, keep []string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	if keep == nil {
		keep = []string{}
	}
	tag, err := tx.Exec(ctx, classificationDeactivateQuery, contractorID, keep)
	if err != nil {
		return 0, errors.Wrap(err, "deactivate classifications")
	}
	return tag.RowsAffected(), nil
}

func (r *ContractorRepository) queryContractors(ctx context.Context, query string, args ...any) ([]*contractor.Contractor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query contractors")
	}
	defer rows.Close()

	var out []*contractor.Contractor
	for rows.Next() {
		var m models.Contractor
		if err := rows.Scan(
			&m.ID,
			&m.LicenseNo,
			&m.BusinessName,
			&m.TradeName,
			&m.Address1,
			&m.Address2,
			&m.City,
			&m.State,
			&m.Zip,
			&m.County,
			&m.Phone,
			&m.LicenseStatus,
			&m.LicenseStatusDate,
			&m.LicenseType,
			&m.IssueDate,
			&m.OriginalIssueDate,
			&m.ExpiryDate,
			&m.BusinessType,
			&m.BondAmount,
			&m.BondCompany,
			&m.BondNumber,
			&m.WorkersCompCarrier,
			&m.Latitude,
			&m.Longitude,
			&m.HasValidAddress,
			&m.HasValidPhone,
			&m.ImportBatchID,
			&m.LastSyncedAt,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan contractor")
		}
		c, err := toDomainContractor(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
