package contractor

import "context"

type Repository interface {
	GetByLicenseNo(ctx context.Context, licenseNo string) (*Contractor, error)
	Create(ctx context.Context, c *Contractor) (*Contractor, error)
	Update(ctx context.Context, c *Contractor) error

	// AddClassification inserts the (contractor, code) pair if absent, or
	// reactivates it if it exists inactive. Reports whether a new row was
	// created; an existing pair is a no-op, not an error.
	AddClassification(ctx context.Context, contractorID int64, code string, isPrimary bool) (bool, error)
	Classifications(ctx context.Context, contractorID int64) ([]Classification, error)
	// DeactivateClassificationsExcept marks active pairs whose code is not in
	// keep as inactive and reports how many were deactivated.
	DeactivateClassificationsExcept(ctx context.Context, contractorID int64, keep []string) (int64, error)
}
