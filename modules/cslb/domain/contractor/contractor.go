package contractor

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contractor is one CSLB license record. LicenseNo is the natural key: the
// importer updates in place on re-sighting, it never duplicates and never
// deletes (absence from a newer extract does not imply removal).
type Contractor struct {
	ID        int64
	LicenseNo string

	BusinessName *string
	TradeName    *string

	Address1 *string
	Address2 *string
	City     *string
	State    *string
	Zip      *string
	County   *string

	Phone *string

	LicenseStatus     *string
	LicenseStatusDate *time.Time
	LicenseType       *string
	IssueDate         *time.Time
	OriginalIssueDate *time.Time
	ExpiryDate        *time.Time

	BusinessType *string

	BondAmount  *decimal.Decimal
	BondCompany *string
	BondNumber  *string

	WorkersCompCarrier *string

	Latitude  *decimal.Decimal
	Longitude *decimal.Decimal

	HasValidAddress bool
	HasValidPhone   bool

	ImportBatchID *string
	LastSyncedAt  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Classification tags a contractor with one CSLB trade-category code.
// The (ContractorID, Code) pair is unique; re-adding an existing pair is a
// no-op.
type Classification struct {
	ID           int64
	ContractorID int64
	Code         string
	IsPrimary    bool
	IsActive     bool
	CreatedAt    time.Time
}
