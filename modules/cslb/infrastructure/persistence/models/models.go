package models

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Contractor struct {
	ID        int64
	LicenseNo string

	BusinessName sql.NullString
	TradeName    sql.NullString

	Address1 sql.NullString
	Address2 sql.NullString
	City     sql.NullString
	State    sql.NullString
	Zip      sql.NullString
	County   sql.NullString

	Phone sql.NullString

	LicenseStatus     sql.NullString
	LicenseStatusDate pgtype.Date
	LicenseType       sql.NullString
	IssueDate         pgtype.Date
	OriginalIssueDate pgtype.Date
	ExpiryDate        pgtype.Date

	BusinessType sql.NullString

	// NUMERIC columns travel as strings; the mapper owns decimal parsing.
	BondAmount  sql.NullString
	BondCompany sql.NullString
	BondNumber  sql.NullString

	WorkersCompCarrier sql.NullString

	Latitude  sql.NullString
	Longitude sql.NullString

	HasValidAddress bool
	HasValidPhone   bool

	ImportBatchID sql.NullString
	LastSyncedAt  time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ContractorClassification struct {
	ID             int64
	ContractorID   int64
	Classification string
	IsPrimary      bool
	IsActive       bool
	CreatedAt      time.Time
}

type ImportBatch struct {
	BatchID    string
	RunID      string
	BatchDate  pgtype.Date
	ImportType string
	Status     string

	StartedAt   time.Time
	CompletedAt sql.NullTime

	TotalRecords   int
	NewRecords     int
	UpdatedRecords int
	ErrorRecords   int

	ErrorLog sql.NullString
}
