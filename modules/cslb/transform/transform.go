// Package transform maps one raw extract row to a storage-ready contractor
// record. It has no side effects and calls only the field normalizers.
package transform

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/norcalcba/cslbsync/modules/cslb/normalize"
)

// Source column names of the license master extract.
const (
	ColLicenseNumber     = "LICENSE_NUMBER"
	ColBusinessName      = "BUSINESS_NAME"
	ColBusName2          = "BUS_NAME_2"
	ColAddress1          = "ADDRESS1"
	ColAddress2          = "ADDRESS2"
	ColCity              = "CITY"
	ColState             = "STATE"
	ColZip               = "ZIP"
	ColCounty            = "COUNTY"
	ColPhone             = "PHONE"
	ColLicenseStatus     = "LICENSE_STATUS"
	ColLicenseStatusDate = "LICENSE_STATUS_DATE"
	ColLicenseType       = "LICENSE_TYPE"
	ColIssueDate         = "ISSUE_DATE"
	ColOriginalIssueDate = "ORIGINAL_ISSUE_DATE"
	ColExpiryDate        = "EXPIRY_DATE"
	ColBusinessType      = "BUSINESS_TYPE"
	ColBondAmount        = "BOND_AMOUNT"
	ColBondCompany       = "BOND_COMPANY"
	ColBondNumber        = "BOND_NUMBER"
	ColClassifications   = "CLASSIFICATIONS"
)

var ErrMissingLicense = errors.New("row has no license number")

// Record is the normalized output of one master-file row.
type Record struct {
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

	HasValidAddress bool
	HasValidPhone   bool

	// Classification codes in source order, post-trim, empties dropped.
	Classifications []string

	ImportBatchID string
}

// ContractorRecord normalizes one raw row. The only rejection is a
// structurally absent license number; merely malformed field values degrade
// to no-value per the normalizers.
func ContractorRecord(row map[string]string, batchID string) (*Record, error) {
	licenseNo := strings.TrimSpace(row[ColLicenseNumber])
	if licenseNo == "" {
		return nil, ErrMissingLicense
	}

	city := normalize.City(row[ColCity])
	state := strings.ToUpper(strings.TrimSpace(row[ColState]))
	zip := normalize.Zip(row[ColZip])
	address1 := strings.TrimSpace(row[ColAddress1])
	phone := normalize.Phone(strings.TrimSpace(row[ColPhone]))

	rec := &Record{
		LicenseNo:         licenseNo,
		BusinessName:      optional(normalize.BusinessName(row[ColBusinessName])),
		TradeName:         optional(normalize.BusinessName(row[ColBusName2])),
		Address1:          optional(address1),
		Address2:          optional(strings.TrimSpace(row[ColAddress2])),
		City:              optional(city),
		State:             optional(state),
		Zip:               optional(zip),
		County:            optional(normalize.County(row[ColCounty], row[ColCity])),
		Phone:             optional(phone),
		LicenseStatus:     optional(strings.ToUpper(strings.TrimSpace(row[ColLicenseStatus]))),
		LicenseStatusDate: normalize.Date(row[ColLicenseStatusDate]),
		LicenseType:       optional(strings.TrimSpace(row[ColLicenseType])),
		IssueDate:         normalize.Date(row[ColIssueDate]),
		OriginalIssueDate: normalize.Date(row[ColOriginalIssueDate]),
		ExpiryDate:        normalize.Date(row[ColExpiryDate]),
		BusinessType:      optional(strings.TrimSpace(row[ColBusinessType])),
		BondAmount:        normalize.Decimal(row[ColBondAmount]),
		BondCompany:       optional(normalize.BusinessName(row[ColBondCompany])),
		BondNumber:        optional(strings.TrimSpace(row[ColBondNumber])),
		Classifications:   SplitClassifications(row[ColClassifications]),
		ImportBatchID:     batchID,
	}

	rec.HasValidAddress = address1 != "" && city != "" && state != "" && zip != "" &&
		len(address1) > 5 && len(city) > 2
	rec.HasValidPhone = digitCount(phone) == 10

	return rec, nil
}

// SplitClassifications splits the delimited code list, trims each token and
// drops empties. The first surviving token is the primary classification.
func SplitClassifications(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var codes []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			codes = append(codes, strings.ToUpper(tok))
		}
	}
	return codes
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
