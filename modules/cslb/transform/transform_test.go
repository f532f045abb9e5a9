package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterRow() map[string]string {
	return map[string]string{
		ColLicenseNumber:     " 123456 ",
		ColBusinessName:      "  ACME   BUILDERS, INC. ",
		ColBusName2:          "ACME",
		ColAddress1:          "123 Main Street",
		ColAddress2:          "Suite 4",
		ColCity:              "SAN FRANCISCO",
		ColState:             "ca",
		ColZip:               "941031234",
		ColPhone:             "4155551234",
		ColLicenseStatus:     "clear",
		ColLicenseStatusDate: "03/15/2019",
		ColLicenseType:       "CSLB",
		ColIssueDate:         "01/02/1998",
		ColOriginalIssueDate: "01/02/1998",
		ColExpiryDate:        "01/31/2026",
		ColBusinessType:      "Corporation",
		ColBondAmount:        "$15,000",
		ColBondCompany:       "Surety Co",
		ColBondNumber:        "SB-100200",
		ColClassifications:   "B, C-10 , ,c-36",
	}
}

func TestContractorRecord(t *testing.T) {
	rec, err := ContractorRecord(masterRow(), "CSLB_20250301_120000")
	require.NoError(t, err)

	assert.Equal(t, "123456", rec.LicenseNo)
	require.NotNil(t, rec.BusinessName)
	assert.Equal(t, "ACME BUILDERS, INC.", *rec.BusinessName)
	require.NotNil(t, rec.City)
	assert.Equal(t, "San Francisco", *rec.City)
	require.NotNil(t, rec.State)
	assert.Equal(t, "CA", *rec.State)
	require.NotNil(t, rec.Zip)
	assert.Equal(t, "94103-1234", *rec.Zip)
	require.NotNil(t, rec.County)
	assert.Equal(t, "SAN FRANCISCO", *rec.County)
	require.NotNil(t, rec.Phone)
	assert.Equal(t, "(415) 555-1234", *rec.Phone)
	require.NotNil(t, rec.LicenseStatus)
	assert.Equal(t, "CLEAR", *rec.LicenseStatus)
	require.NotNil(t, rec.LicenseStatusDate)
	assert.Equal(t, time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC), *rec.LicenseStatusDate)
	require.NotNil(t, rec.BondAmount)
	assert.Equal(t, "15000", rec.BondAmount.String())

	assert.True(t, rec.HasValidAddress)
	assert.True(t, rec.HasValidPhone)
	assert.Equal(t, []string{"B", "C-10", "C-36"}, rec.Classifications)
	assert.Equal(t, "CSLB_20250301_120000", rec.ImportBatchID)
}

func TestContractorRecord_MissingLicense(t *testing.T) {
	row := masterRow()
	row[ColLicenseNumber] = "   "
	_, err := ContractorRecord(row, "b1")
	require.ErrorIs(t, err, ErrMissingLicense)
}

func TestContractorRecord_ShortAddressIsInvalid(t *testing.T) {
	row := masterRow()
	row[ColAddress1] = "12 " // trimmed length 3
	rec, err := ContractorRecord(row, "b1")
	require.NoError(t, err)
	assert.False(t, rec.HasValidAddress)
	// the rest of the address still normalizes
	require.NotNil(t, rec.Address1)
	assert.Equal(t, "12", *rec.Address1)
}

func TestContractorRecord_ShortCityIsInvalid(t *testing.T) {
	row := masterRow()
	row[ColCity] = "LA"
	rec, err := ContractorRecord(row, "b1")
	require.NoError(t, err)
	assert.False(t, rec.HasValidAddress)
}

func TestContractorRecord_SevenDigitPhoneIsInvalid(t *testing.T) {
	row := masterRow()
	row[ColPhone] = "555-1234"
	rec, err := ContractorRecord(row, "b1")
	require.NoError(t, err)
	require.NotNil(t, rec.Phone)
	assert.Equal(t, "555-1234", *rec.Phone)
	assert.False(t, rec.HasValidPhone)
}

func TestContractorRecord_UnparseableDateDegradesToNil(t *testing.T) {
	row := masterRow()
	row[ColIssueDate] = "pending"
	rec, err := ContractorRecord(row, "b1")
	require.NoError(t, err)
	assert.Nil(t, rec.IssueDate)
}

func TestContractorRecord_AbsentOptionalColumns(t *testing.T) {
	rec, err := ContractorRecord(map[string]string{ColLicenseNumber: "999"}, "b1")
	require.NoError(t, err)
	assert.Nil(t, rec.BusinessName)
	assert.Nil(t, rec.Phone)
	assert.False(t, rec.HasValidAddress)
	assert.False(t, rec.HasValidPhone)
	assert.Empty(t, rec.Classifications)
}

func TestSplitClassifications(t *testing.T) {
	assert.Equal(t, []string{"B", "C-10", "C-36"}, SplitClassifications("B, C-10 , ,c-36"))
	assert.Equal(t, []string{"A"}, SplitClassifications("A"))
	assert.Nil(t, SplitClassifications(""))
	assert.Nil(t, SplitClassifications(" , , "))
}
