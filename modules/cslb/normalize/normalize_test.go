package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  ACME   BUILDERS  ", "ACME BUILDERS"},
		{"O'BRIEN & SONS, INC.", "O'BRIEN & SONS, INC."},
		{"SMITH #1 CONSTRUCTION*", "SMITH 1 CONSTRUCTION"},
		{"A @ B", "A B"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BusinessName(tc.in), "input %q", tc.in)
	}
}

func TestCity(t *testing.T) {
	assert.Equal(t, "San Francisco", City("SAN FRANCISCO"))
	assert.Equal(t, "Walnut Creek", City("walnut   creek"))
	assert.Equal(t, "Oakland", City(" oakland "))
	assert.Equal(t, "", City("   "))
}

func TestZip(t *testing.T) {
	assert.Equal(t, "94103", Zip("94103"))
	assert.Equal(t, "94103-1234", Zip("941031234"))
	assert.Equal(t, "94103-1234", Zip("94103-1234"))
	// no expansion attempted below 5 digits
	assert.Equal(t, "941", Zip("941"))
	assert.Equal(t, "", Zip("N/A"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "(415) 555-1234", Phone("4155551234"))
	assert.Equal(t, "(415) 555-1234", Phone("415.555.1234"))
	// seven digits come back untouched
	assert.Equal(t, "555-1234", Phone("555-1234"))
	assert.Equal(t, "", Phone(""))
}

func TestDate(t *testing.T) {
	got := Date("03/15/2019")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC), *got)

	got = Date("2019-03-15")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, Date(""))
	assert.Nil(t, Date("  "))
	assert.Nil(t, Date("not a date"))
	assert.Nil(t, Date("13/45/2019"))
}

func TestDecimal(t *testing.T) {
	got := Decimal("$12,500.00")
	require.NotNil(t, got)
	assert.Equal(t, "12500", got.String())

	got = Decimal("-42.5")
	require.NotNil(t, got)
	assert.Equal(t, "-42.5", got.String())

	assert.Nil(t, Decimal(""))
	assert.Nil(t, Decimal("N/A"))
	assert.Nil(t, Decimal("--"))
}

func TestCounty(t *testing.T) {
	// explicit county wins and is upper-cased
	assert.Equal(t, "SONOMA", County("Sonoma", "Oakland"))
	// fallback to the city table
	assert.Equal(t, "ALAMEDA", County("", "OAKLAND"))
	assert.Equal(t, "SAN FRANCISCO", County("", "san francisco"))
	// unknown city resolves to no value
	assert.Equal(t, "", County("", "Bakersfield"))
	assert.Equal(t, "", County("", ""))
}
