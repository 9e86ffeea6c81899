package cleaning

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-explorer/internal/domain"
	"admissions-explorer/internal/testutil"
)

func TestLoadApplications(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "apps.csv",
		testutil.TSV("  Fall term ", "Applicant characteristics", "Residency ", "Campus"),
		testutil.TSV("2022", "California Resident", "10,000", "UC"),
		testutil.TSV("2022", "Non-Resident", "2,500", "UC"),
		testutil.TSV("", "", "", ""),
	)

	got, err := LoadApplications(path)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ColFallTerm, domain.ColApplicantCharacteristic, domain.ColApplicants}, got.Columns())
	assert.Equal(t, domain.ApplicationTable{
		{FallTerm: 2022, Characteristic: "California Resident", Applicants: 10000},
		{FallTerm: 2022, Characteristic: "Non-Resident", Applicants: 2500},
	}, got)
}

func TestLoadApplications_AcceptsCanonicalCategoryHeader(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "apps.csv",
		testutil.TSV("Fall term", "Applicant characteristic", "Residency"),
		testutil.TSV("2020", "All", "0"),
	)
	got, err := LoadApplications(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationTable{{FallTerm: 2020, Characteristic: "All", Applicants: 0}}, got)
}

func TestLoadGPA(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "gpa.csv",
		testutil.TSV("Fall term", "Applicant characteristics", "HS weighted, capped GPA", "Notes"),
		testutil.TSV("2021", "3.50–3.74", "1,234", "x"),
		testutil.TSV("2021", "4.00+", "0", ""),
	)

	got, err := LoadGPA(path)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ColFallTerm, domain.ColGPABand, domain.ColApplicants}, got.Columns())
	assert.Equal(t, domain.GPATable{
		{FallTerm: 2021, Band: "3.50–3.74", Applicants: 1234},
		{FallTerm: 2021, Band: "4.00+", Applicants: 0},
	}, got)
}

func TestLoadGPA_NonNumericCountFails(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "gpa.csv",
		testutil.TSV("Fall term", "Applicant characteristics", "HS weighted, capped GPA"),
		testutil.TSV("2021", "3.00-3.49", "812"),
		testutil.TSV("2021", "Below 3.00", "N/A"),
	)

	got, err := LoadGPA(path)
	require.Nil(t, got)
	var coercion *domain.ValueCoercionError
	require.ErrorAs(t, err, &coercion)
	assert.Equal(t, "N/A", coercion.Value)
	assert.Equal(t, domain.ColApplicants, coercion.Column)
	assert.Equal(t, 3, coercion.Row)
}

func TestLoadEthnicity_SwapsColumns(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "eth.csv",
		testutil.TSV("Fall term", "Applicant characteristics", "Race/ethnicity"),
		testutil.TSV("2022", "Asian", "40,512"),
		testutil.TSV("2022", "African American", "9,001"),
	)

	got, err := LoadEthnicity(path)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ColFallTerm, domain.ColRaceEthnicity, domain.ColApplicants}, got.Columns())
	assert.Equal(t, domain.EthnicityTable{
		{FallTerm: 2022, Ethnicity: "Asian", Applicants: 40512},
		{FallTerm: 2022, Ethnicity: "African American", Applicants: 9001},
	}, got)
}

func TestCleaners_SchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		header string
		load   func(string) error
		column string
	}{
		{
			name:   "applications without Residency",
			header: testutil.TSV("Fall term", "Applicant characteristics", "Count"),
			load:   func(p string) error { _, err := LoadApplications(p); return err },
			column: domain.ColApplicants,
		},
		{
			name:   "gpa without band",
			header: testutil.TSV("Fall term", "Band", "HS weighted, capped GPA"),
			load:   func(p string) error { _, err := LoadGPA(p); return err },
			column: domain.ColGPABand,
		},
		{
			name:   "ethnicity without term",
			header: testutil.TSV("Year", "Applicant characteristics", "Race/ethnicity"),
			load:   func(p string) error { _, err := LoadEthnicity(p); return err },
			column: domain.ColFallTerm,
		},
		{
			name:   "admits without Admits",
			header: testutil.TSV("Term", "Offers"),
			load:   func(p string) error { _, err := LoadAdmits(p); return err },
			column: domain.ColAdmits,
		},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := testutil.WriteExport(t, dir, fmt.Sprintf("case%d.csv", i), tc.header)
			err := tc.load(path)
			var mismatch *domain.SchemaMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tc.column, mismatch.Column)
		})
	}
}

func TestCleaners_MissingFileIsMalformed(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.csv")
	var malformed *domain.MalformedSourceError

	_, err := LoadApplications(missing)
	require.ErrorAs(t, err, &malformed)
	_, err = LoadGPA(missing)
	require.ErrorAs(t, err, &malformed)
	_, err = LoadEthnicity(missing)
	require.ErrorAs(t, err, &malformed)
}

func TestLoadAdmits(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "admits.csv",
		testutil.TSV(" Term", "Admits "),
		testutil.TSV("2020", "84,223"),
		testutil.TSV("2021", ""),
	)

	got, err := LoadAdmits(path)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ColFallTerm, domain.ColAdmits}, got.Columns())
	assert.Equal(t, domain.AdmitTable{{FallTerm: 2020, Admits: 84223}, {FallTerm: 2021, Admits: 0}}, got)
}

func TestLoadAdmits_AbsentOrEmptyFile(t *testing.T) {
	dir := t.TempDir()

	got, err := LoadAdmits(filepath.Join(dir, "absent.csv"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{domain.ColFallTerm, domain.ColAdmits}, got.Columns())

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	got, err = LoadAdmits(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	headerOnly := testutil.WriteExport(t, dir, "header.csv", testutil.TSV("Term", "Admits"))
	got, err = LoadAdmits(headerOnly)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestLoadAdmits_GarbageStillFails(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "admits.csv",
		testutil.TSV("Term", "Admits"),
		testutil.TSV("2020", "pending"),
	)
	_, err := LoadAdmits(path)
	var coercion *domain.ValueCoercionError
	require.ErrorAs(t, err, &coercion)
}

func TestParseCount(t *testing.T) {
	path := testutil.WriteExport(t, t.TempDir(), "apps.csv",
		testutil.TSV("Fall term", "Applicant characteristics", "Residency"),
		testutil.TSV("2022", "a", "1,234"),
		testutil.TSV("2022", "b", " 0 "),
		testutil.TSV("2022", "c", "1,000,000"),
	)
	got, err := LoadApplications(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1234, got[0].Applicants)
	assert.Equal(t, 0, got[1].Applicants)
	assert.Equal(t, 1000000, got[2].Applicants)

	for _, bad := range []string{"-5", "12.5", "n<5", "", "+5", ",5", "1,,2", "12,34", "1,2345", "5,"} {
		p := testutil.WriteExport(t, t.TempDir(), "bad.csv",
			testutil.TSV("Fall term", "Applicant characteristics", "Residency"),
			testutil.TSV("2022", "x", bad),
		)
		_, err := LoadApplications(p)
		var coercion *domain.ValueCoercionError
		require.ErrorAs(t, err, &coercion, bad)
	}
}

func TestParseTerm_RejectsNonYears(t *testing.T) {
	for _, bad := range []string{"+2022", "2,022", "22", "fall", "-2022"} {
		p := testutil.WriteExport(t, t.TempDir(), "bad.csv",
			testutil.TSV("Fall term", "Applicant characteristics", "Residency"),
			testutil.TSV(bad, "x", "1"),
		)
		_, err := LoadApplications(p)
		var coercion *domain.ValueCoercionError
		require.ErrorAs(t, err, &coercion, bad)
		assert.Equal(t, domain.ColFallTerm, coercion.Column, bad)
	}
}
