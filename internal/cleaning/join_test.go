package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"admissions-explorer/internal/domain"
)

func TestJoinApplicationsAdmits(t *testing.T) {
	apps := domain.ApplicationTable{
		{FallTerm: 2021, Characteristic: "California Resident", Applicants: 9000},
		{FallTerm: 2022, Characteristic: "California Resident", Applicants: 10000},
		{FallTerm: 2022, Characteristic: "Non-Resident", Applicants: 2500},
	}
	admits := domain.AdmitTable{
		{FallTerm: 2021, Admits: 7000},
		{FallTerm: 2019, Admits: 1},
	}

	got := JoinApplicationsAdmits(apps, admits)
	assert.Equal(t, domain.JoinedTable{
		{FallTerm: 2021, Characteristic: "California Resident", Applicants: 9000, Admits: 7000},
		{FallTerm: 2022, Characteristic: "California Resident", Applicants: 10000, Admits: 0},
		{FallTerm: 2022, Characteristic: "Non-Resident", Applicants: 2500, Admits: 0},
	}, got)
	assert.Equal(t, []string{domain.ColFallTerm, domain.ColApplicantCharacteristic, domain.ColApplicants, domain.ColAdmits}, got.Columns())
}

func TestJoinApplicationsAdmits_EmptyInputs(t *testing.T) {
	assert.Empty(t, JoinApplicationsAdmits(nil, domain.AdmitTable{{FallTerm: 2020, Admits: 3}}))

	got := JoinApplicationsAdmits(domain.ApplicationTable{{FallTerm: 2020, Characteristic: "All", Applicants: 5}}, nil)
	assert.Equal(t, 0, got[0].Admits)
}
