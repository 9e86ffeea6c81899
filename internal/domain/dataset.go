package domain

import "strings"

// Dataset identifies one of the cleaned admissions tables.
type Dataset string

const (
	DatasetApplications Dataset = "applications"
	DatasetGPA          Dataset = "gpa"
	DatasetEthnicity    Dataset = "ethnicity"
	DatasetAdmits       Dataset = "admits"
	DatasetJoined       Dataset = "joined"
)

// Datasets lists every dataset in display order.
var Datasets = []Dataset{DatasetGPA, DatasetEthnicity, DatasetApplications, DatasetAdmits, DatasetJoined}

// Label returns the display name used by the UI and error messages.
func (d Dataset) Label() string {
	switch d {
	case DatasetApplications:
		return "Applications"
	case DatasetGPA:
		return "GPA"
	case DatasetEthnicity:
		return "Demographics"
	case DatasetAdmits:
		return "Admits"
	case DatasetJoined:
		return "Applications with admits"
	default:
		return string(d)
	}
}

// CategoryColumn returns the category column of the dataset, or "" for
// datasets without one.
func (d Dataset) CategoryColumn() string {
	switch d {
	case DatasetApplications, DatasetJoined:
		return ColApplicantCharacteristic
	case DatasetGPA:
		return ColGPABand
	case DatasetEthnicity:
		return ColRaceEthnicity
	default:
		return ""
	}
}

// ParseDataset resolves a dataset by name, case-insensitively. A few aliases
// used by the UI ("demographics", "apps") are accepted.
func ParseDataset(name string) (Dataset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "applications", "apps":
		return DatasetApplications, nil
	case "gpa":
		return DatasetGPA, nil
	case "ethnicity", "demographics":
		return DatasetEthnicity, nil
	case "admits":
		return DatasetAdmits, nil
	case "joined":
		return DatasetJoined, nil
	default:
		return "", ErrValidation("unknown dataset %q", name)
	}
}
