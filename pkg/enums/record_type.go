package enums

import "fmt"

// RecordType tags the source kind of a unified dashboard record.
type RecordType string

const (
	RecordTypeProduct RecordType = "product"
	RecordTypeDesign  RecordType = "design"
	RecordTypeService RecordType = "service"
	// RecordTypeAll is only valid as a filter value, never on a record.
	RecordTypeAll RecordType = "all"
)

var validRecordTypes = []RecordType{
	RecordTypeProduct,
	RecordTypeDesign,
	RecordTypeService,
}

// String implements fmt.Stringer.
func (r RecordType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RecordType (excluding the
// filter-only "all" value).
func (r RecordType) IsValid() bool {
	for _, candidate := range validRecordTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecordTypeFilter accepts a record type filter value; empty and "all"
// both mean no type filtering.
func ParseRecordTypeFilter(value string) (RecordType, error) {
	if value == "" || value == string(RecordTypeAll) {
		return RecordTypeAll, nil
	}
	for _, candidate := range validRecordTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record type %q", value)
}
