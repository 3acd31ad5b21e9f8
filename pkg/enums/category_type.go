package enums

import "fmt"

// CategoryType partitions the catalog into the three marketplace sections.
type CategoryType string

const (
	CategoryTypeMaterial CategoryType = "material"
	CategoryTypeDesign   CategoryType = "design"
	CategoryTypeService  CategoryType = "service"
)

var validCategoryTypes = []CategoryType{
	CategoryTypeMaterial,
	CategoryTypeDesign,
	CategoryTypeService,
}

// String implements fmt.Stringer.
func (c CategoryType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CategoryType.
func (c CategoryType) IsValid() bool {
	for _, candidate := range validCategoryTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategoryType converts raw input into a CategoryType.
func ParseCategoryType(value string) (CategoryType, error) {
	for _, candidate := range validCategoryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category type %q", value)
}
