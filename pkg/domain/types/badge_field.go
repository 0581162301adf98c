package types

import "fmt"

// BadgeField names a badge text that can be regenerated on its own
type BadgeField string

const (
	BadgeFieldTitle       BadgeField = "title"
	BadgeFieldDescription BadgeField = "description"
	BadgeFieldCriteria    BadgeField = "criteria"
)

var badgeFieldTask = map[BadgeField]string{
	BadgeFieldTitle:       "Generate ONLY a new, concise badge title. Keep it under 50 characters.",
	BadgeFieldDescription: "Generate ONLY a new badge description. Make it clear and comprehensive.",
	BadgeFieldCriteria:    "Generate ONLY new achievement criteria text. Focus on what learners must demonstrate.",
}

// AllBadgeFields returns every regenerable field
func AllBadgeFields() []BadgeField {
	return []BadgeField{
		BadgeFieldTitle,
		BadgeFieldDescription,
		BadgeFieldCriteria,
	}
}

func (f BadgeField) IsValid() bool {
	_, ok := badgeFieldTask[f]
	return ok
}

// Task is the instruction that asks the model for this field alone
func (f BadgeField) Task() string {
	return badgeFieldTask[f]
}

func (f BadgeField) String() string {
	return string(f)
}

// ParseBadgeField parses a string into a BadgeField
func ParseBadgeField(s string) (BadgeField, error) {
	f := BadgeField(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid badge field: %s", s)
	}
	return f, nil
}
