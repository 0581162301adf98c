package types

import "fmt"

// BadgeStyle is the register used for badge wording
type BadgeStyle string

const (
	BadgeStyleProfessional BadgeStyle = "Professional"
	BadgeStyleAcademic     BadgeStyle = "Academic"
	BadgeStyleIndustry     BadgeStyle = "Industry"
	BadgeStyleTechnical    BadgeStyle = "Technical"
	BadgeStyleCreative     BadgeStyle = "Creative"
)

var badgeStyleGuidance = map[BadgeStyle]string{
	BadgeStyleProfessional: "Use formal, business-oriented language emphasizing industry standards and career advancement.",
	BadgeStyleAcademic:     "Use scholarly language emphasizing learning outcomes and academic rigor.",
	BadgeStyleIndustry:     "Use sector-specific terminology focusing on job-readiness and practical applications.",
	BadgeStyleTechnical:    "Use precise technical language with emphasis on tools and measurable outcomes.",
	BadgeStyleCreative:     "Use engaging language highlighting innovation and problem-solving.",
}

// AllBadgeStyles returns all valid badge styles in declaration order
func AllBadgeStyles() []BadgeStyle {
	return []BadgeStyle{
		BadgeStyleProfessional,
		BadgeStyleAcademic,
		BadgeStyleIndustry,
		BadgeStyleTechnical,
		BadgeStyleCreative,
	}
}

// IsValid checks if the badge style is valid
func (s BadgeStyle) IsValid() bool {
	_, ok := badgeStyleGuidance[s]
	return ok
}

// Guidance returns the prompt directive for the style
func (s BadgeStyle) Guidance() string {
	return badgeStyleGuidance[s]
}

func (s BadgeStyle) String() string {
	return string(s)
}

// ParseBadgeStyle parses a string into a BadgeStyle
func ParseBadgeStyle(s string) (BadgeStyle, error) {
	style := BadgeStyle(s)
	if !style.IsValid() {
		return "", fmt.Errorf("invalid badge style: %s", s)
	}
	return style, nil
}
