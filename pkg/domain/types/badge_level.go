package types

import "fmt"

// BadgeLevel is the learner level a badge targets
type BadgeLevel string

const (
	BadgeLevelBeginner     BadgeLevel = "Beginner"
	BadgeLevelIntermediate BadgeLevel = "Intermediate"
	BadgeLevelAdvanced     BadgeLevel = "Advanced"
	BadgeLevelExpert       BadgeLevel = "Expert"
)

var badgeLevelGuidance = map[BadgeLevel]string{
	BadgeLevelBeginner:     "Target learners with minimal prior knowledge; focus on foundations.",
	BadgeLevelIntermediate: "Target learners with basic familiarity; emphasize applied tasks.",
	BadgeLevelAdvanced:     "Target learners with solid foundations; emphasize complex problem solving.",
	BadgeLevelExpert:       "Emphasize mastery, leadership capabilities, advanced problem-solving.",
}

// AllBadgeLevels returns all valid badge levels in declaration order
func AllBadgeLevels() []BadgeLevel {
	return []BadgeLevel{
		BadgeLevelBeginner,
		BadgeLevelIntermediate,
		BadgeLevelAdvanced,
		BadgeLevelExpert,
	}
}

func (l BadgeLevel) IsValid() bool {
	_, ok := badgeLevelGuidance[l]
	return ok
}

func (l BadgeLevel) Guidance() string {
	return badgeLevelGuidance[l]
}

func (l BadgeLevel) String() string {
	return string(l)
}

// ParseBadgeLevel parses a string into a BadgeLevel
func ParseBadgeLevel(s string) (BadgeLevel, error) {
	level := BadgeLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid badge level: %s", s)
	}
	return level, nil
}
