package types

import "fmt"

// BadgeTone is the voice used for badge wording
type BadgeTone string

const (
	BadgeToneAuthoritative BadgeTone = "Authoritative"
	BadgeToneEncouraging   BadgeTone = "Encouraging"
	BadgeToneDetailed      BadgeTone = "Detailed"
	BadgeToneConcise       BadgeTone = "Concise"
	BadgeToneEngaging      BadgeTone = "Engaging"
)

var badgeToneGuidance = map[BadgeTone]string{
	BadgeToneAuthoritative: "Confident, definitive tone with institutional credibility.",
	BadgeToneEncouraging:   "Motivating, supportive tone inspiring continued learning.",
	BadgeToneDetailed:      "Comprehensive detail with examples and specific metrics.",
	BadgeToneConcise:       "Short, direct guidance focusing on essential information.",
	BadgeToneEngaging:      "Dynamic, compelling language to capture attention.",
}

// AllBadgeTones returns all valid badge tones in declaration order
func AllBadgeTones() []BadgeTone {
	return []BadgeTone{
		BadgeToneAuthoritative,
		BadgeToneEncouraging,
		BadgeToneDetailed,
		BadgeToneConcise,
		BadgeToneEngaging,
	}
}

func (t BadgeTone) IsValid() bool {
	_, ok := badgeToneGuidance[t]
	return ok
}

func (t BadgeTone) Guidance() string {
	return badgeToneGuidance[t]
}

func (t BadgeTone) String() string {
	return string(t)
}

// ParseBadgeTone parses a string into a BadgeTone
func ParseBadgeTone(s string) (BadgeTone, error) {
	tone := BadgeTone(s)
	if !tone.IsValid() {
		return "", fmt.Errorf("invalid badge tone: %s", s)
	}
	return tone, nil
}
