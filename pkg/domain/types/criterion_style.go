package types

import "fmt"

// CriterionStyle determines how the completion criteria narrative is phrased
type CriterionStyle string

const (
	CriterionStyleTaskOriented   CriterionStyle = "Task-Oriented"
	CriterionStyleEvidenceBased  CriterionStyle = "Evidence-Based"
	CriterionStyleOutcomeFocused CriterionStyle = "Outcome-Focused"
)

var criterionStyleGuidance = map[CriterionStyle]string{
	CriterionStyleTaskOriented:   "[Action verb], [action verb], [action verb]... (imperative commands directing learners to perform tasks)",
	CriterionStyleEvidenceBased:  "Learner has/can/successfully [action verb], has/can/effectively [action verb], has/can/accurately [action verb]... (focusing on demonstrated abilities and accomplishments)",
	CriterionStyleOutcomeFocused: "Students will be able to [action verb], will be prepared to [action verb], will [action verb]... (future tense emphasizing expected outcomes and capabilities)",
}

// AllCriterionStyles returns all valid criterion styles in declaration order
func AllCriterionStyles() []CriterionStyle {
	return []CriterionStyle{
		CriterionStyleTaskOriented,
		CriterionStyleEvidenceBased,
		CriterionStyleOutcomeFocused,
	}
}

func (c CriterionStyle) IsValid() bool {
	_, ok := criterionStyleGuidance[c]
	return ok
}

// Guidance returns the sentence template the narrative should follow
func (c CriterionStyle) Guidance() string {
	return criterionStyleGuidance[c]
}

func (c CriterionStyle) String() string {
	return string(c)
}

// ParseCriterionStyle parses a string into a CriterionStyle
func ParseCriterionStyle(s string) (CriterionStyle, error) {
	style := CriterionStyle(s)
	if !style.IsValid() {
		return "", fmt.Errorf("invalid criterion style: %s", s)
	}
	return style, nil
}
