package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
	"github.com/secmon-lab/badgeforge/pkg/usecase"
)

func TestExtractBadge(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		narrative string
	}{
		{
			name:      "surrounded by prose",
			text:      "Sure! Here is your badge:\n" + validOutput + "\nLet me know if you need changes. {not json}",
			narrative: "Learners complete coding exercises and a final project.",
		},
		{
			name:      "braces and quotes inside strings",
			text:      `{"badge_name": "Set {Builder}", "badge_description": "Uses \"}\" tokens", "criteria": {"narrative": "Close every } and {"}}`,
			narrative: "Close every } and {",
		},
		{
			name:      "closing brace cut by stop sequence",
			text:      `{"badge_name": "A", "badge_description": "B", "criteria": {"narrative": "C"}` + "\n",
			narrative: "C",
		},
		{
			name:      "truncated inside a string",
			text:      `{"badge_name": "A", "badge_description": "B", "criteria": {"narrative": "Complete the lab`,
			narrative: "Complete the lab",
		},
		{
			name:      "criteria as plain string",
			text:      `{"badge_name": "A", "badge_description": "B", "criteria": "Pass the exam"}`,
			narrative: "Pass the exam",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			badge, err := usecase.ExtractBadge(tc.text)
			gt.NoError(t, err).Required()
			gt.S(t, badge.Name).NotEqual("")
			gt.S(t, badge.Description).NotEqual("")
			gt.S(t, badge.Criteria.Narrative).Equal(tc.narrative)
		})
	}
}

func TestExtractBadge_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "no object", text: "I cannot help with that."},
		{name: "empty", text: ""},
		{name: "malformed", text: `{"badge_name": "A", "badge_description": }`},
		{name: "missing name", text: `{"badge_description": "B", "criteria": {"narrative": "C"}}`},
		{name: "blank description", text: `{"badge_name": "A", "badge_description": "  ", "criteria": {"narrative": "C"}}`},
		{name: "missing criteria", text: `{"badge_name": "A", "badge_description": "B"}`},
		{name: "empty narrative", text: `{"badge_name": "A", "badge_description": "B", "criteria": {}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := usecase.ExtractBadge(tc.text)
			gt.Error(t, err).Is(model.ErrGenerationFormat)
		})
	}
}

func TestBalancedObject(t *testing.T) {
	got, ok := usecase.BalancedObject(`prefix {"a": {"b": "}"}} suffix }`)
	gt.B(t, ok).True()
	gt.S(t, got).Equal(`{"a": {"b": "}"}}`)

	got, ok = usecase.BalancedObject(`{"a": {"b": 1}` + "\n\n")
	gt.B(t, ok).True()
	gt.S(t, got).Equal(`{"a": {"b": 1}}`)

	_, ok = usecase.BalancedObject("no braces here")
	gt.B(t, ok).False()
}
