package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// badgeOutput is the JSON object the model is asked to produce
type badgeOutput struct {
	Name        string          `json:"badge_name"`
	Description string          `json:"badge_description"`
	Criteria    json.RawMessage `json:"criteria"`
}

// extractBadge pulls the first balanced JSON object out of text and validates it.
// Text before and after the object is ignored.
func extractBadge(text string) (*model.Badge, error) {
	fragment, ok := balancedObject(text)
	if !ok {
		return nil, goerr.Wrap(model.ErrGenerationFormat, "no JSON object in generated text")
	}

	var out badgeOutput
	if err := json.Unmarshal([]byte(fragment), &out); err != nil {
		return nil, goerr.Wrap(model.ErrGenerationFormat, "generated JSON is malformed",
			goerr.V("fragment", fragment),
			goerr.V("cause", err.Error()),
		)
	}

	narrative, err := parseCriteria(out.Criteria)
	if err != nil {
		return nil, err
	}

	badge := &model.Badge{
		Name:        strings.TrimSpace(out.Name),
		Description: strings.TrimSpace(out.Description),
		Criteria:    model.Criteria{Narrative: narrative},
	}

	switch {
	case badge.Name == "":
		return nil, goerr.Wrap(model.ErrGenerationFormat, "badge_name is missing")
	case badge.Description == "":
		return nil, goerr.Wrap(model.ErrGenerationFormat, "badge_description is missing")
	case badge.Criteria.Narrative == "":
		return nil, goerr.Wrap(model.ErrGenerationFormat, "criteria narrative is missing")
	}

	return badge, nil
}

// parseCriteria accepts {"narrative": "..."} or a bare string
func parseCriteria(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", goerr.Wrap(model.ErrGenerationFormat, "criteria is missing")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", goerr.Wrap(model.ErrGenerationFormat, "criteria is malformed",
				goerr.V("cause", err.Error()))
		}
		return strings.TrimSpace(s), nil
	}

	var c model.Criteria
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", goerr.Wrap(model.ErrGenerationFormat, "criteria is malformed",
			goerr.V("cause", err.Error()))
	}
	return strings.TrimSpace(c.Narrative), nil
}

// balancedObject returns text from the first '{' to its matching '}'. Braces inside
// JSON strings are skipped. When text ends with braces still open, as happens when
// a stop sequence cuts off the closing brace, the missing closers are appended.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	fragment := text[start:]
	if inString {
		if escaped {
			fragment = fragment[:len(fragment)-1]
		}
		fragment += `"`
	} else {
		fragment = strings.TrimRight(fragment, " \t\r\n")
	}
	return fragment + strings.Repeat("}", depth), true
}
