package usecase

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// courseDelimiter matches every separator between courses in one pass:
// line breaks, ";", the word "and", "+", "|" and "//".
var courseDelimiter = regexp.MustCompile(`\r?\n|;|\band\b|\+|\||//`)

// ParseCourseInput splits raw course input into trimmed, non-empty segments in input order.
// Input without any delimiter is returned as a single segment.
func ParseCourseInput(raw string) ([]string, error) {
	parts := courseDelimiter.Split(raw, -1)

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			segments = append(segments, s)
		}
	}

	if len(segments) == 0 {
		return nil, goerr.Wrap(model.ErrInvalidInput, "course input is empty",
			goerr.V("length", len(raw)))
	}
	return segments, nil
}
