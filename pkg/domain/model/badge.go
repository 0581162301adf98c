package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/badgeforge/pkg/domain/types"
)

// BadgeID is a UUID-based identifier for Badge
type BadgeID string

// NewBadgeID generates a new UUID v4 BadgeID
func NewBadgeID() BadgeID {
	return BadgeID(uuid.New().String())
}

func (id BadgeID) String() string {
	return string(id)
}

// Criteria holds the completion criteria of a badge
type Criteria struct {
	Narrative string `json:"narrative"`
}

// Parameters is the fully resolved set of generation parameters
type Parameters struct {
	Style     types.BadgeStyle     `json:"badge_style"`
	Tone      types.BadgeTone      `json:"badge_tone"`
	Criterion types.CriterionStyle `json:"criterion_style"`
	Level     types.BadgeLevel     `json:"badge_level"`
}

// Badge is a generated credential record as kept in history
type Badge struct {
	ID                 BadgeID        `json:"badge_id"`
	Name               string         `json:"badge_name"`
	Description        string         `json:"badge_description"`
	Criteria           Criteria       `json:"criteria"`
	Parameters         Parameters     `json:"parameters"`
	CourseInput        string         `json:"course_input"`
	Institution        string         `json:"institution,omitempty"`
	CustomInstructions string         `json:"custom_instructions,omitempty"`
	RawOutput          string         `json:"raw_output,omitempty"`
	Attempts           int            `json:"attempts"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// Copy returns a deep copy of the badge
func (b *Badge) Copy() *Badge {
	copied := *b
	if b.Metadata != nil {
		copied.Metadata = copyMetadata(b.Metadata)
	}
	return &copied
}

// copyMetadata clones JSON-shaped values; anything else is shared
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyMetadata(x)
	case []any:
		s := make([]any, len(x))
		for i := range x {
			s[i] = copyValue(x[i])
		}
		return s
	case []string:
		return slices.Clone(x)
	default:
		return v
	}
}

var reservedMetadataKeys = map[string]struct{}{
	"badge_id":          {},
	"badge_name":        {},
	"badge_description": {},
	"name":              {},
	"description":       {},
	"criteria":          {},
	"parameters":        {},
	"created_at":        {},
}

// IsReservedMetadataKey reports whether key collides with a schema field of Badge
func IsReservedMetadataKey(key string) bool {
	_, ok := reservedMetadataKeys[key]
	return ok
}
