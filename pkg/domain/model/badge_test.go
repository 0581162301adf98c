package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

func TestBadge_Copy(t *testing.T) {
	orig := &model.Badge{
		ID:   model.NewBadgeID(),
		Name: "Python Foundations",
		Metadata: map[string]any{
			"tags":                  []any{"python"},
			"owner":                 map[string]any{"team": "edu"},
			"regenerate_parameters": []string{"badge_style"},
		},
	}

	copied := orig.Copy()
	copied.Name = "changed"
	copied.Metadata["tags"].([]any)[0] = "go"
	copied.Metadata["owner"].(map[string]any)["team"] = "ops"
	copied.Metadata["regenerate_parameters"].([]string)[0] = "badge_tone"
	copied.Metadata["new"] = true

	gt.V(t, orig.Name).Equal("Python Foundations")
	gt.V(t, orig.Metadata["tags"].([]any)[0]).Equal(any("python"))
	gt.V(t, orig.Metadata["owner"].(map[string]any)["team"]).Equal(any("edu"))
	gt.V(t, orig.Metadata["regenerate_parameters"].([]string)).Equal([]string{"badge_style"})
	_, exists := orig.Metadata["new"]
	gt.B(t, exists).False()
}

func TestIsReservedMetadataKey(t *testing.T) {
	gt.B(t, model.IsReservedMetadataKey("badge_id")).True()
	gt.B(t, model.IsReservedMetadataKey("criteria")).True()
	gt.B(t, model.IsReservedMetadataKey("reviewer")).False()
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{"invalid input", goerr.Wrap(model.ErrInvalidInput, "empty course"), model.ErrorKindInvalidInput},
		{"invalid parameter", goerr.Wrap(model.ErrInvalidParameter, "bad tone"), model.ErrorKindInvalidParameter},
		{"unavailable", goerr.Wrap(model.ErrInferenceUnavailable, "timeout"), model.ErrorKindInferenceUnavailable},
		{"format", goerr.Wrap(model.ErrGenerationFormat, "no json"), model.ErrorKindGenerationFormat},
		{"not found", goerr.Wrap(model.ErrNotFound, "badge"), model.ErrorKindNotFound},
		{"other", errors.New("boom"), model.ErrorKindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, model.KindOf(tt.err)).Equal(tt.want)
		})
	}
}
