package model

import "github.com/secmon-lab/badgeforge/pkg/domain/types"

// StyleOption is one allowed value of a parameter dimension
type StyleOption struct {
	Value    string `json:"value"`
	Guidance string `json:"guidance"`
}

// StyleCatalog lists the allowed values of every parameter dimension
type StyleCatalog map[types.Dimension][]StyleOption
