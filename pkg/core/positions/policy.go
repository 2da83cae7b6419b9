package positions

import (
	"maps"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

// DefaultFallback is the class type whose defaults apply to unknown types
const DefaultFallback = "Dragons"

// DefaultTable is the studio's standard set of offered positions per class type
var DefaultTable = map[string]model.Positions{
	"Dragons":     {Lead: true, Desk: true, Assist: true},
	"Karate Kids": {Lead: true, Desk: true, Assist: true},
	"Adults":      {Lead: true, Desk: false, Assist: true},
	"Black Belt":  {Lead: true, Desk: false, Assist: false},
	"Demo Team":   {Lead: true, Desk: false, Assist: true},
	"Leadership":  {Lead: true, Desk: false, Assist: true},
}

// Policy decides which positions a class type offers by default
type Policy struct {
	table    map[string]model.Positions
	fallback string
}

// NewPolicy creates a policy from a lookup table and the name of the fallback entry.
// If the fallback entry is missing from the table, unknown types offer every position.
func NewPolicy(table map[string]model.Positions, fallback string) *Policy {
	return &Policy{
		table:    maps.Clone(table),
		fallback: fallback,
	}
}

// DefaultPolicy returns the policy built from DefaultTable
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultTable, DefaultFallback)
}

// Defaults returns the positions offered for classType, matched exactly
func (p *Policy) Defaults(classType string) model.Positions {
	if positions, ok := p.table[classType]; ok {
		return positions
	}
	if positions, ok := p.table[p.fallback]; ok {
		return positions
	}
	return model.Positions{Lead: true, Desk: true, Assist: true}
}

// Known reports whether classType has its own entry in the table
func (p *Policy) Known(classType string) bool {
	_, ok := p.table[classType]
	return ok
}
