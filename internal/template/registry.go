// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Model template registry: ordered, immutable after construction.
package template

import (
	"errors"
	"fmt"
	"strings"
)

// ===== ERRORS =====

// ErrUnknownModel is returned by Lookup for ids with no registered
// definition. Test with errors.Is.
var ErrUnknownModel = errors.New("unknown model")

// ===== REGISTRY =====

// Registry holds model definitions keyed by id, preserving registration
// order for listings. It is immutable once constructed; build a new one to
// change the set (the definitions loader does exactly that on reload).
type Registry struct {
	defs  map[string]*Definition
	order []string
}

// NewRegistry validates and registers the given definitions in order.
// Registering an id twice replaces the definition in place: the newer one
// wins but keeps the original slot in the listing order.
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*Definition, len(defs))}
	for _, def := range defs {
		if err := r.register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Lookup returns the definition for an exact id. Unknown ids yield an
// error wrapping ErrUnknownModel.
func (r *Registry) Lookup(id string) (*Definition, error) {
	def, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return def, nil
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.defs[id]
	return ok
}

// Resolve looks up a definition by exact id, then by display name, then by
// case-insensitive substring of either. Meant for command-line arguments
// where "DeepSeek" should find "deepseek-v3.1"; programmatic callers use
// Lookup.
func (r *Registry) Resolve(nameOrID string) (*Definition, error) {
	if def, ok := r.defs[nameOrID]; ok {
		return def, nil
	}
	for _, id := range r.order {
		if r.defs[id].DisplayName == nameOrID {
			return r.defs[id], nil
		}
	}
	needle := strings.ToLower(nameOrID)
	for _, id := range r.order {
		def := r.defs[id]
		if strings.Contains(strings.ToLower(def.ID), needle) ||
			strings.Contains(strings.ToLower(def.DisplayName), needle) {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, nameOrID)
}

// List returns all definitions in registration order.
func (r *Registry) List() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// IDs returns all registered ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.order)
}
