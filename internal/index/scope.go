// Package index provides the per-load reference index: scoped mapping
// tables from local identifier to resolved entity, one pool per entity
// kind. A Scope lives for exactly one load; nested scopes layer assay
// declarations over their study without leaking back to siblings.
package index

import (
	"fmt"
	"strings"

	"studycore/pkg/isa"
)

// Kind names one identifier pool.
type Kind string

// Identifier pools maintained per load.
const (
	KindTermSource Kind = "term source"
	KindCategory   Kind = "characteristic category"
	KindUnit       Kind = "unit"
	KindProtocol   Kind = "protocol"
	KindParameter  Kind = "protocol parameter"
	KindFactor     Kind = "study factor"
	KindSource     Kind = "source"
	KindSample     Kind = "sample"
	KindMaterial   Kind = "material"
	KindDataFile   Kind = "data file"
	KindProcess    Kind = "process"
)

// DuplicateIdentifierError reports a second declaration of an identifier
// within the same pool and scope.
type DuplicateIdentifierError struct {
	Kind Kind
	ID   string
}

func (e DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate %s identifier %q", e.Kind, e.ID)
}

// UnresolvedReferenceError reports a by-id use with no matching declaration
// in the reachable scope.
type UnresolvedReferenceError struct {
	Kind Kind
	ID   string
}

func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s reference %q", e.Kind, e.ID)
}

// UnresolvedNodeError reports a process input or output identifier that
// matched none of the pools tried, listing every pool attempted.
type UnresolvedNodeError struct {
	ID    string
	Pools []Kind
}

func (e UnresolvedNodeError) Error() string {
	names := make([]string, 0, len(e.Pools))
	for _, p := range e.Pools {
		names = append(names, string(p))
	}
	return fmt.Sprintf("node %q not found in any of the %s pools", e.ID, strings.Join(names, ", "))
}

// Scope is one resolution level. Lookups fall through to the parent when an
// identifier is absent locally; declarations always land in this scope.
type Scope struct {
	parent *Scope
	pools  map[Kind]map[string]any
}

// NewScope creates a root scope for one load operation.
func NewScope() *Scope {
	return &Scope{pools: make(map[Kind]map[string]any)}
}

// Child layers a nested scope (one per assay) over this one.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, pools: make(map[Kind]map[string]any)}
}

// Declare inserts an entity into the named pool of the active scope.
func (s *Scope) Declare(kind Kind, id string, entity any) error {
	pool := s.pools[kind]
	if pool == nil {
		pool = make(map[string]any)
		s.pools[kind] = pool
	}
	if _, exists := pool[id]; exists {
		return DuplicateIdentifierError{Kind: kind, ID: id}
	}
	pool[id] = entity
	return nil
}

// Resolve looks an identifier up in the named pool, falling through to
// enclosing scopes.
func (s *Scope) Resolve(kind Kind, id string) (any, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if entity, ok := cur.pools[kind][id]; ok {
			return entity, nil
		}
	}
	return nil, UnresolvedReferenceError{Kind: kind, ID: id}
}

// Resolve returns the entity declared under id in the named pool of scope s,
// asserted to T. A declaration of the wrong type is reported as unresolved;
// pools are homogeneous by construction so this only guards programmer error.
func Resolve[T any](s *Scope, kind Kind, id string) (T, error) {
	var zero T
	entity, err := s.Resolve(kind, id)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, UnresolvedReferenceError{Kind: kind, ID: id}
	}
	return typed, nil
}

// ResolveNode resolves a process input or output identifier against the
// given pools in order, returning the first hit. The pool order is fixed by
// the caller: source, sample for study processes; sample, material, data
// file for assay processes.
func (s *Scope) ResolveNode(id string, pools ...Kind) (isa.ProcessNode, error) {
	for _, kind := range pools {
		entity, err := s.Resolve(kind, id)
		if err != nil {
			continue
		}
		if node, ok := entity.(isa.ProcessNode); ok {
			return node, nil
		}
	}
	return nil, UnresolvedNodeError{ID: id, Pools: pools}
}
