package index

import (
	"errors"
	"testing"

	"studycore/pkg/isa"
)

func TestDeclareAndResolve(t *testing.T) {
	scope := NewScope()
	protocol := &isa.Protocol{ID: "#protocol/extraction", Name: "extraction"}
	if err := scope.Declare(KindProtocol, protocol.ID, protocol); err != nil {
		t.Fatalf("declare: %v", err)
	}
	got, err := Resolve[*isa.Protocol](scope, KindProtocol, protocol.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != protocol {
		t.Fatalf("resolved wrong entity")
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	scope := NewScope()
	if err := scope.Declare(KindSample, "#sample/1", &isa.Sample{ID: "#sample/1"}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	err := scope.Declare(KindSample, "#sample/1", &isa.Sample{ID: "#sample/1"})
	var dup DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIdentifierError, got %v", err)
	}
	if dup.Kind != KindSample || dup.ID != "#sample/1" {
		t.Fatalf("unexpected error detail %+v", dup)
	}
}

func TestResolveMissing(t *testing.T) {
	scope := NewScope()
	_, err := Resolve[*isa.Protocol](scope, KindProtocol, "#protocol/missing")
	var unresolved UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedReferenceError, got %v", err)
	}
	if unresolved.Kind != KindProtocol || unresolved.ID != "#protocol/missing" {
		t.Fatalf("unexpected error detail %+v", unresolved)
	}
}

func TestChildScopeFallsThrough(t *testing.T) {
	parent := NewScope()
	sample := &isa.Sample{ID: "#sample/1"}
	if err := parent.Declare(KindSample, sample.ID, sample); err != nil {
		t.Fatalf("declare: %v", err)
	}
	child := parent.Child()
	got, err := Resolve[*isa.Sample](child, KindSample, sample.ID)
	if err != nil {
		t.Fatalf("child resolve: %v", err)
	}
	if got != sample {
		t.Fatalf("child resolved wrong entity")
	}
}

func TestChildDeclarationsStayLocal(t *testing.T) {
	parent := NewScope()
	child := parent.Child()
	material := &isa.Material{ID: "#material/1"}
	if err := child.Declare(KindMaterial, material.ID, material); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := Resolve[*isa.Material](parent, KindMaterial, material.ID); err == nil {
		t.Fatalf("parent must not see child declarations")
	}
	sibling := parent.Child()
	if _, err := Resolve[*isa.Material](sibling, KindMaterial, material.ID); err == nil {
		t.Fatalf("sibling must not see child declarations")
	}
}

func TestChildCanShadowWithoutCollision(t *testing.T) {
	parent := NewScope()
	if err := parent.Declare(KindUnit, "#unit/0", &isa.OntologyAnnotation{ID: "#unit/0", Term: "mg"}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	child := parent.Child()
	shadow := &isa.OntologyAnnotation{ID: "#unit/0", Term: "kg"}
	if err := child.Declare(KindUnit, shadow.ID, shadow); err != nil {
		t.Fatalf("shadowing declare: %v", err)
	}
	got, err := Resolve[*isa.OntologyAnnotation](child, KindUnit, "#unit/0")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != shadow {
		t.Fatalf("child resolution must prefer the local declaration")
	}
}

func TestResolveNodeOrder(t *testing.T) {
	scope := NewScope()
	source := &isa.Source{ID: "#node/1", Name: "as source"}
	if err := scope.Declare(KindSource, source.ID, source); err != nil {
		t.Fatalf("declare source: %v", err)
	}
	sample := &isa.Sample{ID: "#node/1", Name: "as sample"}
	if err := scope.Declare(KindSample, sample.ID, sample); err != nil {
		t.Fatalf("declare sample: %v", err)
	}

	got, err := scope.ResolveNode("#node/1", KindSource, KindSample)
	if err != nil {
		t.Fatalf("resolve node: %v", err)
	}
	if got.NodeName() != "as source" {
		t.Fatalf("pool order not honored, got %q", got.NodeName())
	}

	got, err = scope.ResolveNode("#node/1", KindSample, KindSource)
	if err != nil {
		t.Fatalf("resolve node: %v", err)
	}
	if got.NodeName() != "as sample" {
		t.Fatalf("pool order not honored, got %q", got.NodeName())
	}
}

func TestResolveNodeMissListsPools(t *testing.T) {
	scope := NewScope()
	_, err := scope.ResolveNode("#node/missing", KindSample, KindMaterial, KindDataFile)
	var miss UnresolvedNodeError
	if !errors.As(err, &miss) {
		t.Fatalf("expected UnresolvedNodeError, got %v", err)
	}
	if len(miss.Pools) != 3 {
		t.Fatalf("expected 3 pools in error, got %v", miss.Pools)
	}
}
