package document

import (
	"testing"
)

const sampleDoc = `{
	"identifier": "INV-1",
	"weight": 4.5,
	"empty": null,
	"materials": {
		"sources": [
			{"@id": "#source/1", "name": "source-culture", "characteristics": []}
		]
	},
	"refs": [
		{"@id": "#source/1"}
	],
	"status": {"annotationValue": "published", "termAccession": "", "termSource": "OBI"}
}`

func TestDecodeShapes(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Kind() != KindMapping {
		t.Fatalf("root kind = %s, want mapping", doc.Kind())
	}
	if got := doc.Str("identifier"); got != "INV-1" {
		t.Fatalf("identifier = %q", got)
	}
	if f, ok := doc.Field("weight").NumberValue(); !ok || f != 4.5 {
		t.Fatalf("weight = %v, %v", f, ok)
	}
	if !doc.Field("empty").IsNull() {
		t.Fatalf("null scalar not detected")
	}
	sources := doc.Field("materials").Field("sources")
	if sources.Kind() != KindSequence || sources.Len() != 1 {
		t.Fatalf("sources kind=%s len=%d", sources.Kind(), sources.Len())
	}
	if got := sources.Elems()[0].Str("name"); got != "source-culture" {
		t.Fatalf("source name = %q", got)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"identifier":`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMissingFieldsAreSafe(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Field("absent") != nil {
		t.Fatalf("absent field should be nil")
	}
	if got := doc.Field("absent").Str("deeper"); got != "" {
		t.Fatalf("nil chain Str = %q", got)
	}
	if doc.Field("absent").Elems() != nil {
		t.Fatalf("nil chain Elems should be nil")
	}
}

func TestShapePredicates(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	decl := doc.Field("materials").Field("sources").Elems()[0]
	if !IsDeclaration(decl) {
		t.Fatalf("source node not recognized as declaration")
	}
	if IsReference(decl) {
		t.Fatalf("declaration misread as reference")
	}
	ref := doc.Field("refs").Elems()[0]
	if !IsReference(ref) {
		t.Fatalf("bare @id node not recognized as reference")
	}
	if IsDeclaration(ref) {
		t.Fatalf("reference misread as declaration")
	}
	if Identifier(ref) != "#source/1" {
		t.Fatalf("identifier = %q", Identifier(ref))
	}
	if !IsAnnotation(doc.Field("status")) {
		t.Fatalf("annotation shape not recognized")
	}
	if IsAnnotation(decl) {
		t.Fatalf("declaration misread as annotation")
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	refs := 0
	declarations := 0
	Walk(doc, func(n *Node) {
		if IsReference(n) {
			refs++
		}
		if IsDeclaration(n) {
			declarations++
		}
	})
	if refs != 1 {
		t.Fatalf("walk found %d references, want 1", refs)
	}
	if declarations != 1 {
		t.Fatalf("walk found %d declarations, want 1", declarations)
	}
}

func TestInterfaceRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, ok := doc.Interface().(map[string]any)
	if !ok {
		t.Fatalf("interface form is %T, want map", doc.Interface())
	}
	if raw["identifier"] != "INV-1" {
		t.Fatalf("identifier = %v", raw["identifier"])
	}
	again := FromAny(raw)
	if again.Str("identifier") != "INV-1" {
		t.Fatalf("re-built tree lost identifier")
	}
	if again.Field("materials").Field("sources").Len() != 1 {
		t.Fatalf("re-built tree lost sources")
	}
}
