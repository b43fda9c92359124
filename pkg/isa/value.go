package isa

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the shapes a characteristic, factor value or
// parameter value may take in a document.
type ValueKind string

const (
	// ValueUndefined marks the zero Value; no value was recorded.
	ValueUndefined ValueKind = ""
	// ValueText is a free-text value.
	ValueText ValueKind = "text"
	// ValueNumber is a numeric value; it requires a resolvable unit.
	ValueNumber ValueKind = "number"
	// ValueAnnotation is a nested ontology-annotation value.
	ValueAnnotation ValueKind = "annotation"
)

// Value is the tagged variant carried by Characteristic, FactorValue and
// ParameterValue. The zero Value is undefined; constructors produce defined
// values. Accessors report the variant actually held so callers never
// inspect a stale field.
type Value struct {
	kind       ValueKind
	text       string
	number     float64
	annotation *OntologyAnnotation
}

// TextValue wraps a free-text value.
func TextValue(s string) Value {
	return Value{kind: ValueText, text: s}
}

// NumberValue wraps a numeric value.
func NumberValue(f float64) Value {
	return Value{kind: ValueNumber, number: f}
}

// AnnotationValue wraps a nested annotation value.
func AnnotationValue(a *OntologyAnnotation) Value {
	return Value{kind: ValueAnnotation, annotation: a}
}

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// Defined reports whether any value was recorded.
func (v Value) Defined() bool { return v.kind != ValueUndefined }

// Text returns the text variant and whether the value holds one.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == ValueText
}

// Number returns the numeric variant and whether the value holds one.
func (v Value) Number() (float64, bool) {
	return v.number, v.kind == ValueNumber
}

// Annotation returns the annotation variant and whether the value holds one.
func (v Value) Annotation() (*OntologyAnnotation, bool) {
	if v.kind != ValueAnnotation {
		return nil, false
	}
	return v.annotation, true
}

// String renders the value for error messages and display.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return fmt.Sprintf("%g", v.number)
	case ValueAnnotation:
		if v.annotation == nil {
			return ""
		}
		return v.annotation.Term
	default:
		return ""
	}
}

// MarshalJSON emits the document shape of the variant: a string, a number,
// or an annotation object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumber:
		return json.Marshal(v.number)
	case ValueAnnotation:
		return json.Marshal(v.annotation)
	default:
		return json.Marshal(v.text)
	}
}
