package isa

import (
	"encoding/json"
	"testing"
)

func TestValueVariants(t *testing.T) {
	var undefined Value
	if undefined.Defined() {
		t.Fatalf("zero value reported as defined")
	}

	text := TextValue("wild type")
	if s, ok := text.Text(); !ok || s != "wild type" {
		t.Fatalf("text accessor returned %q, %v", s, ok)
	}
	if _, ok := text.Number(); ok {
		t.Fatalf("text value answered as number")
	}

	num := NumberValue(4.5)
	if f, ok := num.Number(); !ok || f != 4.5 {
		t.Fatalf("number accessor returned %v, %v", f, ok)
	}
	if num.String() != "4.5" {
		t.Fatalf("unexpected string form %q", num.String())
	}

	ann := AnnotationValue(&OntologyAnnotation{Term: "Homo sapiens"})
	a, ok := ann.Annotation()
	if !ok || a.Term != "Homo sapiens" {
		t.Fatalf("annotation accessor returned %v, %v", a, ok)
	}
	if ann.String() != "Homo sapiens" {
		t.Fatalf("unexpected string form %q", ann.String())
	}
}

func TestValueMarshalJSON(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{TextValue("soil"), `"soil"`},
		{NumberValue(3), `3`},
		{AnnotationValue(&OntologyAnnotation{Term: "ER", TermAccession: "acc"}), `{"annotationValue":"ER","termAccession":"acc"}`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(tc.value)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tc.want {
			t.Fatalf("marshal %v: got %s, want %s", tc.value.Kind(), data, tc.want)
		}
	}
}
