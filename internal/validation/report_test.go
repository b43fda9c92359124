package validation

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReportCounts(t *testing.T) {
	r := NewReport("doc.json")
	r.Warn("first %s", "warning")
	r.Warn("second warning")
	r.Error("an error")
	r.Fatal("a fatal")

	if r.Warnings() != 2 || r.Errors() != 1 || r.Fatals() != 1 {
		t.Fatalf("counts = %d/%d/%d", r.Warnings(), r.Errors(), r.Fatals())
	}
	findings := r.Findings()
	if len(findings) != 4 {
		t.Fatalf("expected 4 findings, got %d", len(findings))
	}
	if findings[0].Message != "first warning" || findings[0].Level != LevelWarning {
		t.Fatalf("finding order or formatting broken: %+v", findings[0])
	}
}

func TestReportFindingsAreACopy(t *testing.T) {
	r := NewReport("doc.json")
	r.Warn("only warning")
	findings := r.Findings()
	findings[0].Message = "mutated"
	if r.Findings()[0].Message != "only warning" {
		t.Fatalf("Findings must return a copy")
	}
}

func TestReportMarshalJSON(t *testing.T) {
	r := NewReport("doc.json")
	r.Error("broken reference")
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"document":"doc.json"`) || !strings.Contains(s, `"broken reference"`) {
		t.Fatalf("unexpected JSON %s", s)
	}
}
