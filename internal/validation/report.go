// Package validation walks the raw document tree and accumulates integrity
// findings into a report. Unlike the loader it never halts on a finding:
// only schema non-conformance and non-text input abort a run, and those are
// checked before the structural scan begins.
package validation

import (
	"encoding/json"
	"fmt"
)

// Level grades a finding.
type Level string

const (
	// LevelWarning marks recoverable quality problems.
	LevelWarning Level = "warning"
	// LevelError marks integrity violations the scan continues past.
	LevelError Level = "error"
	// LevelFatal marks the pre-checks that abort a run.
	LevelFatal Level = "fatal"
)

// Finding is one reported problem.
type Finding struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Report accumulates findings for one document, keyed by a document name
// used for message attribution.
type Report struct {
	name     string
	findings []Finding
}

// NewReport creates an empty report attributed to the named document.
func NewReport(name string) *Report {
	return &Report{name: name}
}

// Name returns the document this report is attributed to.
func (r *Report) Name() string { return r.name }

// Warn records a warning-level finding.
func (r *Report) Warn(format string, args ...any) {
	r.add(LevelWarning, format, args...)
}

// Error records an error-level finding.
func (r *Report) Error(format string, args ...any) {
	r.add(LevelError, format, args...)
}

// Fatal records a fatal finding.
func (r *Report) Fatal(format string, args ...any) {
	r.add(LevelFatal, format, args...)
}

func (r *Report) add(level Level, format string, args ...any) {
	r.findings = append(r.findings, Finding{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Findings returns all findings in the order they were recorded.
func (r *Report) Findings() []Finding {
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

func (r *Report) count(level Level) int {
	n := 0
	for _, f := range r.findings {
		if f.Level == level {
			n++
		}
	}
	return n
}

// Warnings counts warning-level findings.
func (r *Report) Warnings() int { return r.count(LevelWarning) }

// Errors counts error-level findings.
func (r *Report) Errors() int { return r.count(LevelError) }

// Fatals counts fatal findings.
func (r *Report) Fatals() int { return r.count(LevelFatal) }

// MarshalJSON serialises the report for journalling.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Document string    `json:"document"`
		Findings []Finding `json:"findings"`
	}{Document: r.name, Findings: r.findings})
}
