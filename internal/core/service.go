// Package core wires the loader, validator and their collaborators behind
// one service facade with logging, metrics and tracing hooks.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"studycore/internal/datafile"
	"studycore/internal/document"
	"studycore/internal/journal"
	"studycore/internal/loader"
	"studycore/internal/schema"
	"studycore/internal/validation"
	"studycore/pkg/isa"
)

// Service exposes the load and validate operations.
type Service struct {
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	journal journal.Journal
	schema  schema.Validator
	prober  datafile.Prober
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer attaches a tracer.
func WithTracer(t Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithJournal attaches a validation-run journal.
func WithJournal(j journal.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithSchemaValidator attaches the schema-validation delegate. Without one,
// every document passes the schema check.
func WithSchemaValidator(v schema.Validator) Option {
	return func(s *Service) { s.schema = v }
}

// WithProber attaches the data-file presence prober. Without one, data-file
// existence checks are skipped.
func WithProber(p datafile.Prober) Option {
	return func(s *Service) { s.prober = p }
}

// NewService constructs a service with the supplied options.
func NewService(opts ...Option) *Service {
	s := &Service{logger: noopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := time.Now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	err := fn(ctx)
	if span != nil {
		span.End(err)
	}
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
	}
	return err
}

// Load builds the resolved object graph from a parsed document tree. The
// first unresolved reference or malformed field aborts the load.
func (s *Service) Load(ctx context.Context, doc *document.Node) (*isa.Investigation, error) {
	var inv *isa.Investigation
	err := s.observe(ctx, "load", func(context.Context) error {
		var err error
		inv, err = loader.Load(doc)
		return err
	})
	if err != nil {
		s.logger.Error("load failed", "error", err)
		return nil, err
	}
	s.logger.Info("load complete", "studies", len(inv.Studies))
	return inv, nil
}

// Validate runs the full structural scan over doc, attributing findings to
// name. Only a schema failure yields a non-nil error; all other findings
// live in the returned report.
func (s *Service) Validate(ctx context.Context, name string, doc *document.Node) (*validation.Report, error) {
	report := validation.NewReport(name)
	err := s.validate(ctx, report, doc, "")
	return report, err
}

// ValidateFile reads, decodes and validates the document at path. Non-UTF-8
// content and malformed JSON are fatal; everything else accumulates in the
// report. Data-file presence probes run relative to the file's directory.
func (s *Service) ValidateFile(ctx context.Context, path string) (*validation.Report, error) {
	report := validation.NewReport(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		report.Fatal("file is not UTF-8 encoded, not proceeding with parsing")
		s.record(ctx, report)
		return report, fmt.Errorf("file %s is not UTF-8 encoded", path)
	}
	doc, err := document.Decode(data)
	if err != nil {
		report.Fatal("there was an error when trying to parse the document")
		s.record(ctx, report)
		return report, err
	}
	err = s.validate(ctx, report, doc, filepath.Dir(path))
	return report, err
}

func (s *Service) validate(ctx context.Context, report *validation.Report, doc *document.Node, dir string) error {
	v := validation.New(s.schema, s.prober)
	err := s.observe(ctx, "validate", func(ctx context.Context) error {
		return v.ValidateStructure(ctx, doc, dir, report)
	})
	s.record(ctx, report)
	if err != nil {
		s.logger.Error("validation aborted", "document", report.Name(), "error", err)
		return err
	}
	s.logger.Info("validation complete",
		"document", report.Name(),
		"warnings", report.Warnings(),
		"errors", report.Errors())
	return nil
}

func (s *Service) record(ctx context.Context, report *validation.Report) {
	if s.journal == nil {
		return
	}
	entry := journal.Entry{
		Document:   report.Name(),
		RecordedAt: time.Now().UTC(),
		Warnings:   report.Warnings(),
		Errors:     report.Errors(),
		Fatals:     report.Fatals(),
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		s.logger.Warn("journal append failed", "document", report.Name(), "error", err)
	}
}
