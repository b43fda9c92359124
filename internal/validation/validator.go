package validation

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"studycore/internal/datafile"
	"studycore/internal/document"
	"studycore/internal/loader"
	"studycore/internal/schema"
)

var (
	pubMedIDPattern = regexp.MustCompile(`^[0-9]{1,8}$`)
	doiPattern      = regexp.MustCompile(`^10[.][0-9]{4,9}(?:[.][0-9]+)*/\S+$`)
)

// Validator scans a raw document tree for integrity problems. It shares
// nothing with the loader except the secondary pass, which re-runs the
// loader to surface link-level errors the tree patterns cannot express.
type Validator struct {
	schema schema.Validator
	prober datafile.Prober
}

// New builds a validator. A nil schema validator accepts every document; a
// nil prober skips data-file presence checks.
func New(schemaValidator schema.Validator, prober datafile.Prober) *Validator {
	if schemaValidator == nil {
		schemaValidator = schema.AcceptAll()
	}
	return &Validator{schema: schemaValidator, prober: prober}
}

// ValidateStructure runs every check over doc, accumulating findings into
// report. dir is the directory context for data-file presence probes. Only
// a schema failure stops the scan; it is recorded as fatal and returned.
// All other findings land in the report and the error result is nil.
func (v *Validator) ValidateStructure(ctx context.Context, doc *document.Node, dir string, report *Report) error {
	if err := v.schema.Validate(doc.Interface()); err != nil {
		report.Fatal("%v", err)
		return err
	}

	v.checkFilenames(doc, report)
	declaredSources := v.checkOntologySources(doc, report)
	v.checkDateFormats(doc, report)
	v.checkTermSourceRefs(doc, declaredSources, report)
	v.checkPublicationIDs(doc, report)
	v.checkDeclarableNames(doc, report)
	v.checkObjectRefs(doc, report)
	v.checkObjectUsage(doc, report)
	v.checkDataFiles(ctx, doc, dir, report)
	v.checkLinks(doc, report)
	return nil
}

func (v *Validator) checkFilenames(doc *document.Node, report *Report) {
	for _, study := range doc.Field("studies").Elems() {
		if study.Str("filename") == "" {
			report.Warn("a study filename is missing")
		}
		for _, assay := range study.Field("assays").Elems() {
			if assay.Str("filename") == "" {
				report.Warn("an assay filename is missing")
			}
		}
	}
}

// checkOntologySources returns the set of declared source names. The empty
// name stands for "no source" and is always a member, but a source declared
// with an empty name still draws a warning because nothing can reference it.
func (v *Validator) checkOntologySources(doc *document.Node, report *Report) map[string]struct{} {
	declared := map[string]struct{}{"": {}}
	for _, src := range doc.Field("ontologySourceReferences").Elems() {
		name := src.Str("name")
		if name == "" {
			report.Warn("an ontology source reference is missing its name, so it cannot be referenced")
			continue
		}
		declared[name] = struct{}{}
	}
	return declared
}

func (v *Validator) checkDateFormats(doc *document.Node, report *Report) {
	checkDate := func(value string) {
		if value == "" {
			return
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			report.Warn("date %q is not an ISO-8601 calendar date", value)
		}
	}
	checkDate(doc.Str("publicReleaseDate"))
	checkDate(doc.Str("submissionDate"))
	for _, study := range doc.Field("studies").Elems() {
		checkDate(study.Str("publicReleaseDate"))
		checkDate(study.Str("submissionDate"))
		for _, process := range study.Field("processSequence").Elems() {
			checkDate(process.Str("date"))
		}
	}
}

func (v *Validator) checkTermSourceRefs(doc *document.Node, declared map[string]struct{}, report *Report) {
	document.Walk(doc, func(n *document.Node) {
		if !document.IsAnnotation(n) {
			return
		}
		source := n.Str("termSource")
		if _, ok := declared[source]; !ok {
			report.Warn("annotation %q references term source %q that has not been declared",
				n.Str("annotationValue"), source)
		}
	})
}

func (v *Validator) checkPublicationIDs(doc *document.Node, report *Report) {
	checkPublication := func(pub *document.Node) {
		if id := pub.Str("pubMedID"); id != "" && !pubMedIDPattern.MatchString(id) {
			report.Warn("PubMed ID %q is not valid", id)
		}
		if doi := pub.Str("doi"); doi != "" && !doiPattern.MatchString(doi) {
			report.Warn("DOI %q is not valid", doi)
		}
	}
	for _, pub := range doc.Field("publications").Elems() {
		checkPublication(pub)
	}
	for _, study := range doc.Field("studies").Elems() {
		for _, pub := range study.Field("publications").Elems() {
			checkPublication(pub)
		}
	}
}

// checkDeclarableNames warns on protocols, protocol parameters and study
// factors declared with empty names. Such entities cannot be referenced by
// name in downstream tabular renderings.
func (v *Validator) checkDeclarableNames(doc *document.Node, report *Report) {
	for _, study := range doc.Field("studies").Elems() {
		for _, protocol := range study.Field("protocols").Elems() {
			if protocol.Str("name") == "" {
				report.Warn("a protocol is missing its name, so it cannot be referenced")
			}
			for _, parameter := range protocol.Field("parameters").Elems() {
				if parameter.Field("parameterName").Str("annotationValue") == "" {
					report.Warn("a protocol parameter is missing its name, so it cannot be referenced")
				}
			}
		}
		for _, factor := range study.Field("factors").Elems() {
			if factor.Str("factorName") == "" {
				report.Warn("a study factor is missing its name, so it cannot be referenced")
			}
		}
	}
}

// checkObjectRefs collects every declaration node by identifier, then walks
// the tree again reporting each reference node whose identifier was never
// declared. The array-design sentinel is exempt.
func (v *Validator) checkObjectRefs(doc *document.Node, report *Report) {
	declared := collectDeclarations(doc)
	document.Walk(doc, func(n *document.Node) {
		if !document.IsReference(n) {
			return
		}
		id := document.Identifier(n)
		if id == loader.ArrayDesignRef {
			return
		}
		if _, ok := declared[id]; !ok {
			report.Error("object reference %s not declared anywhere", id)
		}
	})
}

func collectDeclarations(doc *document.Node) map[string]struct{} {
	declared := make(map[string]struct{})
	document.Walk(doc, func(n *document.Node) {
		if document.IsDeclaration(n) {
			declared[document.Identifier(n)] = struct{}{}
		}
	})
	return declared
}

func collectReferences(doc *document.Node) map[string]struct{} {
	refs := make(map[string]struct{})
	document.Walk(doc, func(n *document.Node) {
		if document.IsReference(n) {
			refs[document.Identifier(n)] = struct{}{}
		}
	})
	return refs
}

// checkObjectUsage warns on declared protocols and factors never referenced
// anywhere, per study, and on declared ontology sources never named by any
// annotation, document-wide.
func (v *Validator) checkObjectUsage(doc *document.Node, report *Report) {
	refs := collectReferences(doc)
	for i, study := range doc.Field("studies").Elems() {
		section := study.Str("identifier")
		if section == "" {
			section = fmt.Sprintf("study loc %d", i+1)
		}
		for _, protocol := range study.Field("protocols").Elems() {
			if id := document.Identifier(protocol); id != "" {
				if _, ok := refs[id]; !ok {
					report.Warn("object reference %s not used anywhere in %s", id, section)
				}
			}
		}
		for _, factor := range study.Field("factors").Elems() {
			if id := document.Identifier(factor); id != "" {
				if _, ok := refs[id]; !ok {
					report.Warn("object reference %s not used anywhere in %s", id, section)
				}
			}
		}
	}

	usedSources := make(map[string]struct{})
	document.Walk(doc, func(n *document.Node) {
		if document.IsAnnotation(n) {
			usedSources[n.Str("termSource")] = struct{}{}
		}
	})
	for _, src := range doc.Field("ontologySourceReferences").Elems() {
		name := src.Str("name")
		if name == "" {
			continue
		}
		if _, ok := usedSources[name]; !ok {
			report.Warn("ontology source %s not used anywhere in the document", name)
		}
	}
}

func (v *Validator) checkDataFiles(ctx context.Context, doc *document.Node, dir string, report *Report) {
	if v.prober == nil {
		return
	}
	for _, study := range doc.Field("studies").Elems() {
		for _, assay := range study.Field("assays").Elems() {
			for _, file := range assay.Field("dataFiles").Elems() {
				name := file.Str("name")
				if name == "" {
					continue
				}
				exists, err := v.prober.Exists(ctx, dir, name)
				if err != nil {
					report.Warn("data file %q could not be probed: %v", name, err)
					continue
				}
				if !exists {
					report.Warn("data file %q does not exist", name)
				}
			}
		}
	}
}

// checkLinks re-runs a full load to catch link-level errors no generic tree
// pattern expresses, such as a prev/next chain landing outside its sequence
// or a workflow graph with a directed cycle.
func (v *Validator) checkLinks(doc *document.Node, report *Report) {
	inv, err := loader.Load(doc)
	if err != nil {
		report.Error("load failed: %v", err)
		return
	}
	for _, study := range inv.Studies {
		if study.Graph != nil && !study.Graph.Acyclic() {
			report.Error("workflow graph for study %q contains a cycle", study.Identifier)
		}
		for _, assay := range study.Assays {
			if assay.Graph != nil && !assay.Graph.Acyclic() {
				report.Error("workflow graph for assay %q contains a cycle", assay.Filename)
			}
		}
	}
}
