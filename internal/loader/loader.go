// Package loader materializes an Investigation object graph from a parsed
// document tree. Construction is dependency-ordered and fail-fast: every
// section is fully consumed before the next begins, and the first unresolved
// reference, malformed value shape or missing required field aborts the
// whole load with no partial graph exposed.
package loader

import (
	"fmt"

	"studycore/internal/document"
	"studycore/internal/index"
	"studycore/pkg/isa"
)

// ArrayDesignRef is the reserved parameter identifier whose value is carried
// as a free-form process property instead of a parameter value.
const ArrayDesignRef = "#parameter/Array_Design_REF"

// Load builds the fully linked Investigation from the document tree. The
// reference index it creates lives only for this call.
func Load(doc *document.Node) (*isa.Investigation, error) {
	if doc.Kind() != document.KindMapping {
		return nil, fmt.Errorf("load: document root must be a mapping, got %s", doc.Kind())
	}
	l := &loader{scope: index.NewScope()}
	return l.investigation(doc)
}

type loader struct {
	scope *index.Scope
}

func (l *loader) investigation(doc *document.Node) (*isa.Investigation, error) {
	inv := &isa.Investigation{}
	var err error
	if inv.Identifier, err = requireString(doc, "identifier"); err != nil {
		return nil, err
	}
	if inv.Title, err = requireString(doc, "title"); err != nil {
		return nil, err
	}
	if inv.Description, err = requireString(doc, "description"); err != nil {
		return nil, err
	}
	if inv.SubmissionDate, err = requireString(doc, "submissionDate"); err != nil {
		return nil, err
	}
	if inv.PublicReleaseDate, err = requireString(doc, "publicReleaseDate"); err != nil {
		return nil, err
	}
	inv.Comments = comments(doc)

	for _, srcNode := range doc.Field("ontologySourceReferences").Elems() {
		src := &isa.OntologySource{
			Name:        srcNode.Str("name"),
			File:        srcNode.Str("file"),
			Version:     srcNode.Str("version"),
			Description: srcNode.Str("description"),
		}
		// The empty name is reserved for "no source"; an unnamed source is
		// kept on the investigation but never enters the pool.
		if src.Name != "" {
			if err := l.scope.Declare(index.KindTermSource, src.Name, src); err != nil {
				return nil, fmt.Errorf("load ontology sources: %w", err)
			}
		}
		inv.OntologySources = append(inv.OntologySources, src)
	}

	if inv.Publications, err = l.publications(doc.Field("publications")); err != nil {
		return nil, fmt.Errorf("load investigation publications: %w", err)
	}
	if inv.People, err = l.people(doc.Field("people")); err != nil {
		return nil, fmt.Errorf("load investigation people: %w", err)
	}

	for i, studyNode := range doc.Field("studies").Elems() {
		study, err := l.study(studyNode)
		if err != nil {
			return nil, fmt.Errorf("load study %d: %w", i, err)
		}
		inv.Studies = append(inv.Studies, study)
	}
	return inv, nil
}

func (l *loader) study(node *document.Node) (*isa.Study, error) {
	// Pre-scan: categories may be declared inside assays but referenced by
	// study-level samples, so every assay's category declarations enter the
	// shared pool before any study field is processed. This is the one
	// deliberate exception to strict top-down order.
	assayCategories, err := l.prescanAssayCategories(node)
	if err != nil {
		return nil, err
	}

	study := &isa.Study{}
	if study.Identifier, err = requireString(node, "identifier"); err != nil {
		return nil, err
	}
	if study.Title, err = requireString(node, "title"); err != nil {
		return nil, err
	}
	if study.Description, err = requireString(node, "description"); err != nil {
		return nil, err
	}
	if study.SubmissionDate, err = requireString(node, "submissionDate"); err != nil {
		return nil, err
	}
	if study.PublicReleaseDate, err = requireString(node, "publicReleaseDate"); err != nil {
		return nil, err
	}
	if study.Filename, err = requireString(node, "filename"); err != nil {
		return nil, err
	}
	study.Comments = comments(node)

	for _, catNode := range node.Field("characteristicCategories").Elems() {
		category, err := l.characteristicCategory(catNode)
		if err != nil {
			return nil, err
		}
		if err := l.scope.Declare(index.KindCategory, category.ID, category); err != nil {
			return nil, err
		}
		study.CharacteristicCategories = append(study.CharacteristicCategories, category)
	}
	for _, unitNode := range node.Field("unitCategories").Elems() {
		unit, err := l.unitCategory(unitNode)
		if err != nil {
			return nil, err
		}
		if err := l.scope.Declare(index.KindUnit, unit.ID, unit); err != nil {
			return nil, err
		}
		study.UnitCategories = append(study.UnitCategories, unit)
	}

	if study.Publications, err = l.publications(node.Field("publications")); err != nil {
		return nil, err
	}
	if study.People, err = l.people(node.Field("people")); err != nil {
		return nil, err
	}
	for _, descNode := range node.Field("studyDesignDescriptors").Elems() {
		descriptor, err := l.annotation(descNode)
		if err != nil {
			return nil, err
		}
		study.DesignDescriptors = append(study.DesignDescriptors, *descriptor)
	}

	for _, protNode := range node.Field("protocols").Elems() {
		protocol, err := l.protocol(protNode)
		if err != nil {
			return nil, err
		}
		if err := l.scope.Declare(index.KindProtocol, protocol.ID, protocol); err != nil {
			return nil, err
		}
		study.Protocols = append(study.Protocols, protocol)
	}
	for _, factorNode := range node.Field("factors").Elems() {
		factorType, err := l.annotation(factorNode.Field("factorType"))
		if err != nil {
			return nil, err
		}
		factor := &isa.StudyFactor{
			ID:         document.Identifier(factorNode),
			Name:       factorNode.Str("factorName"),
			FactorType: *factorType,
		}
		if err := l.scope.Declare(index.KindFactor, factor.ID, factor); err != nil {
			return nil, err
		}
		study.Factors = append(study.Factors, factor)
	}

	materials := node.Field("materials")
	for _, srcNode := range materials.Field("sources").Elems() {
		source, err := l.source(srcNode)
		if err != nil {
			return nil, err
		}
		if err := l.scope.Declare(index.KindSource, source.ID, source); err != nil {
			return nil, err
		}
		study.Sources = append(study.Sources, source)
	}
	for _, sampleNode := range materials.Field("samples").Elems() {
		sample, err := l.sample(sampleNode)
		if err != nil {
			return nil, err
		}
		if err := l.scope.Declare(index.KindSample, sample.ID, sample); err != nil {
			return nil, err
		}
		study.Samples = append(study.Samples, sample)
	}

	study.Processes, err = l.processSequence(node.Field("processSequence"), l.scope, studyNodePools, nil)
	if err != nil {
		return nil, err
	}
	study.Graph = isa.NewWorkflowGraph(study.Processes)

	for i, assayNode := range node.Field("assays").Elems() {
		assay, err := l.assay(assayNode, assayCategories[i])
		if err != nil {
			return nil, fmt.Errorf("load assay %d: %w", i, err)
		}
		study.Assays = append(study.Assays, assay)
	}
	return study, nil
}

// prescanAssayCategories declares every assay-level characteristic category
// of the study into the shared pool and returns them grouped per assay so
// the assay builder can attach them without redeclaring.
func (l *loader) prescanAssayCategories(studyNode *document.Node) ([][]*isa.OntologyAnnotation, error) {
	assays := studyNode.Field("assays").Elems()
	perAssay := make([][]*isa.OntologyAnnotation, len(assays))
	for i, assayNode := range assays {
		for _, catNode := range assayNode.Field("characteristicCategories").Elems() {
			category, err := l.characteristicCategory(catNode)
			if err != nil {
				return nil, err
			}
			if err := l.scope.Declare(index.KindCategory, category.ID, category); err != nil {
				return nil, err
			}
			perAssay[i] = append(perAssay[i], category)
		}
	}
	return perAssay, nil
}

func (l *loader) assay(node *document.Node, categories []*isa.OntologyAnnotation) (*isa.Assay, error) {
	scope := l.scope.Child()

	measurementType, err := l.annotation(node.Field("measurementType"))
	if err != nil {
		return nil, err
	}
	technologyType, err := l.annotation(node.Field("technologyType"))
	if err != nil {
		return nil, err
	}
	assay := &isa.Assay{
		MeasurementType:          *measurementType,
		TechnologyType:           *technologyType,
		CharacteristicCategories: categories,
	}
	if assay.TechnologyPlatform, err = requireString(node, "technologyPlatform"); err != nil {
		return nil, err
	}
	if assay.Filename, err = requireString(node, "filename"); err != nil {
		return nil, err
	}

	for _, unitNode := range node.Field("unitCategories").Elems() {
		unit, err := l.unitCategory(unitNode)
		if err != nil {
			return nil, err
		}
		if err := scope.Declare(index.KindUnit, unit.ID, unit); err != nil {
			return nil, err
		}
		assay.UnitCategories = append(assay.UnitCategories, unit)
	}

	for _, fileNode := range node.Field("dataFiles").Elems() {
		file := &isa.DataFile{
			ID:       document.Identifier(fileNode),
			Name:     fileNode.Str("name"),
			Label:    fileNode.Str("type"),
			Comments: comments(fileNode),
		}
		if err := scope.Declare(index.KindDataFile, file.ID, file); err != nil {
			return nil, err
		}
		assay.DataFiles = append(assay.DataFiles, file)
	}

	materials := node.Field("materials")
	for _, sampleRef := range materials.Field("samples").Elems() {
		sample, err := index.Resolve[*isa.Sample](scope, index.KindSample, document.Identifier(sampleRef))
		if err != nil {
			return nil, err
		}
		assay.Samples = append(assay.Samples, sample)
	}
	for _, matNode := range materials.Field("otherMaterials").Elems() {
		material, err := l.otherMaterial(matNode)
		if err != nil {
			return nil, err
		}
		if err := scope.Declare(index.KindMaterial, material.ID, material); err != nil {
			return nil, err
		}
		assay.OtherMaterials = append(assay.OtherMaterials, material)
	}

	assay.Processes, err = l.processSequence(node.Field("processSequence"), scope, assayNodePools, assay)
	if err != nil {
		return nil, err
	}
	assay.Graph = isa.NewWorkflowGraph(assay.Processes)
	return assay, nil
}

// Input/output resolution precedence per enclosing scope.
var (
	studyNodePools = []index.Kind{index.KindSource, index.KindSample}
	assayNodePools = []index.Kind{index.KindSample, index.KindMaterial, index.KindDataFile}
)

// processSequence runs the two construction passes over one sequence: the
// first builds every process and resolves protocols, parameter values and
// inputs/outputs; the second links prev/next pointers, which requires all
// processes of the sequence to exist. assay is nil for study sequences.
func (l *loader) processSequence(seq *document.Node, scope *index.Scope, pools []index.Kind, assay *isa.Assay) ([]*isa.Process, error) {
	var processes []*isa.Process
	arena := make(map[string]*isa.Process)

	for _, procNode := range seq.Elems() {
		process, err := l.process(procNode, scope, pools, assay)
		if err != nil {
			return nil, err
		}
		if err := scope.Declare(index.KindProcess, process.ID, process); err != nil {
			return nil, err
		}
		arena[process.ID] = process
		processes = append(processes, process)
	}

	// Second pass: prev/next must land on a process declared within this
	// same sequence, so resolution goes through the arena, not the scope.
	for _, procNode := range seq.Elems() {
		process := arena[document.Identifier(procNode)]
		if prev := procNode.Field("previousProcess"); prev != nil {
			target, ok := arena[document.Identifier(prev)]
			if !ok {
				return nil, index.UnresolvedReferenceError{Kind: index.KindProcess, ID: document.Identifier(prev)}
			}
			process.Previous = target
		}
		if next := procNode.Field("nextProcess"); next != nil {
			target, ok := arena[document.Identifier(next)]
			if !ok {
				return nil, index.UnresolvedReferenceError{Kind: index.KindProcess, ID: document.Identifier(next)}
			}
			process.Next = target
		}
	}
	return processes, nil
}

func (l *loader) process(node *document.Node, scope *index.Scope, pools []index.Kind, assay *isa.Assay) (*isa.Process, error) {
	protocol, err := index.Resolve[*isa.Protocol](scope, index.KindProtocol, document.Identifier(node.Field("executesProtocol")))
	if err != nil {
		return nil, err
	}
	process := &isa.Process{
		ID:        document.Identifier(node),
		Protocol:  protocol,
		Date:      node.Str("date"),
		Performer: node.Str("performer"),
		Comments:  comments(node),
	}

	if assay != nil {
		l.applyProtocolProperties(process, node, assay)
	}

	for _, pvNode := range node.Field("parameterValues").Elems() {
		categoryID := document.Identifier(pvNode.Field("category"))
		if assay != nil && categoryID == ArrayDesignRef {
			if process.AdditionalProperties == nil {
				process.AdditionalProperties = make(map[string]string)
			}
			process.AdditionalProperties["Array Design REF"] = pvNode.Str("value")
			continue
		}
		parameter, err := index.Resolve[*isa.ProtocolParameter](scope, index.KindParameter, categoryID)
		if err != nil {
			return nil, err
		}
		value, unit, err := l.valueWithUnit(pvNode, scope)
		if err != nil {
			return nil, err
		}
		process.ParameterValues = append(process.ParameterValues, isa.ParameterValue{
			Parameter: parameter,
			Value:     value,
			Unit:      unit,
		})
	}

	for _, inputRef := range node.Field("inputs").Elems() {
		input, err := scope.ResolveNode(document.Identifier(inputRef), pools...)
		if err != nil {
			return nil, fmt.Errorf("process %q input: %w", process.ID, err)
		}
		process.Inputs = append(process.Inputs, input)
	}
	for _, outputRef := range node.Field("outputs").Elems() {
		output, err := scope.ResolveNode(document.Identifier(outputRef), pools...)
		if err != nil {
			return nil, fmt.Errorf("process %q output: %w", process.ID, err)
		}
		process.Outputs = append(process.Outputs, output)
	}
	return process, nil
}

// applyProtocolProperties records protocol-type-dependent name labels from
// assay processes as free-form keyed properties.
func (l *loader) applyProtocolProperties(process *isa.Process, node *document.Node, assay *isa.Assay) {
	name := node.Str("name")
	if name == "" {
		return
	}
	var label string
	switch process.Protocol.ProtocolType.Term {
	case "data collection":
		if assay.TechnologyType.Term == "DNA microarray" {
			label = "Scan Name"
		}
	case "nucleic acid sequencing":
		label = "Assay Name"
	case "nucleic acid hybridization":
		label = "Hybridization Assay Name"
	case "data transformation":
		label = "Data Transformation Name"
	case "data normalization":
		label = "Normalization Name"
	}
	if label == "" {
		return
	}
	if process.AdditionalProperties == nil {
		process.AdditionalProperties = make(map[string]string)
	}
	process.AdditionalProperties[label] = name
}

func (l *loader) source(node *document.Node) (*isa.Source, error) {
	source := &isa.Source{
		ID:   document.Identifier(node),
		Name: stripPrefix(node.Str("name"), "source-"),
	}
	var err error
	if source.Characteristics, err = l.characteristics(node, l.scope); err != nil {
		return nil, fmt.Errorf("source %q: %w", source.ID, err)
	}
	return source, nil
}

func (l *loader) sample(node *document.Node) (*isa.Sample, error) {
	sample := &isa.Sample{
		ID:   document.Identifier(node),
		Name: stripPrefix(node.Str("name"), "sample-"),
	}
	var err error
	if sample.Characteristics, err = l.characteristics(node, l.scope); err != nil {
		return nil, fmt.Errorf("sample %q: %w", sample.ID, err)
	}
	for _, fvNode := range node.Field("factorValues").Elems() {
		factor, err := index.Resolve[*isa.StudyFactor](l.scope, index.KindFactor, document.Identifier(fvNode.Field("category")))
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", sample.ID, err)
		}
		value, unit, err := l.valueWithUnit(fvNode, l.scope)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", sample.ID, err)
		}
		sample.FactorValues = append(sample.FactorValues, isa.FactorValue{
			Factor: factor,
			Value:  value,
			Unit:   unit,
		})
	}
	// derives-from is kept as raw identifiers; resolution to Source objects
	// is deliberately not performed.
	for _, ref := range node.Field("derivesFrom").Elems() {
		if id := document.Identifier(ref); id != "" {
			sample.DerivesFrom = append(sample.DerivesFrom, id)
			continue
		}
		if s, ok := ref.StringValue(); ok {
			sample.DerivesFrom = append(sample.DerivesFrom, s)
		}
	}
	return sample, nil
}

func (l *loader) otherMaterial(node *document.Node) (*isa.Material, error) {
	name := node.Str("name")
	if stripped := stripPrefix(name, "labeledextract-"); stripped != name {
		name = stripped
	} else {
		name = stripPrefix(name, "extract-")
	}
	material := &isa.Material{
		ID:   document.Identifier(node),
		Name: name,
		Type: node.Str("type"),
	}
	var err error
	if material.Characteristics, err = l.characteristics(node, l.scope); err != nil {
		return nil, fmt.Errorf("material %q: %w", material.ID, err)
	}
	return material, nil
}

func (l *loader) characteristics(owner *document.Node, scope *index.Scope) ([]isa.Characteristic, error) {
	var out []isa.Characteristic
	for _, charNode := range owner.Field("characteristics").Elems() {
		category, err := index.Resolve[*isa.OntologyAnnotation](scope, index.KindCategory, document.Identifier(charNode.Field("category")))
		if err != nil {
			return nil, err
		}
		value, unit, err := l.valueWithUnit(charNode, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, isa.Characteristic{Category: category, Value: value, Unit: unit})
	}
	return out, nil
}

// valueWithUnit decodes the value/unit pair shared by characteristics,
// factor values and parameter values. A mapping value must have the
// annotation shape; a numeric value must carry a resolvable unit; a string
// stands alone. Anything else is a malformed shape.
func (l *loader) valueWithUnit(node *document.Node, scope *index.Scope) (isa.Value, *isa.OntologyAnnotation, error) {
	valueNode := node.Field("value")
	switch valueNode.Kind() {
	case document.KindMapping:
		annotation, err := l.annotation(valueNode)
		if err != nil {
			return isa.Value{}, nil, fmt.Errorf("cannot create value as annotation: %w", err)
		}
		return isa.AnnotationValue(annotation), nil, nil
	case document.KindScalar:
		if num, ok := valueNode.NumberValue(); ok {
			unit, err := index.Resolve[*isa.OntologyAnnotation](scope, index.KindUnit, document.Identifier(node.Field("unit")))
			if err != nil {
				return isa.Value{}, nil, err
			}
			return isa.NumberValue(num), unit, nil
		}
		if s, ok := valueNode.StringValue(); ok {
			return isa.TextValue(s), nil, nil
		}
	}
	return isa.Value{}, nil, fmt.Errorf("unexpected value shape %s", valueNode.Kind())
}

func (l *loader) protocol(node *document.Node) (*isa.Protocol, error) {
	protocolType, err := l.annotation(node.Field("protocolType"))
	if err != nil {
		return nil, err
	}
	protocol := &isa.Protocol{
		ID:           document.Identifier(node),
		Name:         node.Str("name"),
		URI:          node.Str("uri"),
		Description:  node.Str("description"),
		Version:      node.Str("version"),
		ProtocolType: *protocolType,
	}
	for _, paramNode := range node.Field("parameters").Elems() {
		parameterName, err := l.annotation(paramNode.Field("parameterName"))
		if err != nil {
			return nil, err
		}
		parameter := &isa.ProtocolParameter{
			ID:            document.Identifier(paramNode),
			ParameterName: *parameterName,
		}
		if err := l.scope.Declare(index.KindParameter, parameter.ID, parameter); err != nil {
			return nil, err
		}
		protocol.Parameters = append(protocol.Parameters, parameter)
	}
	for _, compNode := range node.Field("components").Elems() {
		componentType, err := l.annotation(compNode.Field("componentType"))
		if err != nil {
			return nil, err
		}
		protocol.Components = append(protocol.Components, isa.ProtocolComponent{
			Name:          compNode.Str("componentName"),
			ComponentType: *componentType,
		})
	}
	return protocol, nil
}

func (l *loader) characteristicCategory(node *document.Node) (*isa.OntologyAnnotation, error) {
	category, err := l.annotation(node.Field("characteristicType"))
	if err != nil {
		return nil, err
	}
	category.ID = document.Identifier(node)
	return category, nil
}

func (l *loader) unitCategory(node *document.Node) (*isa.OntologyAnnotation, error) {
	unit, err := l.annotation(node)
	if err != nil {
		return nil, err
	}
	unit.ID = document.Identifier(node)
	return unit, nil
}

// annotation builds an ontology annotation, resolving its term source
// against the pool built in phase two. An empty source name means no source.
func (l *loader) annotation(node *document.Node) (*isa.OntologyAnnotation, error) {
	if node.Kind() != document.KindMapping {
		return nil, fmt.Errorf("annotation must be a mapping, got %s", node.Kind())
	}
	for _, key := range []string{"annotationValue", "termAccession", "termSource"} {
		if !node.Has(key) {
			return nil, fmt.Errorf("annotation missing %s", key)
		}
	}
	source, err := l.termSource(node.Str("termSource"))
	if err != nil {
		return nil, err
	}
	return &isa.OntologyAnnotation{
		Term:          node.Str("annotationValue"),
		TermSource:    source,
		TermAccession: node.Str("termAccession"),
	}, nil
}

func (l *loader) termSource(name string) (*isa.OntologySource, error) {
	if name == "" {
		return nil, nil
	}
	return index.Resolve[*isa.OntologySource](l.scope, index.KindTermSource, name)
}

func (l *loader) publications(seq *document.Node) ([]isa.Publication, error) {
	var out []isa.Publication
	for _, pubNode := range seq.Elems() {
		status, err := l.annotation(pubNode.Field("status"))
		if err != nil {
			return nil, err
		}
		out = append(out, isa.Publication{
			PubMedID:   pubNode.Str("pubMedID"),
			DOI:        pubNode.Str("doi"),
			AuthorList: pubNode.Str("authorList"),
			Title:      pubNode.Str("title"),
			Status:     *status,
			Comments:   comments(pubNode),
		})
	}
	return out, nil
}

func (l *loader) people(seq *document.Node) ([]isa.Person, error) {
	var out []isa.Person
	for _, personNode := range seq.Elems() {
		person := isa.Person{
			LastName:    personNode.Str("lastName"),
			FirstName:   personNode.Str("firstName"),
			MidInitials: personNode.Str("midInitials"),
			Email:       personNode.Str("email"),
			Phone:       personNode.Str("phone"),
			Fax:         personNode.Str("fax"),
			Address:     personNode.Str("address"),
			Affiliation: personNode.Str("affiliation"),
			Comments:    comments(personNode),
		}
		for _, roleNode := range personNode.Field("roles").Elems() {
			role, err := l.annotation(roleNode)
			if err != nil {
				return nil, err
			}
			person.Roles = append(person.Roles, *role)
		}
		out = append(out, person)
	}
	return out, nil
}

func comments(node *document.Node) []isa.Comment {
	var out []isa.Comment
	for _, c := range node.Field("comments").Elems() {
		out = append(out, isa.Comment{Name: c.Str("name"), Value: c.Str("value")})
	}
	return out
}

func requireString(node *document.Node, key string) (string, error) {
	field := node.Field(key)
	if field == nil {
		return "", fmt.Errorf("missing required field %q", key)
	}
	if field.IsNull() {
		return "", nil
	}
	s, ok := field.StringValue()
	if !ok {
		return "", fmt.Errorf("field %q must be a string", key)
	}
	return s, nil
}

func stripPrefix(name, prefix string) string {
	if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}
