package isa

// Document re-serializes the loaded object graph back into the raw document
// shape: declarations are emitted exactly once, at the scope that declared
// them, and cross-references collapse back to bare identifier objects.
func (inv *Investigation) Document() map[string]any {
	doc := map[string]any{
		"identifier":        inv.Identifier,
		"title":             inv.Title,
		"description":       inv.Description,
		"submissionDate":    inv.SubmissionDate,
		"publicReleaseDate": inv.PublicReleaseDate,
		"comments":          commentDocs(inv.Comments),
	}
	sources := make([]any, 0, len(inv.OntologySources))
	for _, src := range inv.OntologySources {
		sources = append(sources, map[string]any{
			"name":        src.Name,
			"file":        src.File,
			"version":     src.Version,
			"description": src.Description,
		})
	}
	doc["ontologySourceReferences"] = sources
	doc["publications"] = publicationDocs(inv.Publications)
	doc["people"] = personDocs(inv.People)
	studies := make([]any, 0, len(inv.Studies))
	for _, study := range inv.Studies {
		studies = append(studies, study.document())
	}
	doc["studies"] = studies
	return doc
}

func (s *Study) document() map[string]any {
	doc := map[string]any{
		"identifier":        s.Identifier,
		"title":             s.Title,
		"description":       s.Description,
		"submissionDate":    s.SubmissionDate,
		"publicReleaseDate": s.PublicReleaseDate,
		"filename":          s.Filename,
		"comments":          commentDocs(s.Comments),
	}
	doc["characteristicCategories"] = categoryDocs(s.CharacteristicCategories)
	doc["unitCategories"] = unitDocs(s.UnitCategories)
	doc["publications"] = publicationDocs(s.Publications)
	doc["people"] = personDocs(s.People)

	descriptors := make([]any, 0, len(s.DesignDescriptors))
	for _, d := range s.DesignDescriptors {
		descriptors = append(descriptors, annotationDoc(d))
	}
	doc["studyDesignDescriptors"] = descriptors

	protocols := make([]any, 0, len(s.Protocols))
	for _, p := range s.Protocols {
		protocols = append(protocols, protocolDoc(p))
	}
	doc["protocols"] = protocols

	factors := make([]any, 0, len(s.Factors))
	for _, f := range s.Factors {
		factors = append(factors, map[string]any{
			"@id":        f.ID,
			"factorName": f.Name,
			"factorType": annotationDoc(f.FactorType),
		})
	}
	doc["factors"] = factors

	srcDocs := make([]any, 0, len(s.Sources))
	for _, src := range s.Sources {
		srcDocs = append(srcDocs, map[string]any{
			"@id":             src.ID,
			"name":            "source-" + src.Name,
			"characteristics": characteristicDocs(src.Characteristics),
		})
	}
	sampleDocs := make([]any, 0, len(s.Samples))
	for _, sm := range s.Samples {
		sampleDocs = append(sampleDocs, sampleDoc(sm))
	}
	doc["materials"] = map[string]any{"sources": srcDocs, "samples": sampleDocs}
	doc["processSequence"] = processDocs(s.Processes)

	assays := make([]any, 0, len(s.Assays))
	for _, a := range s.Assays {
		assays = append(assays, a.document())
	}
	doc["assays"] = assays
	return doc
}

func (a *Assay) document() map[string]any {
	doc := map[string]any{
		"measurementType":    annotationDoc(a.MeasurementType),
		"technologyType":     annotationDoc(a.TechnologyType),
		"technologyPlatform": a.TechnologyPlatform,
		"filename":           a.Filename,
	}
	doc["characteristicCategories"] = categoryDocs(a.CharacteristicCategories)
	doc["unitCategories"] = unitDocs(a.UnitCategories)

	files := make([]any, 0, len(a.DataFiles))
	for _, f := range a.DataFiles {
		fd := map[string]any{"@id": f.ID, "name": f.Name, "type": f.Label}
		if len(f.Comments) > 0 {
			fd["comments"] = commentDocs(f.Comments)
		}
		files = append(files, fd)
	}
	doc["dataFiles"] = files

	sampleRefs := make([]any, 0, len(a.Samples))
	for _, sm := range a.Samples {
		sampleRefs = append(sampleRefs, refDoc(sm.ID))
	}
	materials := make([]any, 0, len(a.OtherMaterials))
	for _, m := range a.OtherMaterials {
		prefix := "extract-"
		if m.Type == "Labeled Extract Name" {
			prefix = "labeledextract-"
		}
		materials = append(materials, map[string]any{
			"@id":             m.ID,
			"name":            prefix + m.Name,
			"type":            m.Type,
			"characteristics": characteristicDocs(m.Characteristics),
		})
	}
	doc["materials"] = map[string]any{"samples": sampleRefs, "otherMaterials": materials}
	doc["processSequence"] = processDocs(a.Processes)
	return doc
}

func protocolDoc(p *Protocol) map[string]any {
	params := make([]any, 0, len(p.Parameters))
	for _, pp := range p.Parameters {
		params = append(params, map[string]any{
			"@id":           pp.ID,
			"parameterName": annotationDoc(pp.ParameterName),
		})
	}
	components := make([]any, 0, len(p.Components))
	for _, c := range p.Components {
		components = append(components, map[string]any{
			"componentName": c.Name,
			"componentType": annotationDoc(c.ComponentType),
		})
	}
	return map[string]any{
		"@id":          p.ID,
		"name":         p.Name,
		"uri":          p.URI,
		"description":  p.Description,
		"version":      p.Version,
		"protocolType": annotationDoc(p.ProtocolType),
		"parameters":   params,
		"components":   components,
	}
}

func sampleDoc(s *Sample) map[string]any {
	factorValues := make([]any, 0, len(s.FactorValues))
	for _, fv := range s.FactorValues {
		fvd := map[string]any{
			"category": refDoc(fv.Factor.ID),
			"value":    valueDoc(fv.Value),
		}
		if fv.Unit != nil {
			fvd["unit"] = refDoc(fv.Unit.ID)
		}
		factorValues = append(factorValues, fvd)
	}
	derives := make([]any, 0, len(s.DerivesFrom))
	for _, d := range s.DerivesFrom {
		derives = append(derives, d)
	}
	return map[string]any{
		"@id":             s.ID,
		"name":            "sample-" + s.Name,
		"characteristics": characteristicDocs(s.Characteristics),
		"factorValues":    factorValues,
		"derivesFrom":     derives,
	}
}

// Labels carried as additional properties that map back to the process's
// document name field.
var processNameLabels = []string{
	"Scan Name",
	"Assay Name",
	"Hybridization Assay Name",
	"Data Transformation Name",
	"Normalization Name",
}

func processDocs(processes []*Process) []any {
	out := make([]any, 0, len(processes))
	for _, p := range processes {
		pd := map[string]any{
			"@id":              p.ID,
			"executesProtocol": refDoc(p.Protocol.ID),
		}
		if p.Date != "" {
			pd["date"] = p.Date
		}
		if p.Performer != "" {
			pd["performer"] = p.Performer
		}
		if len(p.Comments) > 0 {
			pd["comments"] = commentDocs(p.Comments)
		}
		values := make([]any, 0, len(p.ParameterValues))
		for _, pv := range p.ParameterValues {
			pvd := map[string]any{
				"category": refDoc(pv.Parameter.ID),
				"value":    valueDoc(pv.Value),
			}
			if pv.Unit != nil {
				pvd["unit"] = refDoc(pv.Unit.ID)
			}
			values = append(values, pvd)
		}
		for _, label := range processNameLabels {
			if name, ok := p.AdditionalProperties[label]; ok {
				pd["name"] = name
				break
			}
		}
		if ref, ok := p.AdditionalProperties["Array Design REF"]; ok {
			values = append(values, map[string]any{
				"category": refDoc("#parameter/Array_Design_REF"),
				"value":    ref,
			})
		}
		pd["parameterValues"] = values
		inputs := make([]any, 0, len(p.Inputs))
		for _, in := range p.Inputs {
			inputs = append(inputs, refDoc(in.NodeID()))
		}
		pd["inputs"] = inputs
		outputs := make([]any, 0, len(p.Outputs))
		for _, out := range p.Outputs {
			outputs = append(outputs, refDoc(out.NodeID()))
		}
		pd["outputs"] = outputs
		if p.Previous != nil {
			pd["previousProcess"] = refDoc(p.Previous.ID)
		}
		if p.Next != nil {
			pd["nextProcess"] = refDoc(p.Next.ID)
		}
		out = append(out, pd)
	}
	return out
}

func characteristicDocs(chars []Characteristic) []any {
	out := make([]any, 0, len(chars))
	for _, c := range chars {
		cd := map[string]any{
			"category": refDoc(c.Category.ID),
			"value":    valueDoc(c.Value),
		}
		if c.Unit != nil {
			cd["unit"] = refDoc(c.Unit.ID)
		}
		out = append(out, cd)
	}
	return out
}

func categoryDocs(categories []*OntologyAnnotation) []any {
	out := make([]any, 0, len(categories))
	for _, c := range categories {
		out = append(out, map[string]any{
			"@id": c.ID,
			"characteristicType": map[string]any{
				"annotationValue": c.Term,
				"termSource":      termSourceName(c.TermSource),
				"termAccession":   c.TermAccession,
			},
		})
	}
	return out
}

func unitDocs(units []*OntologyAnnotation) []any {
	out := make([]any, 0, len(units))
	for _, u := range units {
		out = append(out, map[string]any{
			"@id":             u.ID,
			"annotationValue": u.Term,
			"termSource":      termSourceName(u.TermSource),
			"termAccession":   u.TermAccession,
		})
	}
	return out
}

func publicationDocs(pubs []Publication) []any {
	out := make([]any, 0, len(pubs))
	for _, p := range pubs {
		pd := map[string]any{
			"pubMedID":   p.PubMedID,
			"doi":        p.DOI,
			"authorList": p.AuthorList,
			"title":      p.Title,
			"status":     annotationDoc(p.Status),
		}
		if len(p.Comments) > 0 {
			pd["comments"] = commentDocs(p.Comments)
		}
		out = append(out, pd)
	}
	return out
}

func personDocs(people []Person) []any {
	out := make([]any, 0, len(people))
	for _, p := range people {
		roles := make([]any, 0, len(p.Roles))
		for _, r := range p.Roles {
			roles = append(roles, annotationDoc(r))
		}
		out = append(out, map[string]any{
			"lastName":    p.LastName,
			"firstName":   p.FirstName,
			"midInitials": p.MidInitials,
			"email":       p.Email,
			"phone":       p.Phone,
			"fax":         p.Fax,
			"address":     p.Address,
			"affiliation": p.Affiliation,
			"roles":       roles,
			"comments":    commentDocs(p.Comments),
		})
	}
	return out
}

func commentDocs(comments []Comment) []any {
	out := make([]any, 0, len(comments))
	for _, c := range comments {
		out = append(out, map[string]any{"name": c.Name, "value": c.Value})
	}
	return out
}

func annotationDoc(a OntologyAnnotation) map[string]any {
	return map[string]any{
		"annotationValue": a.Term,
		"termSource":      termSourceName(a.TermSource),
		"termAccession":   a.TermAccession,
	}
}

func valueDoc(v Value) any {
	if n, ok := v.Number(); ok {
		return n
	}
	if a, ok := v.Annotation(); ok {
		return annotationDoc(*a)
	}
	s, _ := v.Text()
	return s
}

func refDoc(id string) map[string]any {
	return map[string]any{"@id": id}
}

func termSourceName(src *OntologySource) string {
	if src == nil {
		return ""
	}
	return src.Name
}
