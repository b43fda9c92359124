// Package isa defines the experiment-metadata entities materialized by the
// document loader: the investigation aggregate, its studies and assays, the
// declared vocabulary (ontology sources, annotations, protocols, factors),
// the material pools and the process sequences connecting them.
package isa

// Comment is a free-form name/value pair attached to most aggregates.
type Comment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OntologySource describes a term source declared at the investigation level.
// Annotations reference a source by name; the empty name means "no source".
type OntologySource struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// OntologyAnnotation is a term drawn from an ontology source. When declared
// as a reusable characteristic category or unit it additionally carries the
// local identifier it was declared under.
type OntologyAnnotation struct {
	ID            string          `json:"@id,omitempty"`
	Term          string          `json:"annotationValue"`
	TermSource    *OntologySource `json:"-"`
	TermAccession string          `json:"termAccession"`
}

// Person is an investigation- or study-level contact.
type Person struct {
	LastName    string               `json:"lastName"`
	FirstName   string               `json:"firstName"`
	MidInitials string               `json:"midInitials"`
	Email       string               `json:"email"`
	Phone       string               `json:"phone"`
	Fax         string               `json:"fax"`
	Address     string               `json:"address"`
	Affiliation string               `json:"affiliation"`
	Roles       []OntologyAnnotation `json:"roles"`
	Comments    []Comment            `json:"comments,omitempty"`
}

// Publication records a publication attached to the investigation or a study.
type Publication struct {
	PubMedID   string             `json:"pubMedID"`
	DOI        string             `json:"doi"`
	AuthorList string             `json:"authorList"`
	Title      string             `json:"title"`
	Status     OntologyAnnotation `json:"status"`
	Comments   []Comment          `json:"comments,omitempty"`
}

// ProtocolParameter is a parameter declared inline by a protocol and
// referenced by process parameter values.
type ProtocolParameter struct {
	ID            string             `json:"@id"`
	ParameterName OntologyAnnotation `json:"parameterName"`
}

// ProtocolComponent names a piece of equipment or software used by a protocol.
type ProtocolComponent struct {
	Name          string             `json:"componentName"`
	ComponentType OntologyAnnotation `json:"componentType"`
}

// Protocol is a study-declared procedure that processes execute.
type Protocol struct {
	ID           string               `json:"@id"`
	Name         string               `json:"name"`
	URI          string               `json:"uri"`
	Description  string               `json:"description"`
	Version      string               `json:"version"`
	ProtocolType OntologyAnnotation   `json:"protocolType"`
	Parameters   []*ProtocolParameter `json:"parameters"`
	Components   []ProtocolComponent  `json:"components"`
}

// StudyFactor is an experimental variable declared by a study.
type StudyFactor struct {
	ID         string             `json:"@id"`
	Name       string             `json:"factorName"`
	FactorType OntologyAnnotation `json:"factorType"`
}

// Characteristic qualifies a material with a category, a value and, when the
// value is numeric, a unit.
type Characteristic struct {
	Category *OntologyAnnotation `json:"-"`
	Value    Value               `json:"value"`
	Unit     *OntologyAnnotation `json:"-"`
}

// FactorValue assigns a value to a study factor on a sample.
type FactorValue struct {
	Factor *StudyFactor        `json:"-"`
	Value  Value               `json:"value"`
	Unit   *OntologyAnnotation `json:"-"`
}

// ParameterValue assigns a value to a protocol parameter on a process.
type ParameterValue struct {
	Parameter *ProtocolParameter  `json:"-"`
	Value     Value               `json:"value"`
	Unit      *OntologyAnnotation `json:"-"`
}

// Source is a starting material declared by a study.
type Source struct {
	ID              string           `json:"@id"`
	Name            string           `json:"name"`
	Characteristics []Characteristic `json:"characteristics"`
}

// Sample is a material derived from one or more sources. DerivesFrom holds
// the raw source identifiers as written in the document; the loader never
// resolves them to Source objects.
type Sample struct {
	ID              string           `json:"@id"`
	Name            string           `json:"name"`
	Characteristics []Characteristic `json:"characteristics"`
	FactorValues    []FactorValue    `json:"factorValues"`
	DerivesFrom     []string         `json:"derivesFrom,omitempty"`
}

// Material is an assay-scoped intermediate material (extract, labeled
// extract) distinguished by its type discriminator.
type Material struct {
	ID              string           `json:"@id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	Characteristics []Characteristic `json:"characteristics"`
}

// DataFile is a raw or derived data artifact declared by an assay.
type DataFile struct {
	ID       string    `json:"@id"`
	Name     string    `json:"name"`
	Label    string    `json:"type"`
	Comments []Comment `json:"comments,omitempty"`
}

// Process is one execution of a protocol, consuming inputs and producing
// outputs, optionally chained to the previous and next process in its
// sequence. AdditionalProperties carries protocol-type-dependent labels
// such as assay or scan names.
type Process struct {
	ID                   string            `json:"@id"`
	Protocol             *Protocol         `json:"-"`
	Date                 string            `json:"date,omitempty"`
	Performer            string            `json:"performer,omitempty"`
	Comments             []Comment         `json:"comments,omitempty"`
	ParameterValues      []ParameterValue  `json:"parameterValues"`
	Inputs               []ProcessNode     `json:"-"`
	Outputs              []ProcessNode     `json:"-"`
	Previous             *Process          `json:"-"`
	Next                 *Process          `json:"-"`
	AdditionalProperties map[string]string `json:"-"`
}

// Assay groups the materials, data files and processes of one measurement
// within a study. Its characteristic-category and unit declarations extend
// the owning study's pools.
type Assay struct {
	MeasurementType    OntologyAnnotation `json:"measurementType"`
	TechnologyType     OntologyAnnotation `json:"technologyType"`
	TechnologyPlatform string             `json:"technologyPlatform"`
	Filename           string             `json:"filename"`

	// CharacteristicCategories holds the categories declared inside this
	// assay. They are also visible through the owning study's pools but are
	// kept here so re-serialization emits them where they were declared.
	CharacteristicCategories []*OntologyAnnotation
	UnitCategories           []*OntologyAnnotation
	Samples                  []*Sample
	OtherMaterials           []*Material
	DataFiles                []*DataFile
	Processes                []*Process
	Graph                    *Graph `json:"-"`
}

// Study owns the declared vocabulary and materials referenced by its
// processes and assays.
type Study struct {
	Identifier        string    `json:"identifier"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	SubmissionDate    string    `json:"submissionDate"`
	PublicReleaseDate string    `json:"publicReleaseDate"`
	Filename          string    `json:"filename"`
	Comments          []Comment `json:"comments,omitempty"`

	CharacteristicCategories []*OntologyAnnotation
	UnitCategories           []*OntologyAnnotation
	Publications             []Publication
	People                   []Person
	DesignDescriptors        []OntologyAnnotation
	Protocols                []*Protocol
	Factors                  []*StudyFactor
	Sources                  []*Source
	Samples                  []*Sample
	Processes                []*Process
	Assays                   []*Assay
	Graph                    *Graph `json:"-"`
}

// Investigation is the root aggregate produced by one load operation.
type Investigation struct {
	Identifier        string    `json:"identifier"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	SubmissionDate    string    `json:"submissionDate"`
	PublicReleaseDate string    `json:"publicReleaseDate"`
	Comments          []Comment `json:"comments,omitempty"`

	OntologySources []*OntologySource
	Publications    []Publication
	People          []Person
	Studies         []*Study
}

// ProcessNode is implemented by every entity that can appear in a process
// sequence or workflow graph: sources, samples, other materials, data files
// and processes themselves.
type ProcessNode interface {
	NodeID() string
	NodeName() string
}

// NodeID returns the source's local identifier.
func (s *Source) NodeID() string { return s.ID }

// NodeName returns the source's display name.
func (s *Source) NodeName() string { return s.Name }

// NodeID returns the sample's local identifier.
func (s *Sample) NodeID() string { return s.ID }

// NodeName returns the sample's display name.
func (s *Sample) NodeName() string { return s.Name }

// NodeID returns the material's local identifier.
func (m *Material) NodeID() string { return m.ID }

// NodeName returns the material's display name.
func (m *Material) NodeName() string { return m.Name }

// NodeID returns the data file's local identifier.
func (d *DataFile) NodeID() string { return d.ID }

// NodeName returns the data file's filename.
func (d *DataFile) NodeName() string { return d.Name }

// NodeID returns the process's local identifier.
func (p *Process) NodeID() string { return p.ID }

// NodeName returns the executed protocol name, or the process id when the
// protocol is unnamed.
func (p *Process) NodeName() string {
	if p.Protocol != nil && p.Protocol.Name != "" {
		return p.Protocol.Name
	}
	return p.ID
}
