package document

// Shape predicates over mapping nodes. The structural validator keys its
// reference-integrity and term-source checks on these three patterns
// instead of ad hoc key-set comparisons.

// IdentifierKey is the mapping key that declares or references an entity's
// local identifier.
const IdentifierKey = "@id"

// IsDeclaration reports whether the node declares an entity: a mapping
// carrying an identifier key alongside at least one other key.
func IsDeclaration(n *Node) bool {
	if n.Kind() != KindMapping {
		return false
	}
	return n.Has(IdentifierKey) && n.Len() > 1
}

// IsReference reports whether the node references an entity declared
// elsewhere: a mapping whose only key is the identifier key.
func IsReference(n *Node) bool {
	if n.Kind() != KindMapping {
		return false
	}
	return n.Has(IdentifierKey) && n.Len() == 1
}

// IsAnnotation reports whether the node has the ontology-annotation shape:
// exactly the value, accession and source keys, optionally plus an
// identifier when the annotation is declared as a reusable category.
func IsAnnotation(n *Node) bool {
	if n.Kind() != KindMapping {
		return false
	}
	switch n.Len() {
	case 3:
		return n.Has("annotationValue") && n.Has("termAccession") && n.Has("termSource")
	case 4:
		return n.Has("annotationValue") && n.Has("termAccession") && n.Has("termSource") && n.Has(IdentifierKey)
	default:
		return false
	}
}

// Identifier returns the node's identifier value, or "" when it carries none.
func Identifier(n *Node) string {
	return n.Str(IdentifierKey)
}
