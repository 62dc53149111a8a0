package types

// Algorithm has to be URDNA2015
const Algorithm = "URDNA2015"

// Format has to be application/n-quads
const Format = "application/n-quads"

// Namespaces used by the vocabularies of the Italian semantic catalogue.
const (
	NDC     = "https://w3id.org/italia/onto/NDC/"
	CLV     = "https://w3id.org/italia/onto/CLV/"
	SKOS    = "http://www.w3.org/2004/02/skos/core#"
	DCTERMS = "http://purl.org/dc/terms/"
	DCAT    = "http://www.w3.org/ns/dcat#"
	OWL     = "http://www.w3.org/2002/07/owl#"
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSD     = "http://www.w3.org/2001/XMLSchema#"
)

// KeyConcept marks the concept scheme subject of a vocabulary
const KeyConcept = NDC + "keyConcept"

// Predicates read by the vocabulary metadata accessors
const (
	DCTIdentifier  = DCTERMS + "identifier"
	DCTTitle       = DCTERMS + "title"
	DCTDescription = DCTERMS + "description"
	DCTLanguage    = DCTERMS + "language"
	DCTLicense     = DCTERMS + "license"
	DCTIssued      = DCTERMS + "issued"
	DCATKeyword    = DCAT + "keyword"
	DCATAccessURL  = DCAT + "accessURL"
	OWLVersionInfo = OWL + "versionInfo"
	SKOSPrefLabel  = SKOS + "prefLabel"
	SKOSDefinition = SKOS + "definition"
	SKOSInScheme   = SKOS + "inScheme"
	SKOSBroader    = SKOS + "broader"
)

// DatapackageProfile is the $schema of generated descriptors
const DatapackageProfile = "https://datapackage.org/profiles/2.0/datapackage.json"

// VocabField is the framed property holding the scheme reference
const VocabField = "vocab"

// KeyField is the detached field added by the key-field callback
const KeyField = "key"
