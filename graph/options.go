package graph

import (
	ld "github.com/piprate/json-gold/ld"

	"github.com/italia/vocabtools/types"
)

// DatasetOptions returns JsonLdOptions for converting between JSON-LD
// documents and datasets. Native types stay off so that typed literals
// keep their lexical form through the JSON-LD round trip.
func DatasetOptions(loader ld.DocumentLoader) *ld.JsonLdOptions {
	options := ld.NewJsonLdOptions("")
	options.ProcessingMode = ld.JsonLd_1_1
	options.DocumentLoader = loader
	options.UseNativeTypes = false
	options.CompactArrays = true
	return options
}

// StringOptions returns JsonLdOptions for serializing a dataset into a string
func StringOptions(loader ld.DocumentLoader) *ld.JsonLdOptions {
	options := ld.NewJsonLdOptions("")
	options.ProcessingMode = ld.JsonLd_1_1
	options.DocumentLoader = loader
	options.CompactArrays = true
	options.Algorithm = types.Algorithm
	options.Format = types.Format
	return options
}
