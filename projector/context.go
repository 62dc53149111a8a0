package projector

import (
	"fmt"
	"sort"

	ld "github.com/piprate/json-gold/ld"

	"github.com/italia/vocabtools/types"
)

// dummyValue is expanded to discover the IRI a term maps to
const dummyValue = "dummy"

// ExpandContext maps every data-bearing term of ctx to its absolute IRI,
// resolving compact IRIs and @vocab-relative terms. Keywords, namespace
// declarations and @id aliases are skipped, as are terms that expand to
// nothing.
func ExpandContext(ctx map[string]interface{}, opts *ld.JsonLdOptions) (map[string]string, error) {
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	proc := ld.NewJsonLdProcessor()
	expanded := map[string]string{}
	for _, key := range keys {
		value := ctx[key]
		if types.IsKeyword(key) || types.IsNamespace(value) || value == nil || isIDAlias(value) {
			continue
		}

		result, err := proc.Expand(map[string]interface{}{
			"@context": types.CopyMap(ctx),
			key:        dummyValue,
		}, opts)
		if err != nil {
			return nil, fmt.Errorf("expanding term %q: %w", key, err)
		}
		for _, item := range result {
			node, is := item.(map[string]interface{})
			if !is {
				continue
			}
			for iri := range node {
				if !types.IsKeyword(iri) {
					expanded[key] = iri
				}
			}
		}
	}
	return expanded, nil
}

func isIDAlias(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return v == "@id"
	case map[string]interface{}:
		return v["@id"] == "@id"
	}
	return false
}
