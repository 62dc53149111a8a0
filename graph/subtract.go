package graph

import (
	"fmt"
	"strings"
)

// sampleSize caps the triples reported by SubsetViolationError
const sampleSize = 10

// SubsetViolationError reports triples of a derived graph that are not
// in the graph it was derived from.
type SubsetViolationError struct {
	Extra  int
	Sample []string
}

func (e *SubsetViolationError) Error() string {
	msg := fmt.Sprintf("%d triple(s) not found in the source graph", e.Extra)
	if len(e.Sample) > 0 {
		msg += ":\n  " + strings.Join(e.Sample, "\n  ")
	}
	return msg
}

// Subtract returns the triples of a whose key is not a key of b. The keys
// of b are loaded into idx, which the caller owns and closes.
func Subtract(a, b *Graph, idx Index) (*Graph, error) {
	if err := idx.Add(b.Keys()...); err != nil {
		return nil, fmt.Errorf("indexing triples: %w", err)
	}

	labels := a.blankLabels()
	diff := New()
	for _, quad := range a.quads {
		has, err := idx.Has(key(quad, labels))
		if err != nil {
			return nil, err
		}
		if !has {
			diff.Add(quad.Subject, quad.Predicate, quad.Object)
		}
	}
	return diff, nil
}

// CheckSubset returns a *SubsetViolationError unless every triple of a is
// also a triple of b. Blank node labels that depend on the traversal order
// (cycles of blank nodes) can make equal graphs differ by key; such graphs
// are accepted when their canonical forms match.
func CheckSubset(a, b *Graph, idx Index) error {
	diff, err := Subtract(a, b, idx)
	if err != nil {
		return err
	}
	if diff.Len() > 0 && diff.hasBlankNodes() {
		same, err := Isomorphic(a, b, StringOptions(nil))
		if err != nil {
			return fmt.Errorf("comparing canonical forms: %w", err)
		}
		if same {
			return nil
		}
	}
	return Violation(diff)
}

// Violation returns a *SubsetViolationError describing diff, or nil when
// diff is empty.
func Violation(diff *Graph) error {
	if diff.Len() == 0 {
		return nil
	}
	violation := &SubsetViolationError{Extra: diff.Len()}
	for i, quad := range diff.quads {
		if i == sampleSize {
			break
		}
		violation.Sample = append(violation.Sample, exactKey(quad)+" .")
	}
	return violation
}
