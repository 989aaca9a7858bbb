package infer

import "github.com/relatable/relatable/document"

// DefaultMapKeyThreshold is the map size above which a map is always complex.
// Small shallow maps are schema noise better flattened into the parent; the
// cutoff is a heuristic, not a proof.
const DefaultMapKeyThreshold = 3

// IsComplex classifies a composite value. Simple composites get flattened or
// stored as array columns; complex ones are candidate relationships (child
// tables). Scalars are never classified here.
//
// A list is complex iff any element is itself a list or a map. A map is
// complex if it has more than threshold entries regardless of content, or if
// any of its values is a list or a map.
func IsComplex(v document.Value, mapKeyThreshold int) bool {
	if mapKeyThreshold <= 0 {
		mapKeyThreshold = DefaultMapKeyThreshold
	}

	switch v.Kind() {
	case document.KindList:
		for _, e := range v.Elems() {
			if e.IsComposite() {
				return true
			}
		}
		return false
	case document.KindMap:
		fs := v.Fields()
		if len(fs) > mapKeyThreshold {
			return true
		}
		for _, f := range fs {
			if f.Value.IsComposite() {
				return true
			}
		}
		return false
	}

	panic("scalar values are never classified")
}
