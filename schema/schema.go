// Package schema aggregates a stream of documents into a relational schema
// description: per-field type histograms for one document shape, child
// schemas for fields promoted into relationships, and the set of fields that
// behaved as unique keys across the scan.
package schema

import "github.com/relatable/relatable/infer"

// FieldSpec is the accumulated knowledge about one flat field: how many
// documents produced each scalar type, and the representative type a column
// renderer should use. The representative is the most frequent observed type;
// ties go to the type seen first.
type FieldSpec struct {
	Inferred infer.ScalarType         `json:"inferred_type"`
	Types    map[infer.ScalarType]int `json:"types"`

	// order remembers first-seen order for the tie break
	order []infer.ScalarType
}

func NewFieldSpec() *FieldSpec {
	return &FieldSpec{
		Inferred: infer.TypeText,
		Types:    make(map[infer.ScalarType]int),
	}
}

// Observe counts one more occurrence of t and refreshes the representative.
func (s *FieldSpec) Observe(t infer.ScalarType) {
	if _, seen := s.Types[t]; !seen {
		s.order = append(s.order, t)
	}
	s.Types[t]++
	s.Inferred = s.representative()
}

// Total is the number of documents that produced this field.
func (s *FieldSpec) Total() int {
	n := 0
	for _, c := range s.Types {
		n += c
	}
	return n
}

func (s *FieldSpec) representative() infer.ScalarType {
	if len(s.order) == 0 {
		return infer.TypeText
	}
	best := s.order[0]
	for _, t := range s.order[1:] {
		if s.Types[t] > s.Types[best] {
			best = t
		}
	}
	return best
}

// Merge combines two specs for the same field name into a fresh spec, summing
// histograms. The receiver's first-seen order wins the tie break, so merging
// shards in stream order reproduces the sequential result.
func (s *FieldSpec) Merge(o *FieldSpec) *FieldSpec {
	m := NewFieldSpec()
	for _, t := range s.order {
		m.order = append(m.order, t)
		m.Types[t] = s.Types[t]
	}
	if o != nil {
		for _, t := range o.order {
			if _, seen := m.Types[t]; !seen {
				m.order = append(m.order, t)
			}
			m.Types[t] += o.Types[t]
		}
	}
	m.Inferred = m.representative()
	return m
}

// Node is the schema of one document shape. Field names and relationship
// names are disjoint within a node; the builder enforces that on conflict.
type Node struct {
	Fields        map[string]*FieldSpec `json:"fields"`
	Relationships map[string]*Node      `json:"relationships,omitempty"`
}

func NewNode() *Node {
	return &Node{
		Fields:        make(map[string]*FieldSpec),
		Relationships: make(map[string]*Node),
	}
}
