package source

import (
	"io"

	"github.com/relatable/relatable/document"
)

// Slice serves an in-memory collection, mostly for tests and for sharding a
// collection that is already loaded.
type Slice struct {
	docs []document.Document
	i    int
}

func NewSlice(docs ...document.Document) *Slice {
	return &Slice{docs: docs}
}

func (s *Slice) Next() (document.Document, error) {
	if s.i >= len(s.docs) {
		return nil, io.EOF
	}
	doc := s.docs[s.i]
	s.i++
	return doc, nil
}
