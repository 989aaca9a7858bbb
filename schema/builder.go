package schema

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/relatable/relatable/document"
	"github.com/relatable/relatable/infer"
	"github.com/relatable/relatable/unique"
)

// Config carries the scan tunables. The zero value gets the defaults, so
// Builder construction stays one line in the common case.
type Config struct {
	// MapKeyThreshold is the map size above which a nested map is always a
	// relationship. Default 3.
	MapKeyThreshold int
	// FilterCapacity and FilterFalsePositiveRate size the per-field
	// uniqueness filters. Defaults 10,000,000 and 0.001.
	FilterCapacity          uint
	FilterFalsePositiveRate float64
}

// Source is a pull-based, single-pass stream of documents. Next returns
// io.EOF when the stream is exhausted and an error wrapping
// document.ErrMalformed for a record that should be rejected and skipped.
type Source interface {
	Next() (document.Document, error)
}

// Stats are the scan counters a caller can inspect for data loss: documents
// folded and rejected by this builder, plus complex-list fields dropped and
// field/relationship name conflicts summed over the whole schema tree.
type Stats struct {
	Documents         uint64 `json:"documents"`
	Rejected          uint64 `json:"rejected"`
	DroppedListFields uint64 `json:"dropped_list_fields"`
	NameConflicts     uint64 `json:"name_conflicts"`
}

type counters struct {
	documents    atomic.Uint64
	rejected     atomic.Uint64
	droppedLists atomic.Uint64
	conflicts    atomic.Uint64
}

// Builder folds documents of one shape into a Node. Each relationship gets
// its own child builder keyed by relationship name; children own their node,
// tracker and counters exclusively, so nothing is shared across the tree.
type Builder struct {
	cfg      Config
	node     *Node
	uniques  *unique.Tracker
	children map[string]*Builder
	c        counters
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{
		cfg:  cfg,
		node: NewNode(),
		uniques: unique.NewTracker(unique.Config{
			Capacity:          cfg.FilterCapacity,
			FalsePositiveRate: cfg.FilterFalsePositiveRate,
		}),
		children: make(map[string]*Builder),
	}
}

// Split partitions one document into flat fields and relationship fields.
//
// A value whose kind is directly SQL-representable is flat. Otherwise the
// complexity classifier decides: simple lists become array columns, simple
// maps are flattened one level into parent_key fields, complex maps become
// relationships. Complex lists are unsupported and dropped; the drop is
// counted so callers can detect the data loss.
func (b *Builder) Split(doc document.Document) (flat, rels []document.Field) {
	for _, f := range doc {
		if _, ok := infer.SQLType(f.Value.Kind()); ok {
			flat = append(flat, f)
			continue
		}

		if !infer.IsComplex(f.Value, b.cfg.MapKeyThreshold) {
			if f.Value.Kind() == document.KindList {
				flat = append(flat, f)
				continue
			}
			// flatten one level only; a complex inner value stays as-is
			for _, inner := range f.Value.Fields() {
				flat = append(flat, document.Field{
					Name:  f.Name + "_" + inner.Name,
					Value: inner.Value,
				})
			}
			continue
		}

		if f.Value.Kind() == document.KindMap {
			rels = append(rels, f)
			continue
		}

		// TODO lists of sub-documents: child-table fan-out vs array of
		// relationships is genuinely ambiguous, so we drop the field for now
		b.c.droppedLists.Add(1)
		slog.Debug("dropping unsupported complex list field", "field", f.Name)
	}
	return flat, rels
}

// Fold incorporates a single document into the schema.
func (b *Builder) Fold(doc document.Document) {
	flat, rels := b.Split(doc)

	for _, f := range flat {
		spec := b.fieldSpec(f.Name)
		if spec == nil {
			continue
		}
		spec.Observe(infer.TypeOf(f.Value))
		b.uniques.Observe(f.Name, f.Value)
	}

	for _, r := range rels {
		child := b.child(r.Name)
		if child == nil {
			continue
		}
		child.Fold(r.Value.AsDocument())
	}

	b.c.documents.Add(1)
}

// Build consumes the stream until io.EOF, skipping rejected documents, and
// returns the schema tree. Cancelling ctx stops pulling and returns its error.
func (b *Builder) Build(ctx context.Context, src Source) (*Node, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := src.Next()
		if errors.Is(err, io.EOF) {
			return b.node, nil
		}
		if errors.Is(err, document.ErrMalformed) {
			b.c.rejected.Add(1)
			slog.Warn("rejecting document", "err", err)
			continue
		}
		if err != nil {
			return nil, err
		}

		b.Fold(doc)
	}
}

// Schema returns the tree built so far.
func (b *Builder) Schema() *Node { return b.node }

// Uniques finalizes the uniqueness scan for this builder's own fields.
func (b *Builder) Uniques() []string { return b.uniques.Uniques() }

// Tracker exposes the uniqueness state for cross-shard merging.
func (b *Builder) Tracker() *unique.Tracker { return b.uniques }

func (b *Builder) Stats() Stats {
	s := Stats{
		Documents:         b.c.documents.Load(),
		Rejected:          b.c.rejected.Load(),
		DroppedListFields: b.c.droppedLists.Load(),
		NameConflicts:     b.c.conflicts.Load(),
	}
	for _, child := range b.children {
		cs := child.Stats()
		s.DroppedListFields += cs.DroppedListFields
		s.NameConflicts += cs.NameConflicts
	}
	return s
}

// fieldSpec returns the spec for a flat field name, creating it lazily. A
// name already taken by a relationship stays a relationship: the first
// classification wins and the conflicting observation is counted and dropped.
func (b *Builder) fieldSpec(name string) *FieldSpec {
	if _, clash := b.node.Relationships[name]; clash {
		b.c.conflicts.Add(1)
		slog.Debug("field name already used by a relationship", "field", name)
		return nil
	}
	s, ok := b.node.Fields[name]
	if !ok {
		s = NewFieldSpec()
		b.node.Fields[name] = s
	}
	return s
}

func (b *Builder) child(name string) *Builder {
	if _, clash := b.node.Fields[name]; clash {
		b.c.conflicts.Add(1)
		slog.Debug("relationship name already used by a field", "field", name)
		return nil
	}
	child, ok := b.children[name]
	if !ok {
		child = NewBuilder(b.cfg)
		b.children[name] = child
		b.node.Relationships[name] = child.node
	}
	return child
}
