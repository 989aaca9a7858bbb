// Package merge reduces per-shard scan results into one schema. Histograms
// merge by summing counts, relationships by recursive node merge, uniqueness
// by propagating disqualifications and unioning candidate filters. The merge
// is a one-time reduction after the shards finish; nothing is shared while
// they run.
package merge

import (
	"context"
	"sync"

	"github.com/relatable/relatable/schema"
)

func Nodes(a, b *schema.Node) *schema.Node {
	if a == nil && b == nil {
		return nil
	}
	if a != nil && b == nil {
		return a
	}
	if a == nil && b != nil {
		return b
	}

	res := schema.NewNode()

	visited := make(map[string]struct{}, len(a.Fields))
	for k, v := range a.Fields {
		visited[k] = struct{}{}
		if w, in := b.Fields[k]; in {
			res.Fields[k] = v.Merge(w)
		} else {
			res.Fields[k] = v
		}
	}
	for k, v := range b.Fields {
		if _, in := visited[k]; in {
			continue
		}
		res.Fields[k] = v
	}

	visited = make(map[string]struct{}, len(a.Relationships))
	for k, v := range a.Relationships {
		visited[k] = struct{}{}
		res.Relationships[k] = Nodes(v, b.Relationships[k])
	}
	for k, v := range b.Relationships {
		if _, in := visited[k]; in {
			continue
		}
		res.Relationships[k] = v
	}

	return res
}

func Stats(a, b schema.Stats) schema.Stats {
	return schema.Stats{
		Documents:         a.Documents + b.Documents,
		Rejected:          a.Rejected + b.Rejected,
		DroppedListFields: a.DroppedListFields + b.DroppedListFields,
		NameConflicts:     a.NameConflicts + b.NameConflicts,
	}
}

// Shards scans each source on its own goroutine with an independent builder
// and reduces the results. Document order across shards does not affect the
// histograms; see unique.Tracker.Merge for the uniqueness caveat.
func Shards(ctx context.Context, cfg schema.Config, srcs ...schema.Source) (*schema.Node, []string, schema.Stats, error) {
	if len(srcs) == 0 {
		return schema.NewNode(), nil, schema.Stats{}, nil
	}

	builders := make([]*schema.Builder, len(srcs))
	errs := make([]error, len(srcs))

	wg := &sync.WaitGroup{}
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src schema.Source) {
			defer wg.Done()
			b := schema.NewBuilder(cfg)
			builders[i] = b
			_, errs[i] = b.Build(ctx, src)
		}(i, src)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, schema.Stats{}, err
		}
	}

	var node *schema.Node
	var stats schema.Stats
	for _, b := range builders {
		node = Nodes(node, b.Schema())
		stats = Stats(stats, b.Stats())
	}

	tracker := builders[0].Tracker()
	for _, b := range builders[1:] {
		if err := tracker.Merge(b.Tracker()); err != nil {
			return nil, nil, schema.Stats{}, err
		}
	}

	return node, tracker.Uniques(), stats, nil
}
