// Package unique flags fields whose values never repeat across a scan, using
// one bloom filter per candidate field instead of an exact value set. The
// trade is explicit: a filter false positive disqualifies a genuinely unique
// field, but memory stays bounded no matter how large the collection is.
package unique

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/relatable/relatable/document"
)

const (
	DefaultCapacity          = 10_000_000
	DefaultFalsePositiveRate = 0.001
)

type Config struct {
	// Capacity is the expected number of distinct values per field. Exceeding
	// it degrades the filter toward a higher false-positive rate; it does not
	// fail.
	Capacity uint
	// FalsePositiveRate is the target rate at Capacity.
	FalsePositiveRate float64
}

func (c Config) withDefaults() Config {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.FalsePositiveRate <= 0 {
		c.FalsePositiveRate = DefaultFalsePositiveRate
	}
	return c
}

// Tracker holds per-field candidacy. A field starts as a candidate on first
// observation and is permanently disqualified the moment a value tests as
// already seen; the filter is dropped right away to reclaim its memory.
type Tracker struct {
	cfg        Config
	candidates map[string]bool
	filters    map[string]*bloom.BloomFilter
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:        cfg.withDefaults(),
		candidates: make(map[string]bool),
		filters:    make(map[string]*bloom.BloomFilter),
	}
}

// Observe folds one field value into the tracker. Composite values carry no
// uniqueness signal and are ignored: they neither confirm nor disqualify.
func (t *Tracker) Observe(field string, v document.Value) {
	if v.IsComposite() {
		return
	}
	if ok, seen := t.candidates[field]; seen && !ok {
		return
	}

	f, seen := t.filters[field]
	if !seen {
		f = bloom.NewWithEstimates(t.cfg.Capacity, t.cfg.FalsePositiveRate)
		t.candidates[field] = true
		t.filters[field] = f
	}

	key := valueKey(v)
	if f.TestString(key) {
		t.candidates[field] = false
		delete(t.filters, field)
		return
	}
	f.AddString(key)
}

// Uniques returns the fields still candidates, sorted for determinism.
func (t *Tracker) Uniques() []string {
	fields := make([]string, 0, len(t.candidates))
	for field, ok := range t.candidates {
		if ok {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Merge folds another tracker's state into this one after a sharded scan.
// Disqualifications propagate; filters of fields that stayed candidates on
// both sides are unioned. A value observed once by each of two shards cannot
// be detected after the fact, so the merged result can overreport uniqueness
// in that case; callers sharding the stream by document accept that.
func (t *Tracker) Merge(o *Tracker) error {
	for field, ok := range o.candidates {
		if !ok {
			t.candidates[field] = false
			delete(t.filters, field)
			continue
		}

		mine, seen := t.candidates[field]
		if !seen {
			t.candidates[field] = true
			t.filters[field] = o.filters[field]
			continue
		}
		if !mine {
			continue
		}
		if err := t.filters[field].Merge(o.filters[field]); err != nil {
			return fmt.Errorf("merge filters for %q: %w", field, err)
		}
	}
	return nil
}

// valueKey encodes a scalar so that numerically equal values collide the way
// they would in the source data: booleans and integral floats share the
// integer encoding.
func valueKey(v document.Value) string {
	switch v.Kind() {
	case document.KindBool:
		if v.Bool() {
			return "i:1"
		}
		return "i:0"
	case document.KindInt:
		return "i:" + strconv.FormatInt(v.Int(), 10)
	case document.KindFloat:
		f := v.Float()
		if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			return "i:" + strconv.FormatInt(int64(f), 10)
		}
		return "f:" + strconv.FormatFloat(f, 'g', -1, 64)
	case document.KindString:
		return "s:" + v.String()
	case document.KindID:
		return "o:" + v.String()
	}
	panic("should be unreachable")
}
