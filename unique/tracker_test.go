package unique

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relatable/relatable/document"
)

func testConfig() Config {
	return Config{Capacity: 10_000, FalsePositiveRate: 0.001}
}

func TestAllDistinctStaysCandidate(t *testing.T) {
	tr := NewTracker(testConfig())
	for i := 0; i < 1000; i++ {
		tr.Observe("id", document.Int(int64(i)))
	}
	assert.Equal(t, []string{"id"}, tr.Uniques())
}

func TestOneDuplicateDisqualifiesPermanently(t *testing.T) {
	tr := NewTracker(testConfig())
	for i := 0; i < 500; i++ {
		tr.Observe("id", document.Int(int64(i)))
	}
	tr.Observe("id", document.Int(250))
	assert.Empty(t, tr.Uniques())

	// distinct values afterwards must not resurrect the field
	for i := 1000; i < 1500; i++ {
		tr.Observe("id", document.Int(int64(i)))
	}
	assert.Empty(t, tr.Uniques())
}

func TestCompositeValuesAreIgnored(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Observe("tags", document.List(document.Int(1)))
	tr.Observe("tags", document.List(document.Int(1)))
	tr.Observe("name", document.String("a"))

	// composites neither confirm nor disqualify
	assert.Equal(t, []string{"name"}, tr.Uniques())
}

func TestIndependentFields(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Observe("id", document.String("a"))
	tr.Observe("id", document.String("b"))
	tr.Observe("status", document.String("on"))
	tr.Observe("status", document.String("on"))
	assert.Equal(t, []string{"id"}, tr.Uniques())
}

func TestNumericallyEqualValuesCollide(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Observe("n", document.Int(1))
	tr.Observe("n", document.Float(1.0))
	assert.Empty(t, tr.Uniques())

	tr = NewTracker(testConfig())
	tr.Observe("b", document.Bool(true))
	tr.Observe("b", document.Int(1))
	assert.Empty(t, tr.Uniques())
}

func TestIDAndStringDoNotCollide(t *testing.T) {
	tr := NewTracker(testConfig())
	tr.Observe("x", document.String("abc"))
	tr.Observe("x", document.ID("abc"))
	assert.Equal(t, []string{"x"}, tr.Uniques())
}

func TestMergePropagatesDisqualification(t *testing.T) {
	a := NewTracker(testConfig())
	b := NewTracker(testConfig())

	a.Observe("id", document.Int(1))
	a.Observe("city", document.String("x"))

	b.Observe("id", document.Int(2))
	b.Observe("city", document.String("y"))
	b.Observe("city", document.String("y"))

	assert.NoError(t, a.Merge(b))
	assert.Equal(t, []string{"id"}, a.Uniques())
}

func TestMergeAdoptsUnknownFields(t *testing.T) {
	a := NewTracker(testConfig())
	b := NewTracker(testConfig())
	b.Observe("only_b", document.Int(1))

	assert.NoError(t, a.Merge(b))
	assert.Equal(t, []string{"only_b"}, a.Uniques())

	// the adopted filter keeps working
	a.Observe("only_b", document.Int(1))
	assert.Empty(t, a.Uniques())
}

func TestMergeRejectsMismatchedFilters(t *testing.T) {
	a := NewTracker(Config{Capacity: 1000, FalsePositiveRate: 0.001})
	b := NewTracker(Config{Capacity: 2000, FalsePositiveRate: 0.001})
	a.Observe("id", document.Int(1))
	b.Observe("id", document.Int(2))
	assert.Error(t, a.Merge(b))
}

func TestManyDistinctStrings(t *testing.T) {
	tr := NewTracker(testConfig())
	for i := 0; i < 2000; i++ {
		tr.Observe("email", document.String(fmt.Sprintf("user%d@example.com", i)))
	}
	assert.Equal(t, []string{"email"}, tr.Uniques())
}
