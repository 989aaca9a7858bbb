package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relatable/relatable/document"
	"github.com/relatable/relatable/infer"
	"github.com/relatable/relatable/schema"
	"github.com/relatable/relatable/source"
)

func testConfig() schema.Config {
	return schema.Config{FilterCapacity: 10_000, FilterFalsePositiveRate: 0.001}
}

func foldAll(t *testing.T, docs ...document.Document) *schema.Builder {
	t.Helper()
	b := schema.NewBuilder(testConfig())
	for _, d := range docs {
		b.Fold(d)
	}
	return b
}

func TestNodesNil(t *testing.T) {
	a := schema.NewNode()
	assert.Nil(t, Nodes(nil, nil))
	assert.Equal(t, a, Nodes(a, nil))
	assert.Equal(t, a, Nodes(nil, a))
}

func TestNodesSumsHistograms(t *testing.T) {
	a := foldAll(t,
		document.Document{document.F("age", document.Int(1))},
		document.Document{document.F("age", document.Int(2))},
	).Schema()
	b := foldAll(t,
		document.Document{document.F("age", document.String("x"))},
	).Schema()

	m := Nodes(a, b)
	require.NotNil(t, m.Fields["age"])
	assert.Equal(t, 2, m.Fields["age"].Types[infer.TypeInteger])
	assert.Equal(t, 1, m.Fields["age"].Types[infer.TypeText])
	assert.Equal(t, infer.TypeInteger, m.Fields["age"].Inferred)
}

func TestNodesUnionsDisjointFields(t *testing.T) {
	a := foldAll(t, document.Document{document.F("a", document.Int(1))}).Schema()
	b := foldAll(t, document.Document{document.F("b", document.String("x"))}).Schema()

	m := Nodes(a, b)
	assert.Equal(t, 1, m.Fields["a"].Total())
	assert.Equal(t, 1, m.Fields["b"].Total())
}

func TestNodesMergesRelationshipsRecursively(t *testing.T) {
	doc := func(city string) document.Document {
		return document.Document{
			document.F("address", document.Map(
				document.F("street", document.String("s")),
				document.F("city", document.String(city)),
				document.F("zip", document.String("1")),
				document.F("country", document.String("pt")),
			)),
		}
	}

	a := foldAll(t, doc("x")).Schema()
	b := foldAll(t, doc("y")).Schema()

	m := Nodes(a, b)
	require.NotNil(t, m.Relationships["address"])
	assert.Equal(t, 2, m.Relationships["address"].Fields["city"].Total())
}

func TestStatsSum(t *testing.T) {
	a := schema.Stats{Documents: 1, Rejected: 2, DroppedListFields: 3, NameConflicts: 4}
	b := schema.Stats{Documents: 10, Rejected: 20, DroppedListFields: 30, NameConflicts: 40}
	assert.Equal(t, schema.Stats{Documents: 11, Rejected: 22, DroppedListFields: 33, NameConflicts: 44}, Stats(a, b))
}

func TestShardsMatchSequentialScan(t *testing.T) {
	docs := make([]document.Document, 0, 100)
	for i := 0; i < 100; i++ {
		docs = append(docs, document.Document{
			document.F("id", document.Int(int64(i))),
			document.F("status", document.String("on")),
		})
	}

	seq := schema.NewBuilder(testConfig())
	_, err := seq.Build(context.Background(), source.NewSlice(docs...))
	require.NoError(t, err)

	node, uniques, stats, err := Shards(context.Background(), testConfig(),
		source.NewSlice(docs[:50]...),
		source.NewSlice(docs[50:]...),
	)
	require.NoError(t, err)

	assert.Equal(t, seq.Schema().Fields["id"].Types, node.Fields["id"].Types)
	assert.Equal(t, seq.Schema().Fields["status"].Types, node.Fields["status"].Types)
	assert.Equal(t, uint64(100), stats.Documents)
	// id stays unique, status repeats within both shards
	assert.Equal(t, []string{"id"}, uniques)
}

func TestShardsEmpty(t *testing.T) {
	node, uniques, stats, err := Shards(context.Background(), testConfig())
	require.NoError(t, err)
	assert.NotNil(t, node)
	assert.Empty(t, uniques)
	assert.Equal(t, schema.Stats{}, stats)
}
