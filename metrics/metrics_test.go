package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/relatable/relatable/document"
	"github.com/relatable/relatable/schema"
)

func TestCollectorExportsStats(t *testing.T) {
	b := schema.NewBuilder(schema.Config{FilterCapacity: 1000, FilterFalsePositiveRate: 0.001})
	b.Fold(document.Document{document.F("a", document.Int(1))})

	c := NewBuilderCollector(b)
	assert.Equal(t, 4, testutil.CollectAndCount(c))

	expected := `
		# HELP relatable_documents_total Documents folded into the schema.
		# TYPE relatable_documents_total counter
		relatable_documents_total 1
	`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "relatable_documents_total"))
}
