package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relatable/relatable/document"
	"github.com/relatable/relatable/schema"
)

func buildSample(t *testing.T) *schema.Builder {
	t.Helper()
	b := schema.NewBuilder(schema.Config{FilterCapacity: 1000, FilterFalsePositiveRate: 0.001})
	b.Fold(document.Document{
		document.F("name", document.String("a")),
		document.F("age", document.Int(1)),
		document.F("address", document.Map(
			document.F("street", document.String("s")),
			document.F("city", document.String("x")),
			document.F("zip", document.String("1")),
			document.F("country", document.String("pt")),
		)),
	})
	b.Fold(document.Document{
		document.F("name", document.String("b")),
		document.F("age", document.String("2")),
	})
	return b
}

func TestTextReport(t *testing.T) {
	b := buildSample(t)

	var sb strings.Builder
	Text(&sb, b.Schema(), b.Uniques())
	out := sb.String()

	assert.Contains(t, out, "fields:")
	assert.Contains(t, out, "+ name")
	assert.Contains(t, out, "TEXT")
	assert.Contains(t, out, "text: 2")
	assert.Contains(t, out, "+ age")
	assert.Contains(t, out, "integer: 2")
	assert.Contains(t, out, "relationships:")
	assert.Contains(t, out, "address:")
	assert.Contains(t, out, "+ city")
	assert.Contains(t, out, "unique candidates: age, name")
}

func TestTextReportNoUniques(t *testing.T) {
	b := schema.NewBuilder(schema.Config{FilterCapacity: 1000, FilterFalsePositiveRate: 0.001})
	b.Fold(document.Document{document.F("status", document.String("on"))})
	b.Fold(document.Document{document.F("status", document.String("on"))})

	var sb strings.Builder
	Text(&sb, b.Schema(), b.Uniques())
	assert.NotContains(t, sb.String(), "unique candidates")
}

func TestTextIsDeterministic(t *testing.T) {
	b := buildSample(t)

	var one, two strings.Builder
	Text(&one, b.Schema(), b.Uniques())
	Text(&two, b.Schema(), b.Uniques())
	assert.Equal(t, one.String(), two.String())
}
