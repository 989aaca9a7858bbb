// Package render turns a schema tree into consumer formats. The core never
// emits DDL itself; these renderers are the external collaborators that read
// the in-memory description.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/relatable/relatable/schema"
)

// Text writes an indented report of fields, histograms and relationships,
// with the unique-key candidates at the end. Names are sorted so the report
// is stable across runs.
func Text(w io.Writer, n *schema.Node, uniques []string) {
	writeNode(w, n, 0)
	if len(uniques) > 0 {
		fmt.Fprintf(w, "unique candidates: %s\n", strings.Join(uniques, ", "))
	}
}

func writeNode(w io.Writer, n *schema.Node, level int) {
	prefix := strings.Repeat("\t", level)

	fmt.Fprintf(w, "%sfields:%s\n", prefix, strings.Repeat("_", 40))
	for _, name := range sortedFieldNames(n) {
		s := n.Fields[name]
		fmt.Fprintf(w, "%s+ %-26s: %-8s | stats: %s\n", prefix, name, s.Inferred.SQL(), histogram(s))
	}

	if len(n.Relationships) == 0 {
		return
	}
	fmt.Fprintf(w, "%srelationships:\n", prefix)

	names := make([]string, 0, len(n.Relationships))
	for name := range n.Relationships {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s:\n", prefix, name)
		writeNode(w, n.Relationships[name], level+1)
	}
}

func sortedFieldNames(n *schema.Node) []string {
	names := make([]string, 0, len(n.Fields))
	for name := range n.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// histogram formats type counts most frequent first, name-sorted on ties.
func histogram(s *schema.FieldSpec) string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(s.Types))
	for t, c := range s.Types {
		entries = append(entries, entry{name: t.String(), count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %d", e.name, e.count)
	}
	return strings.Join(parts, ", ")
}
