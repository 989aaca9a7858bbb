package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/google/uuid"
)

// Emits synthetic newline-delimited JSON documents in a mongoexport-ish shape
// for exercising the scanner: object ids, UUID session ids, a small map that
// flattens, a large map that becomes a relationship, scalar arrays, and the
// occasional list of sub-documents that the scanner drops.

var cities = []string{"Lisbon", "Austin", "Nairobi", "Osaka", "Tromso"}

func main() {
	n := flag.Int("n", 1000, "number of documents to emit")
	seed := flag.Int64("seed", 1, "rand seed")
	flag.Parse()

	r := rand.New(rand.NewSource(*seed))
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	enc := json.NewEncoder(w)
	for i := 0; i < *n; i++ {
		if err := enc.Encode(doc(r, i)); err != nil {
			log.Fatal(err)
		}
	}
}

func doc(r *rand.Rand, i int) map[string]any {
	d := map[string]any{
		"_id":        map[string]any{"$oid": objectID(r)},
		"session_id": uuid.New().String(),
		"name":       fmt.Sprintf("user-%06d", i),
		"age":        18 + r.Intn(60),
		"balance":    float64(r.Intn(100_000)) / 100,
		"active":     r.Intn(2) == 0,
		"tags":       []string{pick(r, "alpha", "beta", "gamma"), pick(r, "x", "y", "z")},
		// two keys, no nesting: flattened into meta_source / meta_version
		"meta": map[string]any{
			"source":  pick(r, "import", "signup", "backfill"),
			"version": 1 + r.Intn(3),
		},
		// four keys: promoted into a relationship
		"address": map[string]any{
			"street":  fmt.Sprintf("%d Main St", 1+r.Intn(999)),
			"city":    pick(r, cities...),
			"zip":     fmt.Sprintf("%05d", r.Intn(100_000)),
			"country": pick(r, "PT", "US", "KE", "JP", "NO"),
		},
	}

	if r.Intn(10) == 0 {
		// list of sub-documents, the unsupported shape
		d["events"] = []map[string]any{
			{"kind": "login", "at": r.Int63()},
			{"kind": "logout", "at": r.Int63()},
		}
	}

	return d
}

func pick[T any](r *rand.Rand, vs ...T) T {
	return vs[r.Intn(len(vs))]
}

const hex = "0123456789abcdef"

func objectID(r *rand.Rand) string {
	b := make([]byte, 24)
	for i := range b {
		b[i] = hex[r.Intn(len(hex))]
	}
	return string(b)
}
