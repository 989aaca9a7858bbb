package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"

	"github.com/relatable/relatable/metrics"
	"github.com/relatable/relatable/schema"
	"github.com/relatable/relatable/source"
)

type report struct {
	Schema  *schema.Node `json:"schema"`
	Uniques []string     `json:"uniques"`
	Stats   schema.Stats `json:"stats"`
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)
		log.Println(r.Method, r.RequestURI, r.Proto, "->", ww.Status(), http.StatusText(ww.Status()))
	})
}

func main() {
	host := flag.String("h", "", "the host to listen on")
	port := flag.String("p", "8080", "the port to listen on")
	input := flag.String("f", "", "newline-delimited JSON file to scan")
	threshold := flag.Int("map-keys", 0, "map key threshold for relationship promotion")
	capacity := flag.Uint("filter-capacity", 0, "uniqueness filter capacity")
	fpRate := flag.Float64("filter-fp", 0, "uniqueness filter false positive rate")
	flag.Parse()

	if *input == "" {
		log.Fatal("missing required flag -f")
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatal(err)
	}

	b := schema.NewBuilder(schema.Config{
		MapKeyThreshold:         *threshold,
		FilterCapacity:          *capacity,
		FilterFalsePositiveRate: *fpRate,
	})
	prometheus.MustRegister(metrics.NewBuilderCollector(b))

	node, err := b.Build(context.Background(), source.NewJSONLines(f))
	if err != nil {
		log.Fatal(err)
	}
	f.Close()

	rep := report{Schema: node, Uniques: b.Uniques(), Stats: b.Stats()}
	log.Printf("scanned %d documents from %s", rep.Stats.Documents, *input)

	getReport := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rep)
	}
	getSchema := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rep.Schema)
	}
	getUniques := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rep.Uniques)
	}
	getStats := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rep.Stats)
	}

	addr := fmt.Sprintf("%s:%s", *host, *port)
	log.Println("Listening at", addr)

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/", getReport).Methods("GET")
	router.HandleFunc("/schema", getSchema).Methods("GET")
	router.HandleFunc("/uniques", getUniques).Methods("GET")
	router.HandleFunc("/stats", getStats).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	router.Use(logMiddleware)
	log.Fatal(http.ListenAndServe(addr, router))
}
