package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/relatable/relatable/render"
	"github.com/relatable/relatable/schema"
	"github.com/relatable/relatable/source"
)

func main() {
	_ = godotenv.Load()
	input := getEnv("RELATABLE_INPUT", "-")
	level := getEnv("RELATABLE_LOG", "info")
	threshold := getEnvInt("RELATABLE_MAP_KEYS", 0)
	capacity := getEnvInt("RELATABLE_FILTER_CAPACITY", 0)
	fpRate := getEnvFloat("RELATABLE_FILTER_FP", 0)

	if err := setupLogging(level); err != nil {
		slog.Error("could not init logging", "err", err)
		return
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			slog.Error("could not open input", "err", err)
			return
		}
		defer f.Close()
		r = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := schema.NewBuilder(schema.Config{
		MapKeyThreshold:         threshold,
		FilterCapacity:          uint(capacity),
		FilterFalsePositiveRate: fpRate,
	})

	node, err := b.Build(ctx, source.NewJSONLines(r))
	if err != nil {
		slog.Error("scan failed", "err", err)
		return
	}

	render.Text(os.Stdout, node, b.Uniques())

	stats := b.Stats()
	slog.Info("scan complete",
		"documents", stats.Documents,
		"rejected", stats.Rejected,
		"dropped_list_fields", stats.DroppedListFields,
		"name_conflicts", stats.NameConflicts)
}

func setupLogging(level string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(level))
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
	return err
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
		slog.Warn("ignoring bad config value", "key", key, "val", val)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		slog.Warn("ignoring bad config value", "key", key, "val", val)
	}
	return fallback
}
