package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dmarkov/weather-requests-api/internal/config"
	"github.com/dmarkov/weather-requests-api/internal/database"
	"github.com/dmarkov/weather-requests-api/internal/export"
	"github.com/dmarkov/weather-requests-api/internal/repository"
	"go.uber.org/zap"
)

func main() {
	var (
		format   = flag.String("format", "json", "Export format: json, xml, csv, markdown, or pdf")
		limit    = flag.Int("limit", 1000, "Maximum number of requests to export")
		location = flag.String("location", "", "Optional location substring filter")
		output   = flag.String("output", "", "Output file path (defaults to the stamped export filename)")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := repository.NewRepositories(db, cfg.DB.Type)

	ctx := context.Background()
	requests, err := repos.Requests.List(ctx, *limit, 0, *location)
	if err != nil {
		logger.Fatal("Failed to read weather requests", zap.Error(err))
	}

	exporter := export.NewExporter()
	result, err := exporter.Export(export.FlattenRequests(requests), *format)
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}

	path := *output
	if path == "" {
		path = result.Filename
	}

	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		logger.Fatal("Failed to write export file", zap.Error(err))
	}

	logger.Info("Export written",
		zap.String("path", path),
		zap.String("format", *format),
		zap.Int("records", len(requests)),
	)
}
