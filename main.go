package main

import (
	"context"
	"os"

	"cian-scraper/config"
	"cian-scraper/scraper/cian"
	"cian-scraper/services"
	"cian-scraper/storage"
	"cian-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== CIAN Listing Scraper starting ===")
	logger.Info("Config — %s/%s in %s | pages %d..%d | express: %v | homeowner only: %v",
		cfg.DealType, cfg.AccommodationType, cfg.City,
		cfg.StartPage, cfg.EndPage, cfg.ExpressMode, cfg.ByHomeowner)

	assembler := services.NewAssembler(cfg.DealType, !cfg.ExpressMode, cfg.LatinOutput)

	var sink storage.RecordSink
	if cfg.SaveCSV {
		path := storage.DefaultCSVPath(cfg.DataDir, cfg.DealType, cfg.StartPage, cfg.EndPage, cfg.City)
		w, err := storage.NewCSVWriter(path, assembler)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
			os.Exit(1)
		}
		logger.Info("Export file: %s", path)
		sink = w
		defer sink.Close()
	}

	fetcher, cleanup := cian.NewHeadlessFetcher(cfg.ChromeBin)
	defer cleanup()

	scraper := cian.New(cfg, logger, fetcher, assembler, sink)
	records, err := scraper.Run(context.Background())
	if err != nil {
		logger.Error("Crawl failed: %v", err)
	}

	if len(records) == 0 {
		logger.Error("No listings were collected. Exiting.")
		os.Exit(1)
	}

	session := scraper.Session()
	report := &services.Report{
		DealType:  cfg.DealType,
		Committed: session.Committed,
		MeanPrice: session.MeanPrice,
	}
	report.Print()
}
