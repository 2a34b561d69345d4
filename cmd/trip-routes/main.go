package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	triproutes "github.com/theoremus-urban-solutions/trip-routes"
	"github.com/theoremus-urban-solutions/trip-routes/config"
	"github.com/theoremus-urban-solutions/trip-routes/store"
	"github.com/theoremus-urban-solutions/trip-routes/uploads"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	cfgPath := flag.String("config", "", "path to config.yml (default search order otherwise)")
	file := flag.String("file", "", "parquet trip file (oneshot mode)")
	uploadMode := flag.String("uploadMode", "create", "create|update (oneshot mode)")
	limitRows := flag.Int("limitRows", 0, "max rows to process (0 = config default)")
	topN := flag.Int("topN", 0, "number of top pairs to keep (0 = config default)")
	flag.Parse()

	triproutes.InitLogging()

	var cfg config.AppConfig
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, err = config.Load()
		if err != nil && os.IsNotExist(err) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *limitRows > 0 {
		cfg.Upload.LimitRows = *limitRows
	}
	if *topN > 0 {
		cfg.Upload.TopN = *topN
	}

	st := store.New()
	if cfg.Zones.LookupCSV != "" {
		if _, err := triproutes.SeedZonesFromCSV(st, cfg.Zones.LookupCSV); err != nil {
			log.Fatalf("zone seeding: %v", err)
		}
	}

	switch *mode {
	case "serve":
		srv := triproutes.NewServer(cfg, st)
		srv.Start()
		srv.WaitForShutdown()
	case "oneshot":
		if *file == "" {
			log.Fatal("oneshot mode requires -file")
		}
		m, err := uploads.ParseMode(*uploadMode)
		if err != nil {
			log.Fatal(err)
		}
		coord := uploads.NewCoordinator(st)
		sum, err := coord.ProcessFile(context.Background(), *file, filepath.Base(*file), m,
			cfg.Upload.LimitRows, cfg.Upload.TopN)
		if err != nil {
			log.Fatalf("processing %s: %v", *file, err)
		}
		out, _ := json.MarshalIndent(sum, "", "  ")
		fmt.Println(string(out))
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}
