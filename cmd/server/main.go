package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"city_router/pkg/api"
	"city_router/pkg/config"
	"city_router/pkg/graph"
	"city_router/pkg/loader"
	osmparser "city_router/pkg/osm"
	"city_router/pkg/routing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	csvPath := flag.String("csv", cfg.CSVPath, "Path to cities CSV")
	pbfPath := flag.String("pbf", cfg.PBFPath, "Path to .osm.pbf extract (overrides -csv)")
	country := flag.String("country", cfg.Country, "Keep only cities in this country")
	bbox := flag.String("bbox", cfg.BBox, "Bounding box filter: minLat,minLng,maxLat,maxLng")
	places := flag.String("places", cfg.Places, "Comma-separated OSM place values for -pbf (default city,town)")
	largestOnly := flag.Bool("largest-only", cfg.LargestOnly, "Keep only the largest connected component")
	metric := flag.String("metric", cfg.Metric, "Distance metric: haversine or equirectangular")
	maxEdgeKm := flag.Float64("max-edge-km", cfg.MaxEdgeKm, "Connect only cities at most this far apart (0 = all pairs)")
	port := flag.Int("port", cfg.Port, "HTTP port")
	corsOrigin := flag.String("cors-origin", cfg.CORSOrigin, "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	// Load graph.
	src := loader.Source{
		CSVPath: *csvPath,
		PBFPath: *pbfPath,
		Country: *country,
		Places:  loader.SplitList(*places),
	}
	if *bbox != "" {
		b, err := osmparser.ParseBBox(*bbox)
		if err != nil {
			log.Fatal(err)
		}
		src.BBox = b
	}
	g, err := loader.Graph(context.Background(), src, loader.Options{
		Metric:      *metric,
		MaxEdgeKm:   *maxEdgeKm,
		LargestOnly: *largestOnly,
	})
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}

	// Build routing engine.
	log.Println("Building R-tree spatial index...")
	engine := routing.NewEngine(g, routing.EngineOptions{MaxSnapKm: cfg.MaxSnapKm, Workers: cfg.Workers})

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	// Setup HTTP server.
	addr := fmt.Sprintf(":%d", *port)
	srvCfg := api.DefaultConfig(addr)
	srvCfg.CORSOrigin = *corsOrigin
	srvCfg.RequestTimeout = cfg.Timeout

	stats := api.StatsResponse{
		NumVertices:   g.NumVertices(),
		NumEdges:      g.NumEdges(),
		NumComponents: graph.Components(g),
	}

	handlers := api.NewHandlers(engine, stats)
	srv := api.NewServer(srvCfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
