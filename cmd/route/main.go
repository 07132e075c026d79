package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"city_router/pkg/config"
	"city_router/pkg/loader"
	osmparser "city_router/pkg/osm"
	"city_router/pkg/render"
	"city_router/pkg/routing"
)

const defaultWaypoints = "Warsaw,Białystok,Gdańsk,Szczecin,Poznań,Wrocław,Katowice,Kraków,Lublin,Rzeszów"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	csvPath := flag.String("csv", cfg.CSVPath, "Path to cities CSV (city,lat,lng[,country])")
	pbfPath := flag.String("pbf", cfg.PBFPath, "Path to .osm.pbf extract (overrides -csv)")
	country := flag.String("country", cfg.Country, "Keep only cities in this country")
	bbox := flag.String("bbox", cfg.BBox, "Bounding box filter: minLat,minLng,maxLat,maxLng")
	places := flag.String("places", cfg.Places, "Comma-separated OSM place values for -pbf (default city,town)")
	largestOnly := flag.Bool("largest-only", cfg.LargestOnly, "Keep only the largest connected component")
	metric := flag.String("metric", cfg.Metric, "Distance metric: haversine or equirectangular")
	maxEdgeKm := flag.Float64("max-edge-km", cfg.MaxEdgeKm, "Connect only cities at most this far apart (0 = all pairs)")
	waypoints := flag.String("waypoints", defaultWaypoints, "Comma-separated cities to visit in order")
	geojsonOut := flag.String("geojson", "", "Write the graph and route as GeoJSON to this file")
	htmlOut := flag.String("html", "", "Write an HTML map of the route to this file")
	allEdges := flag.Bool("all-edges", false, "Include every graph edge in the map output")
	routeOnly := flag.Bool("route-only", false, "Map only the route line and its stops")
	noCities := flag.Bool("no-cities", false, "Omit cities that are not on the route from the map")
	flag.Parse()

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

	stops := loader.SplitList(*waypoints)
	if len(stops) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: route [-csv cities.csv | -pbf extract.osm.pbf] [-country NAME] -waypoints \"A,B,C\"")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()

	// Step 1: Load locations and build the graph.
	g, err := loader.Graph(ctx, src, loader.Options{
		Metric:      *metric,
		MaxEdgeKm:   *maxEdgeKm,
		LargestOnly: *largestOnly,
	})
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	// Step 2: Compose the route.
	engine := routing.NewEngine(g, routing.EngineOptions{MaxSnapKm: cfg.MaxSnapKm, Workers: cfg.Workers})
	route, err := engine.RouteNames(ctx, stops)
	if err != nil {
		log.Fatalf("Failed to compose route: %v", err)
	}

	fmt.Printf("Shortest path visiting %d cities: %s\n", len(stops), strings.Join(route.Path, " -> "))
	fmt.Printf("Total distance: %.2f km\n", route.TotalDistance)

	// Step 3: Render.
	if *geojsonOut != "" || *htmlOut != "" {
		fc := render.GeoJSON(g, route, render.Options{
			AllEdges:  *allEdges,
			NoCities:  *noCities,
			RouteOnly: *routeOnly,
		})
		if *geojsonOut != "" {
			if err := render.WriteGeoJSONFile(*geojsonOut, fc); err != nil {
				log.Fatalf("Failed to write GeoJSON: %v", err)
			}
			log.Printf("Wrote %s (%d features)", *geojsonOut, len(fc.Features))
		}
		if *htmlOut != "" {
			title := fmt.Sprintf("Shortest Path Visiting %d Cities", len(stops))
			if err := render.WriteHTMLFile(*htmlOut, fc, title); err != nil {
				log.Fatalf("Failed to write HTML: %v", err)
			}
			log.Printf("Wrote %s", *htmlOut)
		}
	}

	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}
