// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the commands. Flags override these.
type Config struct {
	CSVPath     string
	PBFPath     string
	Country     string
	BBox        string // minLat,minLng,maxLat,maxLng; empty = no box
	Places      string // comma-separated OSM place values; empty = city,town
	LargestOnly bool
	Metric      string
	MaxEdgeKm   float64
	MaxSnapKm   float64
	Workers     int
	Port        int
	CORSOrigin  string
	Timeout     time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		CSVPath: "worldcities.csv",
		Metric:  "haversine",
		// 0 means a complete graph.
		MaxEdgeKm: 0,
		MaxSnapKm: 50,
		Port:      8080,
		Timeout:   5 * time.Second,
	}
}

// Load reads .env files (missing files are fine) and then the
// CITY_ROUTER_* environment variables on top of Default.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	env := func(key string) string { return getenv("CITY_ROUTER_" + key) }

	cfg.CSVPath = getString(env("CSV"), cfg.CSVPath)
	cfg.PBFPath = getString(env("PBF"), cfg.PBFPath)
	cfg.Country = getString(env("COUNTRY"), cfg.Country)
	cfg.BBox = getString(env("BBOX"), cfg.BBox)
	cfg.Places = getString(env("PLACES"), cfg.Places)
	cfg.Metric = getString(env("METRIC"), cfg.Metric)
	cfg.CORSOrigin = getString(env("CORS_ORIGIN"), cfg.CORSOrigin)

	var err error
	if cfg.LargestOnly, err = getBool("CITY_ROUTER_LARGEST_ONLY", env("LARGEST_ONLY"), cfg.LargestOnly); err != nil {
		return cfg, err
	}
	if cfg.MaxEdgeKm, err = getFloat("CITY_ROUTER_MAX_EDGE_KM", env("MAX_EDGE_KM"), cfg.MaxEdgeKm); err != nil {
		return cfg, err
	}
	if cfg.MaxSnapKm, err = getFloat("CITY_ROUTER_MAX_SNAP_KM", env("MAX_SNAP_KM"), cfg.MaxSnapKm); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = getInt("CITY_ROUTER_WORKERS", env("WORKERS"), cfg.Workers); err != nil {
		return cfg, err
	}
	if cfg.Port, err = getInt("CITY_ROUTER_PORT", env("PORT"), cfg.Port); err != nil {
		return cfg, err
	}
	if v := env("TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("CITY_ROUTER_TIMEOUT: invalid duration %q", v)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func getString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func getBool(key, v string, fallback bool) (bool, error) {
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid value %q", key, v)
	}
	return b, nil
}

func getFloat(key, v string, fallback float64) (float64, error) {
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fallback, fmt.Errorf("%s: invalid value %q", key, v)
	}
	return f, nil
}

func getInt(key, v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback, fmt.Errorf("%s: invalid value %q", key, v)
	}
	return n, nil
}
