package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
)

// WriteFile writes the output of write to path via a temp file and rename,
// so readers never see a partial file.
func WriteFile(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// WriteGeoJSONFile writes fc to path.
func WriteGeoJSONFile(path string, fc *geojson.FeatureCollection) error {
	return WriteFile(path, func(w io.Writer) error {
		data, err := fc.MarshalJSON()
		if err != nil {
			return fmt.Errorf("marshal geojson: %w", err)
		}
		_, err = w.Write(data)
		return err
	})
}

// WriteHTMLFile writes the Leaflet page for fc to path.
func WriteHTMLFile(path string, fc *geojson.FeatureCollection, title string) error {
	return WriteFile(path, func(w io.Writer) error {
		return WriteHTML(w, fc, title)
	})
}
