package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/paulmach/orb/geojson"
)

//go:embed map.html.tmpl
var mapTemplateSrc string

var mapTemplate = template.Must(template.New("map").Parse(mapTemplateSrc))

type mapPage struct {
	Title   string
	Data    template.JS
	Zoom    int
	Summary string
}

// WriteHTML writes a standalone Leaflet page that draws fc.
// Cities are small markers, stops are numbered, the route is a red line.
func WriteHTML(w io.Writer, fc *geojson.FeatureCollection, title string) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}

	page := mapPage{
		Title: title,
		Data:  template.JS(data),
		Zoom:  6,
	}
	for _, f := range fc.Features {
		if f.Properties.MustString("kind", "") == KindRoute {
			page.Summary = fmt.Sprintf("%d stops, %.2f km",
				f.Properties.MustInt("stops", 0), f.Properties.MustFloat64("total_distance_km", 0))
		}
	}

	if err := mapTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}
