package mapbox

import (
	"net/url"
	"strings"

	"github.com/couchcryptid/quake-overlay-service/internal/domain"
)

const (
	tileURLTemplate = "https://api.mapbox.com/styles/v1/{id}/tiles/{z}/{x}/{y}?access_token={accessToken}"
	attribution     = `Map data &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors, Imagery © <a href="https://www.mapbox.com/">Mapbox</a>`
	tileMaxZoom     = 18
)

// Style is a Mapbox style offered as a base layer.
type Style struct {
	Name string
	ID   string
}

// DefaultStyles are the base layers in display order. The first one is shown on load.
var DefaultStyles = []Style{
	{Name: "Satellite", ID: "mapbox/satellite-streets-v11"},
	{Name: "Grayscale", ID: "mapbox/light-v10"},
	{Name: "Outdoors", ID: "mapbox/outdoors-v11"},
}

// BaseLayers expands styles into Leaflet tile layer definitions for token.
func BaseLayers(token string, styles []Style) []domain.BaseLayer {
	layers := make([]domain.BaseLayer, len(styles))
	for i, s := range styles {
		tileURL := strings.NewReplacer(
			"{id}", s.ID,
			"{accessToken}", url.QueryEscape(token),
		).Replace(tileURLTemplate)
		layers[i] = domain.BaseLayer{
			Name:        s.Name,
			TileURL:     tileURL,
			Attribution: attribution,
			MaxZoom:     tileMaxZoom,
		}
	}
	return layers
}

// OpenStreetMapLayer is the base layer offered when no Mapbox token is set.
var OpenStreetMapLayer = domain.BaseLayer{
	Name:        "Street Map",
	TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	MaxZoom:     19,
}

// ViewLayers returns the Mapbox styles for token, or the OpenStreetMap layer
// when token is empty.
func ViewLayers(token string) []domain.BaseLayer {
	if token == "" {
		return []domain.BaseLayer{OpenStreetMapLayer}
	}
	return BaseLayers(token, DefaultStyles)
}
