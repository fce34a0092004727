package domain

// BaseLayer is a selectable background tile layer.
type BaseLayer struct {
	Name        string `json:"name"`
	TileURL     string `json:"tile_url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"max_zoom"`
}

// MapView is the initial state handed to the browser map.
type MapView struct {
	Center     [2]float64  `json:"center"`
	Zoom       int         `json:"zoom"`
	BaseLayers []BaseLayer `json:"base_layers"`
	Overlays   []string    `json:"overlays"`
	// TopOverlay is re-raised whenever another overlay is toggled on.
	TopOverlay string `json:"top_overlay"`
}

const (
	OverlayEarthquakes = "Earthquakes"
	OverlayPlates      = "Plates"
)

// DefaultMapView centers on the continental US at zoom 5.
func DefaultMapView(baseLayers []BaseLayer) MapView {
	return MapView{
		Center:     [2]float64{37.09, -95.71},
		Zoom:       5,
		BaseLayers: baseLayers,
		Overlays:   []string{OverlayEarthquakes, OverlayPlates},
		TopOverlay: OverlayEarthquakes,
	}
}
