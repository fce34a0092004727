// Package domain models the earthquake and plate boundary overlays.
//
// # Data Sources
//
// Earthquakes come from the USGS real-time summary feeds, published as GeoJSON
// at https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/. The service
// defaults to all_week.geojson (every event of the past seven days, refreshed
// by USGS roughly every minute).
//
// Plate boundaries come from Peter Bird's PB2002 model as converted to GeoJSON
// by fraxen/tectonicplates. The dataset is static.
//
// # USGS Feed Conventions
//
// Geometry:
//
//	Point with coordinates [longitude, latitude, depth_km].
//	Depth may be negative for events above the reference ellipsoid.
//
// Magnitude:
//
//	properties.mag is a float in the magnitude type given by magType
//	(ml, md, mb, mww, ...). It is null for events that have not been sized
//	yet. Negative magnitudes are real micro-events, not errors.
//
// Time:
//
//	properties.time and properties.updated are epoch milliseconds UTC.
//
// # Color Scales
//
// A ColorScale maps magnitude to an uppercase "#RRGGBB" string. It is built
// once from a ScaleConfig and never changes. Three schemes exist:
//
//	discrete:        one color per ascending threshold; the color of the
//	                 highest threshold with magnitude >= threshold wins.
//	discrete-strict: same table, but magnitude > threshold.
//	linear:          red = 2·(255/max)·m, green = 2·(255/max)·(max−m),
//	                 each rounded and clamped to [0, 255]; blue = 0.
//	gradient:        HCL blend between the two stops around m.
//
// Every scheme saturates: magnitudes below the first threshold take the
// first color, magnitudes above the last take the last color. No input,
// including NaN or ±Inf, produces a malformed string.
//
// Default table (discrete, thresholds 0 through 7):
//
//	0 #006400  1 #008000  2 #ADFF2F  3 #FFFFCC
//	4 #FFFF66  5 #FFDAB9  6 #CD5C5C  7+ #8B0000
//
// # Markers
//
// Marker radius is 3 pixels per magnitude unit, floored at 1 so that
// micro-events stay visible. Fill opacity is 0.8 with a 1px black outline.
package domain
