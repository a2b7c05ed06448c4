// Package audio plays the ambient tracks and the completion chime.
package audio

import "image/color"

// DefaultVolume is the initial volume of every catalog track.
const DefaultVolume = 0.5

// TrackInfo describes one ambient track in the catalog.
type TrackInfo struct {
	ID   string
	Name string
	// URL is an http(s) URL, a file:// URL or a local path to an Ogg Vorbis stream.
	URL string
}

// DefaultCatalog returns the built-in ambient tracks in display order.
func DefaultCatalog() []TrackInfo {
	return []TrackInfo{
		{ID: "rain", Name: "Rain", URL: "https://actions.google.com/sounds/v1/weather/rain_on_roof.ogg"},
		{ID: "fire", Name: "Fireplace", URL: "https://actions.google.com/sounds/v1/ambiences/fire.ogg"},
		{ID: "cafe", Name: "Cafe", URL: "https://actions.google.com/sounds/v1/ambiences/coffee_shop.ogg"},
		{ID: "wind", Name: "Wind", URL: "https://actions.google.com/sounds/v1/weather/strong_wind.ogg"},
		{ID: "waves", Name: "Ocean Waves", URL: "https://actions.google.com/sounds/v1/water/waves_crashing_on_rock_beach.ogg"},
		{ID: "forest", Name: "Forest", URL: "https://actions.google.com/sounds/v1/ambiences/spring_day_forest.ogg"},
	}
}

// WithOverrides replaces catalog URLs by id. Unknown ids are ignored.
func WithOverrides(catalog []TrackInfo, urls map[string]string) []TrackInfo {
	result := make([]TrackInfo, len(catalog))
	copy(result, catalog)
	for i := range result {
		if url, ok := urls[result[i].ID]; ok && url != "" {
			result[i].URL = url
		}
	}
	return result
}

// Theme is the background palette tied to the active ambient track.
type Theme struct {
	Name    string
	Primary color.NRGBA
	Accent  color.NRGBA
}

// DefaultTheme is used while no ambient track is playing.
var DefaultTheme = Theme{
	Name:    "default",
	Primary: color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff},
	Accent:  color.NRGBA{R: 0x3d, G: 0x3d, B: 0x3d, A: 0xff},
}

var themes = map[string]Theme{
	"rain": {
		Name:    "rain",
		Primary: color.NRGBA{R: 0x1e, G: 0x3a, B: 0x5f, A: 0xff},
		Accent:  color.NRGBA{R: 0x2d, G: 0x5a, B: 0x87, A: 0xff},
	},
	"fire": {
		Name:    "fire",
		Primary: color.NRGBA{R: 0x8b, G: 0x45, B: 0x13, A: 0xff},
		Accent:  color.NRGBA{R: 0xd2, G: 0x69, B: 0x1e, A: 0xff},
	},
	"cafe": {
		Name:    "cafe",
		Primary: color.NRGBA{R: 0x3e, G: 0x27, B: 0x23, A: 0xff},
		Accent:  color.NRGBA{R: 0x5d, G: 0x40, B: 0x37, A: 0xff},
	},
	"wind": {
		Name:    "wind",
		Primary: color.NRGBA{R: 0x78, G: 0x90, B: 0x9c, A: 0xff},
		Accent:  color.NRGBA{R: 0xb0, G: 0xbe, B: 0xc5, A: 0xff},
	},
	"waves": {
		Name:    "waves",
		Primary: color.NRGBA{R: 0x00, G: 0x60, B: 0x64, A: 0xff},
		Accent:  color.NRGBA{R: 0x00, G: 0x83, B: 0x8f, A: 0xff},
	},
	"forest": {
		Name:    "forest",
		Primary: color.NRGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff},
		Accent:  color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
	},
}

// ThemeFor returns the theme of track id, or DefaultTheme.
func ThemeFor(id string) Theme {
	if theme, ok := themes[id]; ok {
		return theme
	}
	return DefaultTheme
}
