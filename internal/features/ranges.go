package features

// Range bounds an editable feature input. Min and Max are inclusive; Step is
// the slider increment rendered on the dashboard.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Bounds observed in the combined red/white wine-quality dataset, padded to
// round slider stops.
var ranges = map[string]Range{
	FixedAcidity:      {Min: 3.8, Max: 15.9, Step: 0.1},
	VolatileAcidity:   {Min: 0.08, Max: 1.58, Step: 0.01},
	CitricAcid:        {Min: 0.0, Max: 1.66, Step: 0.01},
	Chlorides:         {Min: 0.009, Max: 0.611, Step: 0.001},
	FreeSulfurDioxide: {Min: 1, Max: 289, Step: 1},
	Density:           {Min: 0.987, Max: 1.039, Step: 0.0001},
	Alcohol:           {Min: 8.0, Max: 14.9, Step: 0.1},
	TypeWhite:         {Min: 0, Max: 1, Step: 1},
}

var labels = map[string]string{
	FixedAcidity:      "Fixed acidity",
	VolatileAcidity:   "Volatile acidity",
	CitricAcid:        "Citric acid",
	Chlorides:         "Chlorides",
	FreeSulfurDioxide: "Free sulfur dioxide",
	Density:           "Density",
	Alcohol:           "Alcohol",
	TypeWhite:         "Wine type",
}

// names holds the rendering order for the dashboard; the type selector is
// kept last because it is a toggle, not a slider.
var names = []string{
	FixedAcidity,
	VolatileAcidity,
	CitricAcid,
	Chlorides,
	FreeSulfurDioxide,
	Density,
	Alcohol,
	TypeWhite,
}

// RangeOf returns the editing bounds for the named feature.
func RangeOf(name string) (Range, bool) {
	r, ok := ranges[name]
	return r, ok
}

// Ranges returns a copy of the full bounds table.
func Ranges() map[string]Range {
	out := make(map[string]Range, len(ranges))
	for k, v := range ranges {
		out[k] = v
	}
	return out
}

// Names returns all feature names in rendering order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Label returns the display label for the named feature.
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}
