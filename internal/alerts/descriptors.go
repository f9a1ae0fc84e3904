package alerts

// Descriptor is the static display mapping for an alert type: emoji glyph,
// panel title and accent color.
type Descriptor struct {
	Emoji string `json:"emoji"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// defaultDescriptor is used for unknown or future alert types so the UI
// never fails on an unmapped kind.
var defaultDescriptor = Descriptor{Emoji: "⚠️", Title: "Weather Alert", Color: "#DC2626"}

var descriptors = map[Type]Descriptor{
	TypeThunderstorm: {Emoji: "⛈️", Title: "Thunderstorm Alert", Color: "#7C2D12"},
	TypeHeavyRain:    {Emoji: "🌧️", Title: "Heavy Rain Warning", Color: "#1E40AF"},
	TypeExtremeHeat:  {Emoji: "☀️", Title: "Extreme Heat Alert", Color: "#DC2626"},
	TypeFreezing:     {Emoji: "❄️", Title: "Freezing Conditions", Color: "#1E40AF"},
	TypeHighWind:     {Emoji: "💨", Title: "High Wind Warning", Color: "#7C2D12"},
	"fog":            {Emoji: "🌫️", Title: "Dense Fog Alert", Color: "#6B7280"},
	"hail":           {Emoji: "🌩️", Title: "Hail Warning", Color: "#7C2D12"},
	"snow":           {Emoji: "❄️", Title: "Snow Alert", Color: "#1E40AF"},
	"normal":         {Emoji: "✅", Title: "Weather Normal", Color: "#16a34a"},
}

// DescriptorFor returns the display descriptor for an alert type, falling
// back to a generic warning descriptor for unmapped types.
func DescriptorFor(t Type) Descriptor {
	if d, ok := descriptors[t]; ok {
		return d
	}
	return defaultDescriptor
}
