package domain

// StyleDescriptor is the caller-supplied caption styling. Colors are hex
// (#RRGGBB) or one of a small palette of names; anything unrecognized renders
// as white.
type StyleDescriptor struct {
	FontFamily   string
	FontSizePt   int
	PrimaryColor string
	OutlineColor string
	Bold         bool
	Italic       bool
	Shadow       bool
}

// DefaultStyle matches the tool's historical defaults.
func DefaultStyle() StyleDescriptor {
	return StyleDescriptor{
		FontFamily:   "Arial",
		FontSizePt:   24,
		PrimaryColor: "white",
		OutlineColor: "black",
		Bold:         false,
		Italic:       false,
		Shadow:       true,
	}
}
