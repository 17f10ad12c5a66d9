package subtitle

import (
	"fmt"
	"strings"

	"github.com/Sarkar-G22/subpro2/internal/domain"
)

// namedColors maps the supported color names to ASS &Hbbggrr values.
var namedColors = map[string]string{
	"white":  "&Hffffff",
	"black":  "&H000000",
	"red":    "&H0000ff",
	"green":  "&H00ff00",
	"blue":   "&Hff0000",
	"yellow": "&H00ffff",
}

// colorToASS converts a #RRGGBB hex string or a named color to the ASS
// &Hbbggrr form. Unrecognized input falls back to white.
func colorToASS(color string) string {
	c := strings.ToLower(strings.TrimSpace(color))
	if v, ok := namedColors[c]; ok {
		return v
	}
	if strings.HasPrefix(c, "#") && len(c) == 7 {
		rr, gg, bb := c[1:3], c[3:5], c[5:7]
		if isHex(rr) && isHex(gg) && isHex(bb) {
			return "&H" + bb + gg + rr
		}
	}
	return namedColors["white"]
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func assFlag(on bool) int {
	if on {
		return 1
	}
	return 0
}

func assShadow(on bool) int {
	if on {
		return 2
	}
	return 0
}

// CompileStyle renders a style descriptor as the ASS style definition line
// embedded into the [V4+ Styles] section.
func CompileStyle(style domain.StyleDescriptor) string {
	return fmt.Sprintf("Style: Default,%s,%d,%s,&H000000ff,%s,&H00000000,%d,%d,0,0,100,100,0,0,1,2,%d,2,10,10,30,1",
		style.FontFamily,
		style.FontSizePt,
		colorToASS(style.PrimaryColor),
		colorToASS(style.OutlineColor),
		assFlag(style.Bold),
		assFlag(style.Italic),
		assShadow(style.Shadow),
	)
}

// assTimestamp renders seconds in the ASS H:MM:SS.cc form.
func assTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	centis := int64(seconds*100 + 0.5)
	cc := centis % 100
	centis /= 100
	secs := centis % 60
	centis /= 60
	mins := centis % 60
	hours := centis / 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, mins, secs, cc)
}

// BuildDocument converts SRT content into a full ASS document carrying the
// given style. It returns an error when no cues survive parsing.
func BuildDocument(srtContent string, style domain.StyleDescriptor) (string, error) {
	cues := Parse(srtContent)
	if len(cues) == 0 {
		return "", fmt.Errorf("no cues to convert")
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	b.WriteString("PlayResX: 1920\n")
	b.WriteString("PlayResY: 1080\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	b.WriteString(CompileStyle(style))
	b.WriteString("\n\n")

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		text := strings.ReplaceAll(cue.Text, "\n", "\\N")
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			assTimestamp(cue.Start), assTimestamp(cue.End), text)
	}
	return b.String(), nil
}
