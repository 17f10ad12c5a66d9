package textnorm

import "strings"

// correction is one ordered substring replacement. Order matters: longer
// native-script phrases must fire before their substrings.
type correction struct {
	from string
	to   string
}

// corrections fixes frequent mis-transliterations and mixed-script spacing
// artifacts seen in Hindi/Hinglish engine output. This is a deterministic
// table, not a learned step.
var corrections = []correction{
	// Native-script words kept in romanized form for Hinglish readability.
	{"है ना", "hai na"},
	{"और", "aur"},
	{"क्या", "kya"},
	{"कैसे", "kaise"},
	{"अच्छा", "accha"},
	{"बहुत", "bahut"},
	{"थोड़ा", "thoda"},

	// Common misheard romanizations.
	{"theek", "thik"},
	{"paani", "pani"},

	// Spacing artifacts splitting verb suffixes.
	{"kar na", "karna"},
	{"ja na", "jana"},
	{"aa na", "aana"},
}

// ApplyCorrections runs the fixed replacement table over text in order.
func ApplyCorrections(text string) string {
	for _, c := range corrections {
		text = strings.ReplaceAll(text, c.from, c.to)
	}
	return text
}
