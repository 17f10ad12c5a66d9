package language

// hindiIndicators are high-frequency Hindi function words in native script.
// Their presence in a transcript sample is a strong Hindi-family signal even
// when the engine's own language tag disagrees.
var hindiIndicators = map[string]struct{}{
	"है":    {},
	"हैं":   {},
	"और":    {},
	"का":    {},
	"की":    {},
	"के":    {},
	"में":   {},
	"से":    {},
	"को":    {},
	"पर":    {},
	"नहीं":  {},
	"क्या":  {},
	"कैसे":  {},
	"अच्छा": {},
	"बहुत":  {},
	"लेकिन": {},
	"अगर":   {},
	"मैं":   {},
	"तुम":   {},
	"आप":    {},
}

// romanizedTokens are Hindi words commonly decoded in Latin script. They
// count toward the lexicon threshold alongside the native indicators.
var romanizedTokens = map[string]struct{}{
	"hai":   {},
	"hain":  {},
	"kar":   {},
	"kya":   {},
	"kaise": {},
	"acha":  {},
	"accha": {},
	"bura":  {},
	"nahi":  {},
	"aur":   {},
	"bahut": {},
	"thik":  {},
	"yaar":  {},
	"matlab": {},
}

// codeSwitchMarkers is the small set of romanized tokens where a single
// occurrence is enough to mark the sample as code-switched.
var codeSwitchMarkers = map[string]struct{}{
	"hai":   {},
	"kar":   {},
	"kya":   {},
	"kaise": {},
	"acha":  {},
	"bura":  {},
}
