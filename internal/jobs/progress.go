package jobs

import "github.com/Sarkar-G22/subpro2/internal/domain"

// progressBand is the percent range a stage occupies.
type progressBand struct {
	lo int
	hi int
}

var progressBands = map[domain.Stage]progressBand{
	domain.StageAccepted:     {0, 0},
	domain.StageExtracting:   {0, 25},
	domain.StageClassifying:  {25, 35},
	domain.StageTranscribing: {35, 75},
	domain.StageSerializing:  {75, 85},
	domain.StageBurningIn:    {85, 100},
	domain.StageCompleted:    {100, 100},
}

// Percent maps a stage plus an intra-stage fraction to an overall percentage.
// Progress is a function of pipeline position only, never of message text.
func Percent(stage domain.Stage, fraction float64) int {
	band, ok := progressBands[stage]
	if !ok {
		return 0
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return band.lo + int(fraction*float64(band.hi-band.lo))
}
