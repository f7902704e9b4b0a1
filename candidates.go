package predictedit

import (
	"fmt"
	"math"
)

// CandidateLimit bounds every candidate component.
const CandidateLimit = 0.5

// signEps is the magnitude below which a reference delta counts as neutral.
const signEps = 1e-3

var (
	candidateScales   = [...]float64{0.5, 0.75, 1, 1.25}
	saturationOffsets = [...]float64{-0.2, 0, 0.2, 0.4}
)

// Candidate is one parameter set considered during selection.
type Candidate struct {
	Brightness       float64 `json:"brightness"`
	Contrast         float64 `json:"contrast"`
	LutStrengthDelta float64 `json:"lutStrengthDelta"`
	Saturation       float64 `json:"saturation"`
}

func (c Candidate) key() string {
	return fmt.Sprintf("%.4f_%.4f_%.4f_%.4f", c.Brightness, c.Contrast, c.LutStrengthDelta, c.Saturation)
}

// LutStrength returns the strength at which an active LUT is applied for this candidate.
func (c Candidate) LutStrength() float64 {
	return clamp01(0.5 + c.LutStrengthDelta)
}

// UserCandidate is the clamped intent vector with no saturation change.
func UserCandidate(v IntentVector) Candidate {
	return Candidate{
		Brightness:       clampDelta(v.Brightness),
		Contrast:         clampDelta(v.Contrast),
		LutStrengthDelta: clampDelta(v.Lut),
	}
}

// GenerateCandidates builds the deduplicated neighbour lattice around v in insertion order.
// Without searchSaturation the saturation axis is fixed at 0.
func GenerateCandidates(v IntentVector, searchSaturation bool) []Candidate {
	satAxis := saturationOffsets[:]
	if !searchSaturation {
		satAxis = []float64{0}
	}

	n := len(candidateScales) * len(candidateScales) * len(candidateScales) * len(satAxis)
	seen := make(map[string]struct{}, n)
	out := make([]Candidate, 0, n)

	for _, sb := range candidateScales {
		for _, sc := range candidateScales {
			for _, sl := range candidateScales {
				for _, ss := range satAxis {
					c := Candidate{
						Brightness:       sameSignOrZero(clampDelta(v.Brightness*sb), v.Brightness),
						Contrast:         sameSignOrZero(clampDelta(v.Contrast*sc), v.Contrast),
						LutStrengthDelta: sameSignOrZero(clampDelta(v.Lut*sl), v.Lut),
						Saturation:       clampDelta(ss),
					}
					k := c.key()
					if _, ok := seen[k]; ok {
						continue
					}
					seen[k] = struct{}{}
					out = append(out, c)
				}
			}
		}
	}

	return out
}

// sameSignOrZero zeroes v when it points against a non-neutral reference.
func sameSignOrZero(v, ref float64) float64 {
	if math.Abs(ref) < signEps {
		return v
	}
	if (ref > 0 && v < 0) || (ref < 0 && v > 0) {
		return 0
	}
	return v
}

func clampDelta(v float64) float64 {
	return clamp(finite(v), -CandidateLimit, CandidateLimit)
}
