package predictedit

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scorer maps a toned low-resolution image and its curved luminance to a scalar, higher is better.
type Scorer interface {
	Score(toned *RasterBuffer, curved []float64) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(toned *RasterBuffer, curved []float64) float64

// Score implements Scorer.
func (f ScorerFunc) Score(toned *RasterBuffer, curved []float64) float64 {
	return f(toned, curved)
}

// Heuristic scorer targets.
const (
	shadowClip    = 0.02
	highlightClip = 0.98
	targetStd     = 0.25
	targetSat     = 0.25
	maxSat        = 0.4
)

// HeuristicScorer rewards mid-centered exposure, a target contrast band and moderate
// saturation, and penalizes over-saturation and clipped shadows or highlights.
type HeuristicScorer struct{}

// Score implements Scorer.
func (HeuristicScorer) Score(toned *RasterBuffer, curved []float64) float64 {
	n := len(curved)
	if n == 0 || !toned.Valid() || toned.Pixels() < n {
		return 0
	}

	lum := make([]float64, n)
	var clipShadow, clipHighlight float64
	for i, v := range curved {
		v = finite(v)
		lum[i] = v
		if v < shadowClip {
			clipShadow++
		}
		if v > highlightClip {
			clipHighlight++
		}
	}
	meanC, stdC := stat.PopMeanStdDev(lum, nil)

	var meanSat float64
	p := toned.Pix
	for j := 0; j < n; j++ {
		i := j * 4
		r := float64(p[i]) / 255
		g := float64(p[i+1]) / 255
		b := float64(p[i+2]) / 255
		gray := (r + g + b) / 3
		meanSat += (math.Abs(r-gray) + math.Abs(g-gray) + math.Abs(b-gray)) / 3
	}
	fn := float64(n)
	meanSat /= fn
	clipShadow /= fn
	clipHighlight /= fn

	score := 2.0 * (1 - clamp01(math.Abs(meanC-0.5)*2))
	score += 1.5 * (1 - clamp01(math.Abs(stdC-targetStd)*4))
	score += 0.5 * (1 - clamp01(math.Abs(meanSat-targetSat)*4))
	score -= math.Max(0, meanSat-maxSat) * 4
	score -= (clipShadow + clipHighlight) * 5

	return score
}
