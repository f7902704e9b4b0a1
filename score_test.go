package predictedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicScorer(t *testing.T) {
	var s HeuristicScorer

	score := func(buf *RasterBuffer) float64 {
		toned, curved := ToneForScoring(buf, 0, 0)
		return s.Score(toned, curved)
	}

	// Mid gray: exposure reward only, no contrast or saturation reward.
	assert.InDelta(t, 1.992, score(NewFilledRaster(4, 4, 128, 128, 128, 255)), 0.01)

	// Black: fully clipped shadows.
	assert.InDelta(t, -5, score(NewFilledRaster(4, 4, 0, 0, 0, 255)), 1e-9)

	gradient := NewRasterBuffer(64, 1)
	for x := 0; x < 64; x++ {
		v := uint8(32 + x*3)
		copy(gradient.Pix[x*4:], []uint8{v, v, v, 255})
	}
	if g, b := score(gradient), score(NewFilledRaster(64, 1, 0, 0, 0, 255)); g <= b {
		t.Fatalf("gradient %v should beat black %v", g, b)
	}
}

func TestHeuristicScorerSaturationPenalty(t *testing.T) {
	var s HeuristicScorer

	tg, curved := ToneForScoring(NewFilledRaster(4, 4, 128, 128, 128, 255), 0, 0)
	tv, _ := ToneForScoring(NewFilledRaster(4, 4, 255, 0, 0, 255), 0, 0)

	// Same curved luminance, only saturation differs.
	assert.Less(t, s.Score(tv, curved), s.Score(tg, curved))
}

func TestHeuristicScorerEmpty(t *testing.T) {
	var s HeuristicScorer

	assert.Equal(t, 0.0, s.Score(nil, nil))
	assert.Equal(t, 0.0, s.Score(NewRasterBuffer(0, 0), []float64{}))
	assert.Equal(t, 0.0, s.Score(NewRasterBuffer(1, 1), []float64{0.5, 0.5}))
}

func TestHeuristicScorerMalformedBuffer(t *testing.T) {
	var s HeuristicScorer
	short := &RasterBuffer{Width: 4, Height: 4, Pix: make([]uint8, 8)}
	assert.Equal(t, 0.0, s.Score(short, make([]float64, 16)))
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(_ *RasterBuffer, curved []float64) float64 {
		return float64(len(curved))
	})
	assert.Equal(t, 3.0, s.Score(nil, make([]float64, 3)))
}
