package predictedit

// Options configures a Predictor.
type Options struct {
	// LowResMaxSize is the longer edge of the scoring buffer, default 256.
	LowResMaxSize int

	// Luts resolves LUT ids, an empty cache is created when nil.
	Luts *LutCache

	// Scorer rates toned candidates, default HeuristicScorer.
	// It is called concurrently and may use Downscale or a Resampler.
	Scorer Scorer

	// Tone renders a candidate for scoring, default HeuristicTone.
	// It is called concurrently with the shared low-res buffer, which it must not modify.
	Tone ToneFunc

	// Resampler produces the scoring buffer, default bilinear KernelResampler.
	Resampler Resampler

	// SearchSaturation adds the saturation axis to the candidate lattice, enabled by default.
	SearchSaturation bool

	// Workers limits parallel candidate scoring, 0 means GOMAXPROCS.
	Workers int

	// OnScores receives all candidate scores of a branch run, candidate 0 being the user's.
	OnScores func(scores []CandidateScore)
}

func (o *Options) defaults() {
	if o.LowResMaxSize <= 0 {
		o.LowResMaxSize = DefaultLowResMaxSize
	}
	if o.Luts == nil {
		o.Luts = NewLutCache()
	}
	if o.Scorer == nil {
		o.Scorer = HeuristicScorer{}
	}
	if o.Tone == nil {
		o.Tone = HeuristicTone
	}
	if o.Resampler == nil {
		o.Resampler = KernelResampler{Interpolation: InterpolationBilinear, Workers: o.Workers}
	}
}

// Predictor runs predictive branches. It holds no per-run state and is safe for concurrent use.
type Predictor struct {
	opt Options
}

// NewPredictor creates a Predictor.
func NewPredictor(opts ...func(o *Options)) *Predictor {
	opt := Options{
		SearchSaturation: true,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	opt.defaults()

	return &Predictor{opt: opt}
}

// Luts returns the LUT cache the predictor resolves ids with.
func (p *Predictor) Luts() *LutCache {
	return p.opt.Luts
}

// ApplyEditsSequence replays edits onto base using the predictor's LUT cache.
func (p *Predictor) ApplyEditsSequence(base *RasterBuffer, edits []Edit) *RasterBuffer {
	return ApplyEditsSequence(base, edits, p.opt.Luts)
}

// Render applies a candidate to img: brightness, contrast, saturation when non-zero
// and the LUT lutID at the candidate's strength when lutID is set.
func (p *Predictor) Render(img *RasterBuffer, c Candidate, lutID string) *RasterBuffer {
	out := Contrast(Brightness(img, c.Brightness), c.Contrast)
	if c.Saturation != 0 {
		out = Saturation(out, c.Saturation)
	}
	if lutID != "" {
		out = p.opt.Luts.Apply(out, lutID, c.LutStrength())
	}
	return out
}

// Score rates an unedited image the way a zero candidate is rated during selection.
func (p *Predictor) Score(img *RasterBuffer) (float64, error) {
	if !img.Valid() {
		return 0, ErrNoBaseImage
	}
	low := Downscale(p.opt.Resampler, img, p.opt.LowResMaxSize)
	toned, curved := p.opt.Tone(low, Candidate{})
	return finite(p.opt.Scorer.Score(toned, curved)), nil
}
