package predictedit

import (
	"fmt"
	"runtime"

	"github.com/corona10/goimagehash"
	"golang.org/x/sync/errgroup"
)

// ImprovementMargin is how much a neighbour must outscore the user's candidate to be adopted.
const ImprovementMargin = 0.1

// ChosenParams are the parameters of the delivered image.
type ChosenParams struct {
	Brightness       float64 `json:"brightness"`
	Contrast         float64 `json:"contrast"`
	Saturation       float64 `json:"saturation"`
	LutStrengthDelta float64 `json:"lutStrengthDelta"`
	LutID            string  `json:"lutId,omitempty"`
}

// CandidateScore is a scored candidate.
type CandidateScore struct {
	Index     int       `json:"index"`
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
}

// BranchResult is the outcome of a predictive branch.
type BranchResult struct {
	ChosenImage  *RasterBuffer `json:"-"`
	ChosenParams ChosenParams  `json:"chosenParams"`
	FutureEdits  []Edit        `json:"futureEdits"`
	// UserFutureImage replays FutureEdits onto the branch-point image without prediction.
	UserFutureImage *RasterBuffer `json:"-"`

	UserScore      float64 `json:"userScore"`
	BestScore      float64 `json:"bestScore"`
	BestIndex      int     `json:"bestIndex"`
	Adopted        bool    `json:"adopted"`
	CandidateCount int     `json:"candidateCount"`

	// Divergence is the dHash Hamming distance between ChosenImage and UserFutureImage, -1 if unknown.
	Divergence int `json:"divergence"`
}

// RunPredictiveBranch predicts an edit for history entry i.
//
// The branch-point image is the entry's stored BaseImage, or fallback when it has none.
// Candidates are scored on a downscaled copy; the chosen one is rendered at full resolution.
// The history is never modified.
func (p *Predictor) RunPredictiveBranch(h History, i int, fallback *RasterBuffer) (*BranchResult, error) {
	intent, err := ExtractIntent(h, i)
	if err != nil {
		return nil, err
	}

	base := intent.Image
	if !base.Valid() {
		base = fallback
	}
	if !base.Valid() {
		return nil, fmt.Errorf("%w at branch index %d", ErrNoBaseImage, i)
	}

	low := Downscale(p.opt.Resampler, base, p.opt.LowResMaxSize)

	user := UserCandidate(intent.Vector)
	candidates := append([]Candidate{user}, GenerateCandidates(intent.Vector, p.opt.SearchSaturation)...)
	scores := p.scoreAll(low, candidates)

	bestIdx, best := 0, scores[0]
	for j := 1; j < len(scores); j++ {
		if scores[j] > best {
			bestIdx, best = j, scores[j]
		}
	}
	userScore := scores[0]

	chosen := user
	adopted := bestIdx != 0 && best >= userScore+ImprovementMargin
	if adopted {
		chosen = candidates[bestIdx]
	}

	Logger().Debug("predictedit: branch decision",
		"index", i,
		"intent", intent.Vector,
		"candidates", len(candidates),
		"userScore", userScore,
		"bestScore", best,
		"bestIndex", bestIdx,
		"adopted", adopted,
	)

	if p.opt.OnScores != nil {
		cs := make([]CandidateScore, len(candidates))
		for j, c := range candidates {
			cs[j] = CandidateScore{Index: j, Candidate: c, Score: scores[j]}
		}
		p.opt.OnScores(cs)
	}

	res := &BranchResult{
		ChosenImage: p.Render(base, chosen, intent.LutID),
		ChosenParams: ChosenParams{
			Brightness:       chosen.Brightness,
			Contrast:         chosen.Contrast,
			Saturation:       chosen.Saturation,
			LutStrengthDelta: chosen.LutStrengthDelta,
			LutID:            intent.LutID,
		},
		FutureEdits:     intent.Future,
		UserFutureImage: p.ApplyEditsSequence(base, intent.Future),
		UserScore:       userScore,
		BestScore:       best,
		BestIndex:       bestIdx,
		Adopted:         adopted,
		CandidateCount:  len(candidates),
	}
	res.Divergence = divergence(res.ChosenImage, res.UserFutureImage)

	return res, nil
}

// scoreAll scores candidates in parallel into an indexed slice.
// It does not use the row-worker semaphore of parallelFor.
func (p *Predictor) scoreAll(low *RasterBuffer, candidates []Candidate) []float64 {
	scores := make([]float64, len(candidates))
	workers := p.opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for j, c := range candidates {
		j, c := j, c
		g.Go(func() error {
			toned, curved := p.opt.Tone(low, c)
			scores[j] = finite(p.opt.Scorer.Score(toned, curved))
			return nil
		})
	}
	_ = g.Wait()

	return scores
}

func divergence(a, b *RasterBuffer) int {
	if !a.Valid() || !b.Valid() {
		return -1
	}
	ha, err := goimagehash.DifferenceHash(a.Image())
	if err != nil {
		return -1
	}
	hb, err := goimagehash.DifferenceHash(b.Image())
	if err != nil {
		return -1
	}
	d, err := ha.Distance(hb)
	if err != nil {
		return -1
	}
	return d
}
