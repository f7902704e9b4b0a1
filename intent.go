package predictedit

import (
	"fmt"
)

// IntentVector holds the normalized deltas of the user's last edit.
// Brightness and contrast are in [-1, 1], Lut is 1 when the selected LUT changed.
type IntentVector struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Lut        float64 `json:"lut"`
}

// Intent is everything the selector needs from the history at a branch index.
type Intent struct {
	Vector IntentVector
	// LutID is the LUT in effect at the branch index, empty for none.
	LutID string
	// Image is the stored full-resolution image of the branch entry, may be nil.
	Image *RasterBuffer
	// Future lists the edits recorded after the branch index.
	Future []Edit
}

// ExtractIntent compares entry i with its predecessor (NeutralState for i = 0).
func ExtractIntent(h History, i int) (*Intent, error) {
	if len(h) == 0 {
		return nil, ErrEmptyHistory
	}
	if !h.Valid(i) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBranchIndex, i, len(h))
	}

	final := h[i].State
	start := NeutralState()
	if i > 0 {
		start = h[i-1].State
	}

	v := IntentVector{
		Brightness: percentDelta(final.Brightness, start.Brightness),
		Contrast:   percentDelta(final.Contrast, start.Contrast),
	}
	if final.SelectedLUT != start.SelectedLUT {
		v.Lut = 1
	}

	return &Intent{
		Vector: v,
		LutID:  final.SelectedLUT,
		Image:  final.BaseImage,
		Future: h.FutureEdits(i),
	}, nil
}

func percentDelta(final, start float64) float64 {
	return clamp(finite((final-start)/100), -1, 1)
}
