package predictedit

import (
	"errors"
	"fmt"
)

// Input errors of history traversal and branching.
var (
	ErrEmptyHistory = errors.New("predictedit: empty history")
	ErrBranchIndex  = errors.New("predictedit: branch index out of range")
	ErrNoBaseImage  = errors.New("predictedit: no base image")
)

// InitialLabel is the label of the synthetic first history entry.
const InitialLabel = "Initial State"

// EditState is a snapshot of all edit controls.
// Brightness, contrast, saturation and opacity are percentages centered at 100.
type EditState struct {
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Saturation  float64 `json:"saturation"`
	Blur        float64 `json:"blur"`
	Rotation    float64 `json:"rotation"`
	FlipH       bool    `json:"flipH"`
	FlipV       bool    `json:"flipV"`
	Opacity     float64 `json:"opacity"`
	Sharpen     float64 `json:"sharpen"`
	Hue         float64 `json:"hue"`
	SelectedLUT string  `json:"selectedLUT,omitempty"`

	// BaseImage is the full-resolution image this state applies to, if known.
	BaseImage *RasterBuffer `json:"-"`
}

// NeutralState returns the state of an unedited image.
func NeutralState() EditState {
	return EditState{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Opacity:    100,
	}
}

// HistoryEntry is one point of the edit timeline.
type HistoryEntry struct {
	State     EditState `json:"state"`
	Sequence  int64     `json:"sequenceIndex"`
	Label     string    `json:"label"`
	Timestamp uint64    `json:"timestamp"`
	IsCurrent bool      `json:"isCurrent"`

	// Edit is the operation that produced State, when the producer recorded it.
	// Without it, the operation is derived from the previous snapshot.
	Edit *Edit `json:"edit,omitempty"`
}

// History is an ordered timeline, index 0 being the initial state.
// Methods never modify the receiver; mutating ones return a new timeline.
type History []HistoryEntry

// NewHistory starts a timeline from an unedited base image.
func NewHistory(base *RasterBuffer, ts uint64) History {
	st := NeutralState()
	st.BaseImage = base
	return History{{
		State:     st,
		Sequence:  -1,
		Label:     InitialLabel,
		Timestamp: ts,
		IsCurrent: true,
	}}
}

// Valid reports whether i addresses an entry.
func (h History) Valid(i int) bool {
	return i >= 0 && i < len(h)
}

// Current returns the index of the entry marked current, the last entry if none is, or -1.
func (h History) Current() int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].IsCurrent {
			return i
		}
	}
	return len(h) - 1
}

// StateAt returns the state at i.
func (h History) StateAt(i int) (EditState, bool) {
	if !h.Valid(i) {
		return EditState{}, false
	}
	return h[i].State, true
}

// Append adds a state at the end and marks it current.
// A state without BaseImage inherits the one of the previous entry.
func (h History) Append(state EditState, label string, ts uint64) History {
	return h.push(HistoryEntry{State: state, Label: label, Timestamp: ts})
}

// AppendEdit is Append with the producing operation recorded.
func (h History) AppendEdit(state EditState, e Edit, label string, ts uint64) History {
	return h.push(HistoryEntry{State: state, Label: label, Timestamp: ts, Edit: &e})
}

// Branch drops everything after active and appends state, on a copy.
func (h History) Branch(active int, state EditState, label string, ts uint64) (History, error) {
	if len(h) == 0 {
		return nil, ErrEmptyHistory
	}
	if !h.Valid(active) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBranchIndex, active, len(h))
	}
	return h[:active+1:active+1].push(HistoryEntry{State: state, Label: label, Timestamp: ts}), nil
}

func (h History) push(e HistoryEntry) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	for i := range out {
		out[i].IsCurrent = false
	}
	e.Sequence = -1
	if len(out) > 0 {
		last := out[len(out)-1]
		e.Sequence = last.Sequence + 1
		if e.State.BaseImage == nil {
			e.State.BaseImage = last.State.BaseImage
		}
	}
	e.IsCurrent = true
	return append(out, e)
}

// EditsAt returns the operations that produced entry i from entry i-1.
// The initial entry is diffed against NeutralState.
func (h History) EditsAt(i int) []Edit {
	if !h.Valid(i) {
		return nil
	}
	if e := h[i].Edit; e != nil {
		return []Edit{*e}
	}
	prev := NeutralState()
	if i > 0 {
		prev = h[i-1].State
	}
	return DiffStates(prev, h[i].State)
}

// FutureEdits returns the operations recorded after entry i, in order.
func (h History) FutureEdits(i int) []Edit {
	if i < -1 || i >= len(h) {
		return nil
	}
	var edits []Edit
	for j := i + 1; j < len(h); j++ {
		edits = append(edits, h.EditsAt(j)...)
	}
	return edits
}
