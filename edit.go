package predictedit

import (
	"math"
)

// EditKind names a discrete edit operation.
type EditKind string

// Edit kinds.
const (
	EditBrightness  EditKind = "brightness"
	EditContrast    EditKind = "contrast"
	EditSaturation  EditKind = "saturation"
	EditHue         EditKind = "hue"
	EditTemperature EditKind = "temperature"
	EditOpacity     EditKind = "opacity"
	EditRotate      EditKind = "rotate"
	EditFlipH       EditKind = "flipH"
	EditFlipV       EditKind = "flipV"
	EditLut         EditKind = "lut"
)

// DefaultReplayLutStrength is used for LUT edits that carry no strength.
const DefaultReplayLutStrength = 0.5

// Edit is a relative operation applied on top of the previous image.
//
// Value is a signed delta for brightness, contrast and saturation (1 = 100%),
// degrees for hue and rotate, a multiplicative factor for opacity and
// a shift for temperature. Flips ignore Value.
type Edit struct {
	Kind     EditKind `json:"kind"`
	Value    float64  `json:"value,omitempty"`
	LutID    string   `json:"lutId,omitempty"`
	Strength float64  `json:"strength,omitempty"`
}

// DiffStates derives the edits that turn prev into next.
//
// Blur and sharpen have no raster counterpart and are skipped, so is the removal
// of a LUT since it cannot be undone on an already graded image. An opacity
// increase is emitted but replays as a no-op, alpha never grows.
func DiffStates(prev, next EditState) []Edit {
	var edits []Edit

	if d := finite(next.Brightness - prev.Brightness); d != 0 {
		edits = append(edits, Edit{Kind: EditBrightness, Value: d / 100})
	}
	if d := finite(next.Contrast - prev.Contrast); d != 0 {
		edits = append(edits, Edit{Kind: EditContrast, Value: d / 100})
	}
	if d := finite(next.Saturation - prev.Saturation); d != 0 {
		edits = append(edits, Edit{Kind: EditSaturation, Value: d / 100})
	}
	if d := finite(next.Hue - prev.Hue); d != 0 {
		edits = append(edits, Edit{Kind: EditHue, Value: d})
	}
	if d := finite(next.Rotation - prev.Rotation); d != 0 {
		edits = append(edits, Edit{Kind: EditRotate, Value: d})
	}
	if next.FlipH != prev.FlipH {
		edits = append(edits, Edit{Kind: EditFlipH})
	}
	if next.FlipV != prev.FlipV {
		edits = append(edits, Edit{Kind: EditFlipV})
	}
	if next.SelectedLUT != prev.SelectedLUT {
		if next.SelectedLUT != "" {
			edits = append(edits, Edit{Kind: EditLut, LutID: next.SelectedLUT, Strength: DefaultReplayLutStrength})
		} else {
			Logger().Debug("predictedit: LUT removal is not replayed", "lut", prev.SelectedLUT)
		}
	}
	if next.Opacity != prev.Opacity && prev.Opacity > 0 {
		if f := finite(next.Opacity / prev.Opacity); f != 1 {
			if f > 1 {
				Logger().Debug("predictedit: opacity increase is not replayed",
					"from", prev.Opacity, "to", next.Opacity)
			}
			edits = append(edits, Edit{Kind: EditOpacity, Value: f})
		}
	}
	if next.Blur != prev.Blur || next.Sharpen != prev.Sharpen {
		Logger().Debug("predictedit: blur and sharpen are not replayed",
			"blur", next.Blur, "sharpen", next.Sharpen)
	}

	return edits
}

// ApplyEditsSequence replays edits onto base in order and returns a new buffer.
// LUT edits are resolved through luts; unknown LUTs are passed through.
// Unknown kinds are ignored.
func ApplyEditsSequence(base *RasterBuffer, edits []Edit, luts *LutCache) *RasterBuffer {
	if base == nil {
		return nil
	}
	cur := base.Clone()
	for _, e := range edits {
		cur = applyEdit(cur, e, luts)
	}
	return cur
}

func applyEdit(buf *RasterBuffer, e Edit, luts *LutCache) *RasterBuffer {
	switch e.Kind {
	case EditBrightness:
		return Brightness(buf, e.Value)
	case EditContrast:
		return Contrast(buf, e.Value)
	case EditSaturation:
		return Saturation(buf, e.Value)
	case EditHue:
		return HueShift(buf, e.Value)
	case EditTemperature:
		return Temperature(buf, e.Value)
	case EditOpacity:
		return Opacity(buf, e.Value)
	case EditRotate:
		return rotateDegrees(buf, e.Value)
	case EditFlipH:
		return FlipHorizontal(buf)
	case EditFlipV:
		return FlipVertical(buf)
	case EditLut:
		strength := e.Strength
		if strength == 0 {
			strength = DefaultReplayLutStrength
		}
		return luts.Apply(buf, e.LutID, strength)
	default:
		Logger().Debug("predictedit: unknown edit skipped", "kind", e.Kind)
		return buf
	}
}

// rotateDegrees handles quarter turns, other angles are left as is.
func rotateDegrees(buf *RasterBuffer, degrees float64) *RasterBuffer {
	q := math.Round(degrees / 90)
	if math.Abs(degrees-q*90) > 1e-6 {
		Logger().Debug("predictedit: non-quarter rotation is not replayed", "degrees", degrees)
		return buf
	}
	switch ((int(q) % 4) + 4) % 4 {
	case 1:
		return Rotate90(buf)
	case 2:
		return Rotate180(buf)
	case 3:
		return Rotate270(buf)
	default:
		return buf
	}
}
