// Package predictedit predicts a better photo edit than the one a user just made.
//
// Given an edit-history timeline and a branch index, it extracts the user's intent
// (brightness, contrast and LUT change), scores a lattice of nearby parameterizations
// on a low-resolution copy with a heuristic aesthetic function, and substitutes the
// best candidate only when it beats the user's own choice by a fixed margin.
// The chosen parameters are then composited onto the full-resolution image, next to
// a replay of what the user would have gotten without prediction.
//
// The tone mapper and scorer are deliberately simple heuristics behind narrow
// contracts ([ToneFunc], [Scorer]) so they can be swapped without touching the
// search and selection logic.
package predictedit
