// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"encoding/json"
	"strings"

	"wavyte.dev/wavyte/internal/werror"
)

// WipeDir selects the axis and direction a Wipe or Slide transition
// travels along.
type WipeDir int

const (
	LeftToRight WipeDir = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

// IrisShape selects the distance metric an Iris transition's reveal
// mask uses.
type IrisShape int

const (
	IrisCircle IrisShape = iota // Euclidean distance
	IrisRect                    // Chebyshev distance
	IrisDiamond                 // Manhattan distance
)

// TransitionKindTag selects which ParsedTransition variant a parsed
// TransitionSpec is.
type TransitionKindTag int

const (
	TransitionCrossfade TransitionKindTag = iota
	TransitionWipe
	TransitionSlide
	TransitionZoom
	TransitionIris
)

// ParsedTransition is a TransitionSpec's (kind, params) pair parsed
// into strongly-typed fields, grounded on the original engine's
// transitions.rs, extended with Slide/Zoom/Iris per spec.md §4.5 (that
// file only covers Crossfade/Wipe).
type ParsedTransition struct {
	Kind TransitionKindTag

	Dir      WipeDir
	SoftEdge float64

	Push bool

	FromScale float64
	Origin    [2]float64

	IrisShape IrisShape
}

// ParseTransition parses a resolved transition's (kind, params) pair.
// Kind matching is case-insensitive and trimmed; unknown kinds are
// validation errors.
func ParseTransition(kind, paramsJSON string) (ParsedTransition, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	if k == "" {
		return ParsedTransition{}, werror.Validationf("transitions: kind must be non-empty")
	}
	params, err := decodeTransitionParams(paramsJSON)
	if err != nil {
		return ParsedTransition{}, werror.Validationf("transitions: %v", err)
	}

	switch k {
	case "crossfade":
		return ParsedTransition{Kind: TransitionCrossfade}, nil

	case "wipe":
		dir, soft, err := parseDirAndSoftEdge(params)
		if err != nil {
			return ParsedTransition{}, err
		}
		return ParsedTransition{Kind: TransitionWipe, Dir: dir, SoftEdge: soft}, nil

	case "slide":
		dir, soft, err := parseDirAndSoftEdge(params)
		if err != nil {
			return ParsedTransition{}, err
		}
		push, _ := params["push"].(bool)
		return ParsedTransition{Kind: TransitionSlide, Dir: dir, SoftEdge: soft, Push: push}, nil

	case "zoom":
		fromScale := 0.5
		if raw, ok := params["from_scale"]; ok {
			v, err := asFiniteF64(raw)
			if err != nil {
				return ParsedTransition{}, werror.Validationf("transitions: from_scale: %v", err)
			}
			fromScale = v
		}
		origin, err := parseOrigin(params)
		if err != nil {
			return ParsedTransition{}, err
		}
		return ParsedTransition{Kind: TransitionZoom, FromScale: fromScale, Origin: origin}, nil

	case "iris":
		shapeStr, _ := getString(params, "shape")
		var shape IrisShape
		switch strings.ToLower(strings.TrimSpace(shapeStr)) {
		case "", "circle":
			shape = IrisCircle
		case "rect":
			shape = IrisRect
		case "diamond":
			shape = IrisDiamond
		default:
			return ParsedTransition{}, werror.Validationf("transitions: unknown iris shape %q", shapeStr)
		}
		origin, err := parseOrigin(params)
		if err != nil {
			return ParsedTransition{}, err
		}
		soft := 0.0
		if raw, ok := params["soft_edge"]; ok {
			v, err := asFiniteF64(raw)
			if err != nil {
				return ParsedTransition{}, werror.Validationf("transitions: soft_edge: %v", err)
			}
			soft = clamp01(v)
		}
		return ParsedTransition{Kind: TransitionIris, IrisShape: shape, Origin: origin, SoftEdge: soft}, nil

	default:
		return ParsedTransition{}, werror.Validationf("transitions: unknown kind %q", k)
	}
}

func parseDirAndSoftEdge(params map[string]any) (WipeDir, float64, error) {
	dirStr, _ := getString(params, "dir")
	var dir WipeDir
	switch strings.ToLower(strings.TrimSpace(dirStr)) {
	case "", "left_to_right", "lefttoright", "ltr":
		dir = LeftToRight
	case "right_to_left", "righttoleft", "rtl":
		dir = RightToLeft
	case "top_to_bottom", "toptobottom", "ttb":
		dir = TopToBottom
	case "bottom_to_top", "bottomtotop", "btt":
		dir = BottomToTop
	default:
		return 0, 0, werror.Validationf("transitions: unknown dir %q", dirStr)
	}
	soft := 0.0
	if raw, ok := params["soft_edge"]; ok {
		v, err := asFiniteF64(raw)
		if err != nil {
			return 0, 0, werror.Validationf("transitions: soft_edge: %v", err)
		}
		soft = clamp01(v)
	}
	return dir, soft, nil
}

func parseOrigin(params map[string]any) ([2]float64, error) {
	origin := [2]float64{0.5, 0.5}
	raw, ok := params["origin"]
	if !ok {
		return origin, nil
	}
	arr, ok := raw.([]any)
	if !ok || len(arr) != 2 {
		return origin, werror.Validationf("transitions: origin param must be a 2-element array")
	}
	x, err := asFiniteF64(arr[0])
	if err != nil {
		return origin, werror.Validationf("transitions: origin[0]: %v", err)
	}
	y, err := asFiniteF64(arr[1])
	if err != nil {
		return origin, werror.Validationf("transitions: origin[1]: %v", err)
	}
	return [2]float64{x, y}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func decodeTransitionParams(raw string) (map[string]any, error) {
	if trimEmptyStr(raw) {
		return map[string]any{}, nil
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// transitionsMatch reports whether two parsed transitions can pair in
// the composite step: same kind tag, and for Wipe, identical direction
// and soft_edge within 1e-6 (spec.md §4.3).
func transitionsMatch(a, b ParsedTransition) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == TransitionWipe {
		if a.Dir != b.Dir {
			return false
		}
		if abs(a.SoftEdge-b.SoftEdge) > 1e-6 {
			return false
		}
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
