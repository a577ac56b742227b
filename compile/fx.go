// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"encoding/json"
	"math"
	"strings"

	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/internal/werror"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

// EffectKind selects which Effect variant a parsed EffectInstance is.
type EffectKind int

const (
	EffectOpacityMul EffectKind = iota
	EffectTransformPost
	EffectBlendOverride
	EffectBlur
	EffectColorMatrix
	EffectMaskApply
	EffectDropShadow
)

// Effect is one parsed, strongly-typed effect, the result of reading an
// EffectInstance's opaque (kind, params) pair.
type Effect struct {
	Kind EffectKind

	OpacityMul float64
	Transform  math32.Matrix2
	Blend      model.BlendMode

	BlurRadiusPx int
	BlurSigma    float64

	ColorMatrix [20]float64 // row-major 4x5

	MaskMode      MaskMode
	MaskInverted  bool
	MaskThreshold float64
	MaskAssetKey  string

	ShadowOffset       math32.Vector2
	ShadowBlurRadiusPx int
	ShadowSigma        float64
	ShadowColor        color.Premul
}

// MaskMode selects how MaskApply derives a per-pixel weight from the
// mask surface.
type MaskMode int

const (
	MaskAlpha MaskMode = iota
	MaskLuma
	MaskStencil
)

// InlineFx is the opacity/transform/blend folded directly into a
// DrawOp, with no extra pass.
type InlineFx struct {
	OpacityMul float64
	Transform  math32.Matrix2
	Blend      model.BlendMode
	HasBlend   bool
}

func defaultInlineFx() InlineFx {
	return InlineFx{OpacityMul: 1, Transform: math32.Identity3()}
}

// PassFx is one offscreen-pass effect: everything in Effect except
// OpacityMul/TransformPost/BlendOverride, which never need a pass.
type PassFx = Effect

// FxPipeline is the result of folding a clip's effect list: the inline
// part applies to the leaf draw op directly, the pass list becomes a
// chain of Offscreen passes.
type FxPipeline struct {
	Inline InlineFx
	Passes []PassFx
}

func defaultFxPipeline() FxPipeline {
	return FxPipeline{Inline: defaultInlineFx()}
}

// IsDefault reports whether the pipeline folds to a no-op (no pass
// effects, identity inline state). Compile still allocates a node
// surface for such a node.
func (p FxPipeline) IsDefault() bool {
	return len(p.Passes) == 0 &&
		p.Inline.OpacityMul == 1 &&
		p.Inline.Transform == math32.Identity3() &&
		!p.Inline.HasBlend
}

// ParseEffect parses one EffectInstance's (kind, params) pair into an
// Effect. Kind matching is case-insensitive and trimmed, with the
// aliases the original engine's fx.rs accepts. Unknown kinds and
// malformed params are validation errors — effect parsing happens at
// compile time, before any pixel work, so failures are caught early.
func ParseEffect(inst model.EffectInstance) (Effect, error) {
	kind := strings.ToLower(strings.TrimSpace(inst.Kind))
	if kind == "" {
		return Effect{}, werror.Validationf("fx: effect kind must be non-empty")
	}
	params, err := decodeParams(inst.Params)
	if err != nil {
		return Effect{}, werror.Validationf("fx: %v", err)
	}

	switch kind {
	case "opacitymul", "opacity_mul", "opacity-mul":
		v, err := getF64(params, "value")
		if err != nil {
			return Effect{}, err
		}
		if v < 0 {
			return Effect{}, werror.Validationf("fx: opacitymul value must be >= 0")
		}
		return Effect{Kind: EffectOpacityMul, OpacityMul: v}, nil

	case "transformpost", "transform_post", "transform-post":
		m, err := parseAffine(params)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: EffectTransformPost, Transform: m}, nil

	case "blendoverride", "blend_override", "blend-override":
		blend, err := parseBlendMode(params)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: EffectBlendOverride, Blend: blend}, nil

	case "blur":
		radius, err := getU32(params, "radius_px")
		if err != nil {
			return Effect{}, err
		}
		sigma := float64(radius) / 2.0
		if raw, ok := params["sigma"]; ok {
			sigma, err = asFiniteF64(raw)
			if err != nil {
				return Effect{}, werror.Validationf("fx: blur sigma: %v", err)
			}
			if sigma <= 0 {
				return Effect{}, werror.Validationf("fx: blur sigma must be > 0")
			}
		}
		return Effect{Kind: EffectBlur, BlurRadiusPx: int(radius), BlurSigma: sigma}, nil

	case "colormatrix", "color_matrix", "color-matrix":
		m, err := getMatrix20(params, "matrix")
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: EffectColorMatrix, ColorMatrix: m}, nil

	case "maskapply", "mask_apply", "mask-apply":
		modeStr, _ := getString(params, "mode")
		var mode MaskMode
		switch strings.ToLower(strings.TrimSpace(modeStr)) {
		case "", "alpha":
			mode = MaskAlpha
		case "luma":
			mode = MaskLuma
		case "stencil":
			mode = MaskStencil
		default:
			return Effect{}, werror.Validationf("fx: unknown mask mode %q", modeStr)
		}
		threshold := 0.5
		if raw, ok := params["threshold"]; ok {
			var err error
			threshold, err = asFiniteF64(raw)
			if err != nil {
				return Effect{}, werror.Validationf("fx: mask threshold: %v", err)
			}
		}
		inverted, _ := params["inverted"].(bool)
		maskKey, err := getString(params, "mask_asset")
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: EffectMaskApply, MaskMode: mode, MaskInverted: inverted, MaskThreshold: threshold, MaskAssetKey: maskKey}, nil

	case "dropshadow", "drop_shadow", "drop-shadow":
		ox, _ := getF64(params, "offset_x")
		oy, _ := getF64(params, "offset_y")
		radius, err := getU32(params, "blur_radius_px")
		if err != nil {
			return Effect{}, err
		}
		sigma := float64(radius) / 2.0
		if raw, ok := params["sigma"]; ok {
			var err error
			sigma, err = asFiniteF64(raw)
			if err != nil {
				return Effect{}, werror.Validationf("fx: drop shadow sigma: %v", err)
			}
		}
		r, _ := getU32(params, "color_r")
		g, _ := getU32(params, "color_g")
		b, _ := getU32(params, "color_b")
		a, _ := getU32(params, "color_a")
		return Effect{
			Kind:               EffectDropShadow,
			ShadowOffset:       math32.Vec2(float32(ox), float32(oy)),
			ShadowBlurRadiusPx: int(radius),
			ShadowSigma:        sigma,
			ShadowColor:        color.FromStraightRGBA8(uint8(r), uint8(g), uint8(b), uint8(a)),
		}, nil

	default:
		return Effect{}, werror.Validationf("fx: unknown effect kind %q", kind)
	}
}

// NormalizeEffects folds a parsed effect list into an FxPipeline:
// OpacityMul multiplies, TransformPost composes (matrix product),
// BlendOverride replaces, everything else (including Blur with
// radius_px==0, which is dropped as a no-op) becomes an ordered pass.
// Multiple pass effects of the same kind chain in declaration order
// (SPEC_FULL.md §6).
func NormalizeEffects(effects []Effect) FxPipeline {
	out := defaultFxPipeline()
	for _, fx := range effects {
		switch fx.Kind {
		case EffectOpacityMul:
			out.Inline.OpacityMul *= fx.OpacityMul
		case EffectTransformPost:
			out.Inline.Transform = out.Inline.Transform.Mul(fx.Transform)
		case EffectBlendOverride:
			out.Inline.Blend = fx.Blend
			out.Inline.HasBlend = true
		case EffectBlur:
			if fx.BlurRadiusPx > 0 {
				out.Passes = append(out.Passes, fx)
			}
		default:
			out.Passes = append(out.Passes, fx)
		}
	}
	if math.IsNaN(out.Inline.OpacityMul) || math.IsInf(out.Inline.OpacityMul, 0) || out.Inline.OpacityMul < 0 {
		out.Inline.OpacityMul = 0
	}
	return out
}

func decodeParams(raw string) (map[string]any, error) {
	if trimEmptyStr(raw) {
		return map[string]any{}, nil
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func getF64(params map[string]any, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, werror.Validationf("fx: missing param %q", key)
	}
	v, err := asFiniteF64(raw)
	if err != nil {
		return 0, werror.Validationf("fx: param %q: %v", key, err)
	}
	return v, nil
}

func getU32(params map[string]any, key string) (uint32, error) {
	v, err := getF64(params, key)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, werror.Validationf("fx: param %q must be >= 0", key)
	}
	return uint32(v), nil
}

func getString(params map[string]any, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", werror.Validationf("fx: param %q must be a string", key)
	}
	return s, nil
}

func getMatrix20(params map[string]any, key string) ([20]float64, error) {
	var out [20]float64
	raw, ok := params[key]
	if !ok {
		// Identity 4x5 color matrix.
		for i := 0; i < 4; i++ {
			out[i*5+i] = 1
		}
		return out, nil
	}
	arr, ok := raw.([]any)
	if !ok || len(arr) != 20 {
		return out, werror.Validationf("fx: param %q must be a 20-element array", key)
	}
	for i, item := range arr {
		v, err := asFiniteF64(item)
		if err != nil {
			return out, werror.Validationf("fx: param %q[%d]: %v", key, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func asFiniteF64(raw any) (float64, error) {
	v, ok := raw.(float64)
	if !ok {
		if n, ok := raw.(json.Number); ok {
			var err error
			v, err = n.Float64()
			if err != nil {
				return 0, err
			}
		} else {
			return 0, werror.Validationf("value is not a number")
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, werror.Validationf("value must be finite")
	}
	return v, nil
}

func parseAffine(params map[string]any) (math32.Matrix2, error) {
	if raw, ok := params["affine"]; ok {
		arr, ok := raw.([]any)
		if !ok || len(arr) != 6 {
			return math32.Matrix2{}, werror.Validationf("fx: affine param must be a 6-element array")
		}
		var v [6]float32
		for i, item := range arr {
			f, err := asFiniteF64(item)
			if err != nil {
				return math32.Matrix2{}, werror.Validationf("fx: affine[%d]: %v", i, err)
			}
			v[i] = float32(f)
		}
		return math32.Matrix2{XX: v[0], YX: v[1], XY: v[2], YY: v[3], X0: v[4], Y0: v[5]}, nil
	}

	m := math32.Identity3()
	if raw, ok := params["scale"]; ok {
		arr, ok := raw.([]any)
		if !ok || len(arr) != 2 {
			return math32.Matrix2{}, werror.Validationf("fx: scale param must be a 2-element array")
		}
		sx, err := asFiniteF64(arr[0])
		if err != nil {
			return math32.Matrix2{}, werror.Validationf("fx: scale[0]: %v", err)
		}
		sy, err := asFiniteF64(arr[1])
		if err != nil {
			return math32.Matrix2{}, werror.Validationf("fx: scale[1]: %v", err)
		}
		m = math32.Scale2D(float32(sx), float32(sy)).Mul(m)
	}
	var rot float64
	if raw, ok := params["rotation_rad"]; ok {
		var err error
		rot, err = asFiniteF64(raw)
		if err != nil {
			return math32.Matrix2{}, werror.Validationf("fx: rotation_rad: %v", err)
		}
	} else if raw, ok := params["rotate_deg"]; ok {
		deg, err := asFiniteF64(raw)
		if err != nil {
			return math32.Matrix2{}, werror.Validationf("fx: rotate_deg: %v", err)
		}
		rot = deg * math.Pi / 180
	}
	if rot != 0 {
		m = math32.Rotate2D(float32(rot)).Mul(m)
	}
	if raw, ok := params["translate"]; ok {
		arr, ok := raw.([]any)
		if !ok || len(arr) != 2 {
			return math32.Matrix2{}, werror.Validationf("fx: translate param must be a 2-element array")
		}
		tx, err := asFiniteF64(arr[0])
		if err != nil {
			return math32.Matrix2{}, werror.Validationf("fx: translate[0]: %v", err)
		}
		ty, err := asFiniteF64(arr[1])
		if err != nil {
			return math32.Matrix2{}, werror.Validationf("fx: translate[1]: %v", err)
		}
		m = math32.Translate2D(float32(tx), float32(ty)).Mul(m)
	}
	return m, nil
}

func parseBlendMode(params map[string]any) (model.BlendMode, error) {
	s, err := getString(params, "mode")
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return model.BlendNormal, nil
	case "multiply":
		return model.BlendMultiply, nil
	case "screen":
		return model.BlendScreen, nil
	case "darken":
		return model.BlendDarken, nil
	case "lighten":
		return model.BlendLighten, nil
	case "overlay":
		return model.BlendOverlay, nil
	case "difference":
		return model.BlendDifference, nil
	default:
		return 0, werror.Validationf("fx: unknown blend mode %q", s)
	}
}

func trimEmptyStr(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}
