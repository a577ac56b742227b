// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"sort"

	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/internal/werror"
)

// InterpMode selects how Keyframes blends between two keys.
type InterpMode int

const (
	// Hold steps to the earlier key's value (no interpolation).
	Hold InterpMode = iota
	// LinearInterp blends toward the next key's value using the
	// earlier key's Ease.
	LinearInterp
)

// Keyframe is one (frame, value, ease-toward-next) sample point.
type Keyframe[T Interpolator[T]] struct {
	Frame foundation.FrameIndex
	Value T
	Ease  Ease
}

// Keyframes is a sorted-by-frame list of keyframes, sampled against
// ctx.ClipLocal. Default, if set and Keys is empty, is returned as-is.
type Keyframes[T Interpolator[T]] struct {
	Keys    []Keyframe[T]
	Mode    InterpMode
	Default *T
}

// Validate checks that there is at least one key or a default, and
// that keys are sorted by frame.
func (k *Keyframes[T]) Validate() error {
	if len(k.Keys) == 0 && k.Default == nil {
		return werror.Validationf("keyframes: must have at least one key or a default value")
	}
	for i := 1; i < len(k.Keys); i++ {
		if k.Keys[i-1].Frame > k.Keys[i].Frame {
			return werror.Validationf("keyframes: keys must be sorted by frame")
		}
	}
	return nil
}

// Sample implements Anim[T].
func (k *Keyframes[T]) Sample(ctx SampleCtx) (T, error) {
	var zero T
	if len(k.Keys) == 0 {
		if k.Default != nil {
			return *k.Default, nil
		}
		return zero, werror.Validationf("keyframes: no keys and no default")
	}

	f := ctx.ClipLocal
	idx := sort.Search(len(k.Keys), func(i int) bool { return k.Keys[i].Frame > f })

	if idx == 0 {
		return k.Keys[0].Value, nil
	}
	if idx >= len(k.Keys) {
		return k.Keys[len(k.Keys)-1].Value, nil
	}

	a := k.Keys[idx-1]
	b := k.Keys[idx]
	denom := int64(b.Frame) - int64(a.Frame)
	if denom <= 0 {
		return a.Value, nil
	}

	t := float64(int64(f)-int64(a.Frame)) / float64(denom)
	te := a.Ease.Apply(t)
	switch k.Mode {
	case LinearInterp:
		return a.Value.Lerp(b.Value, te), nil
	default: // Hold
		return a.Value, nil
	}
}
