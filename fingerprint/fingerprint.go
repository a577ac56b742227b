// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fingerprint computes a 128-bit digest of an EvaluatedGraph,
// used by the session's static-frame elision cache to recognize two
// frames that evaluated to the same scene (spec.md §4.4, §4.7). The
// digest is two independent FNV-1a64 hashers run over the same byte
// stream, seeded differently so the pair behaves like a 128-bit hash
// without the cost of a real wide hash function.
package fingerprint

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"wavyte.dev/wavyte/eval"
	"wavyte.dev/wavyte/internal/fnvhash"
	"wavyte.dev/wavyte/internal/werror"
)

// FrameFingerprint is a 128-bit digest (two independent 64-bit halves).
type FrameFingerprint struct {
	Hi, Lo uint64
}

// Eval computes the fingerprint of g. The accumulation order is fixed
// and exhaustive over every field the compiler reads: node count, then
// per node clip id, asset, z, the 6 affine coefficients, opacity,
// blend tag, the optional video source time, effects (kind + canonical params), and both transition
// windows (kind + progress + canonical params). Two graphs produce the
// same fingerprint iff every one of those fields matches.
func Eval(g eval.EvaluatedGraph) (FrameFingerprint, error) {
	hi := fnvhash.New(fnvhash.OffsetBasis)
	lo := fnvhash.New(fnvhash.AltSeed)

	writeU64Pair(hi, lo, uint64(len(g.Nodes)))
	for _, n := range g.Nodes {
		if err := writeNodePair(hi, lo, n); err != nil {
			return FrameFingerprint{}, err
		}
	}

	return FrameFingerprint{Hi: hi.Sum(), Lo: lo.Sum()}, nil
}

func writeNodePair(hi, lo *fnvhash.Hash64, n eval.EvaluatedClipNode) error {
	writeStrPair(hi, lo, n.ClipID)
	writeStrPair(hi, lo, n.Asset)
	writeU64Pair(hi, lo, uint64(int64(n.Z)))

	writeF64Pair(hi, lo, float64(n.Affine.XX))
	writeF64Pair(hi, lo, float64(n.Affine.YX))
	writeF64Pair(hi, lo, float64(n.Affine.XY))
	writeF64Pair(hi, lo, float64(n.Affine.YY))
	writeF64Pair(hi, lo, float64(n.Affine.X0))
	writeF64Pair(hi, lo, float64(n.Affine.Y0))

	writeF64Pair(hi, lo, n.Opacity)

	blendTag := byte(n.Blend)
	hi.WriteByte(blendTag)
	lo.WriteByte(blendTag)

	if n.SourceTimeS != nil {
		hi.WriteByte(1)
		lo.WriteByte(1)
		writeF64Pair(hi, lo, *n.SourceTimeS)
	} else {
		hi.WriteByte(0)
		lo.WriteByte(0)
	}

	writeU64Pair(hi, lo, uint64(len(n.Effects)))
	for _, fx := range n.Effects {
		writeStrPair(hi, lo, fx.Kind)
		if err := writeJSONPair(hi, lo, fx.Params); err != nil {
			return werror.Wrap(werror.Evaluation, err)
		}
	}

	if err := writeTransitionPair(hi, lo, n.TransitionIn); err != nil {
		return err
	}
	return writeTransitionPair(hi, lo, n.TransitionOut)
}

func writeTransitionPair(hi, lo *fnvhash.Hash64, tr *eval.ResolvedTransition) error {
	if tr == nil {
		hi.WriteByte(0)
		lo.WriteByte(0)
		return nil
	}
	hi.WriteByte(1)
	lo.WriteByte(1)
	writeStrPair(hi, lo, tr.Kind)
	writeF64Pair(hi, lo, tr.Progress)
	if err := writeJSONPair(hi, lo, tr.Params); err != nil {
		return werror.Wrap(werror.Evaluation, err)
	}
	return nil
}

func writeU64Pair(hi, lo *fnvhash.Hash64, v uint64) {
	hi.WriteUint64(v)
	lo.WriteUint64(v)
}

func writeF64Pair(hi, lo *fnvhash.Hash64, v float64) {
	writeU64Pair(hi, lo, math.Float64bits(v))
}

func writeStrPair(hi, lo *fnvhash.Hash64, s string) {
	hi.WriteString(s)
	lo.WriteString(s)
}

// writeJSONPair canonicalizes raw (an empty string means "no params",
// written as JSON null) and folds it into both hashers: object keys
// sorted, arrays/objects length-prefixed, scalars tagged by type. This
// mirrors write_json_value_pair from the original engine so params
// authored with different key order or whitespace still fingerprint
// identically.
func writeJSONPair(hi, lo *fnvhash.Hash64, raw string) error {
	var v any
	if !trimEmptyJSON(raw) {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return werror.Evaluationf("fingerprint: invalid params JSON: %w", err)
		}
	}
	return writeJSONValuePair(hi, lo, v)
}

func writeJSONValuePair(hi, lo *fnvhash.Hash64, v any) error {
	switch val := v.(type) {
	case nil:
		hi.WriteByte(0)
		lo.WriteByte(0)
	case bool:
		hi.WriteByte(1)
		lo.WriteByte(1)
		var b byte
		if val {
			b = 1
		}
		hi.WriteByte(b)
		lo.WriteByte(b)
	case json.Number:
		hi.WriteByte(2)
		lo.WriteByte(2)
		writeStrPair(hi, lo, val.String())
	case string:
		hi.WriteByte(3)
		lo.WriteByte(3)
		writeStrPair(hi, lo, val)
	case []any:
		hi.WriteByte(4)
		lo.WriteByte(4)
		writeU64Pair(hi, lo, uint64(len(val)))
		for _, item := range val {
			if err := writeJSONValuePair(hi, lo, item); err != nil {
				return err
			}
		}
	case map[string]any:
		hi.WriteByte(5)
		lo.WriteByte(5)
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeU64Pair(hi, lo, uint64(len(keys)))
		for _, k := range keys {
			writeStrPair(hi, lo, k)
			if err := writeJSONValuePair(hi, lo, val[k]); err != nil {
				return err
			}
		}
	default:
		return werror.Evaluationf("fingerprint: unsupported JSON value type %T", v)
	}
	return nil
}

func trimEmptyJSON(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}
