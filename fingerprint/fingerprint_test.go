// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wavyte.dev/wavyte/anim"
	wavyteEval "wavyte.dev/wavyte/eval"
	"wavyte.dev/wavyte/foundation"
	"wavyte.dev/wavyte/math32"
	"wavyte.dev/wavyte/model"
)

func compWithOpacity(opacity float64) model.Composition {
	b := model.NewBuilder(foundation.Canvas{Width: 640, Height: 360}, foundation.Fps{Num: 30, Den: 1}, 10, 1)
	b.AddAsset("p0", model.PathAsset{SvgPathD: "M0 0L1 1"})
	b.AddTrack(model.Track{Name: "main", Clips: []model.Clip{{
		ID:    "c0",
		Asset: "p0",
		Range: foundation.FrameRange{Start: 0, End: 10},
		Props: model.ClipProps{
			Transform: anim.Constant(math32.IdentityTransform2D()),
			Opacity:   anim.Constant(anim.Scalar(opacity)),
		},
		Effects: []model.EffectInstance{{Kind: "opacitymul", Params: `{"value":1}`}},
	}}})
	comp, err := b.Build()
	if err != nil {
		panic(err)
	}
	return comp
}

func TestFingerprintIsDeterministicForSameEval(t *testing.T) {
	comp := compWithOpacity(0.5)
	e := wavyteEval.New(comp)
	g1, err := e.EvalFrame(0)
	require.NoError(t, err)
	g2, err := e.EvalFrame(0)
	require.NoError(t, err)

	f1, err := Eval(g1)
	require.NoError(t, err)
	f2, err := Eval(g2)
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
}

func TestFingerprintChangesWhenSceneChanges(t *testing.T) {
	e1 := wavyteEval.New(compWithOpacity(0.5))
	e2 := wavyteEval.New(compWithOpacity(0.9))

	g1, err := e1.EvalFrame(0)
	require.NoError(t, err)
	g2, err := e2.EvalFrame(0)
	require.NoError(t, err)

	f1, err := Eval(g1)
	require.NoError(t, err)
	f2, err := Eval(g2)
	require.NoError(t, err)
	assert.NotEqual(t, f1, f2)
}

func TestFingerprintIgnoresParamKeyOrder(t *testing.T) {
	g := wavyteEval.EvaluatedGraph{Frame: 0, Nodes: []wavyteEval.EvaluatedClipNode{{
		ClipID: "c0", Asset: "a0",
		Effects: []wavyteEval.ResolvedEffect{{Kind: "colormatrix", Params: `{"a":1,"b":2}`}},
	}}}
	gReordered := wavyteEval.EvaluatedGraph{Frame: 0, Nodes: []wavyteEval.EvaluatedClipNode{{
		ClipID: "c0", Asset: "a0",
		Effects: []wavyteEval.ResolvedEffect{{Kind: "colormatrix", Params: `{"b":2,"a":1}`}},
	}}}

	f1, err := Eval(g)
	require.NoError(t, err)
	f2, err := Eval(gReordered)
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
}

func TestFingerprintDistinguishesMissingTransition(t *testing.T) {
	base := wavyteEval.EvaluatedGraph{Frame: 0, Nodes: []wavyteEval.EvaluatedClipNode{{ClipID: "c0", Asset: "a0"}}}
	withTr := wavyteEval.EvaluatedGraph{Frame: 0, Nodes: []wavyteEval.EvaluatedClipNode{{
		ClipID: "c0", Asset: "a0",
		TransitionIn: &wavyteEval.ResolvedTransition{Kind: "crossfade", Progress: 0},
	}}}

	f1, err := Eval(base)
	require.NoError(t, err)
	f2, err := Eval(withTr)
	require.NoError(t, err)
	assert.NotEqual(t, f1, f2)
}
