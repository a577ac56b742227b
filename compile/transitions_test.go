// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeDirParsesAliases(t *testing.T) {
	cases := map[string]WipeDir{
		"ltr":           LeftToRight,
		"left_to_right": LeftToRight,
		"rtl":           RightToLeft,
		"right_to_left": RightToLeft,
		"ttb":           TopToBottom,
		"top_to_bottom": TopToBottom,
		"btt":           BottomToTop,
		"bottom_to_top": BottomToTop,
	}
	for alias, want := range cases {
		tr, err := ParseTransition("wipe", `{"dir":"`+alias+`"}`)
		require.NoError(t, err, alias)
		assert.Equal(t, want, tr.Dir, alias)
	}
}

func TestWipeSoftEdgeIsClamped(t *testing.T) {
	tr, err := ParseTransition("wipe", `{"soft_edge":5}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tr.SoftEdge)

	tr, err = ParseTransition("wipe", `{"soft_edge":-5}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr.SoftEdge)
}

func TestParseTransitionRejectsEmptyKind(t *testing.T) {
	_, err := ParseTransition("  ", "")
	assert.Error(t, err)
}

func TestParseTransitionRejectsUnknownKind(t *testing.T) {
	_, err := ParseTransition("not-a-real-transition", "")
	assert.Error(t, err)
}

func TestTransitionsMatchRequiresSameWipeDirection(t *testing.T) {
	a, err := ParseTransition("wipe", `{"dir":"ltr"}`)
	require.NoError(t, err)
	b, err := ParseTransition("wipe", `{"dir":"rtl"}`)
	require.NoError(t, err)
	assert.False(t, transitionsMatch(a, b))

	c, err := ParseTransition("wipe", `{"dir":"ltr"}`)
	require.NoError(t, err)
	assert.True(t, transitionsMatch(a, c))
}

func TestTransitionsMatchCrossfadeIgnoresParams(t *testing.T) {
	a, err := ParseTransition("crossfade", "")
	require.NoError(t, err)
	b, err := ParseTransition("crossfade", "")
	require.NoError(t, err)
	assert.True(t, transitionsMatch(a, b))
}
