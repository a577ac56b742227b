// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atomicx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMax(t *testing.T) {
	a := int32(10)
	MaxInt32(&a, 5)
	assert.Equal(t, a, int32(10))
	MaxInt32(&a, 10)
	assert.Equal(t, a, int32(10))
	MaxInt32(&a, 11)
	assert.Equal(t, a, int32(11))
}
