// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "wavyte.dev/wavyte/internal/werror"

func validationf(format string, args ...any) error {
	return werror.Newf(werror.Validation, format, args...)
}
