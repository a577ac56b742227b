// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assets implements PreparedAssetStore: the front-loaded,
// content-addressed decode of every Asset a Composition references, so
// the rendering pipeline past this point never touches the filesystem
// (spec.md §4.1).
package assets

import (
	"strings"

	"wavyte.dev/wavyte/internal/werror"
)

// NormalizeRelPath converts a source path to the normalized relative
// form the asset store keys assets by: backslashes become forward
// slashes, and a leading "/", any empty segment, and any ".." segment
// are rejected (spec.md §4.1).
func NormalizeRelPath(path string) (string, error) {
	if path == "" {
		return "", werror.Validationf("assets: path must be non-empty")
	}
	norm := strings.ReplaceAll(path, "\\", "/")
	if strings.HasPrefix(norm, "/") {
		return "", werror.Validationf("assets: path %q must not be absolute", path)
	}
	for _, seg := range strings.Split(norm, "/") {
		switch seg {
		case "":
			return "", werror.Validationf("assets: path %q has an empty segment", path)
		case "..":
			return "", werror.Validationf("assets: path %q must not contain '..'", path)
		}
	}
	return norm, nil
}
