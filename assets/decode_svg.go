// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"encoding/xml"
	"strconv"
	"strings"

	"wavyte.dev/wavyte/internal/werror"
)

// decodeSvg extracts an SVG document's intrinsic size from its root
// <svg> element's width/height (falling back to viewBox) and keeps the
// raw bytes for on-demand rasterization later (see PreparedSvg).
func decodeSvg(raw []byte) (PreparedSvg, error) {
	var root struct {
		XMLName xml.Name `xml:"svg"`
		Width   string   `xml:"width,attr"`
		Height  string   `xml:"height,attr"`
		ViewBox string   `xml:"viewBox,attr"`
	}
	if err := xml.Unmarshal(raw, &root); err != nil {
		return PreparedSvg{}, werror.Evaluationf("assets: decode svg: %v", err)
	}

	w, wErr := parseSvgLength(root.Width)
	h, hErr := parseSvgLength(root.Height)
	if wErr != nil || hErr != nil {
		if vw, vh, ok := parseViewBox(root.ViewBox); ok {
			w, h = vw, vh
		} else {
			return PreparedSvg{}, werror.Evaluationf("assets: svg has no usable width/height/viewBox")
		}
	}
	if w <= 0 || h <= 0 {
		return PreparedSvg{}, werror.Evaluationf("assets: svg intrinsic size must be positive")
	}

	return PreparedSvg{Width: w, Height: h, Bytes: raw}, nil
}

func parseSvgLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, unit := range []string{"px", "pt", "mm", "cm", "in"} {
		s = strings.TrimSuffix(s, unit)
	}
	return strconv.ParseFloat(s, 64)
}

func parseViewBox(s string) (w, h float64, ok bool) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(fields[2], 64)
	h, errH := strconv.ParseFloat(fields[3], 64)
	return w, h, errW == nil && errH == nil
}
