// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"bytes"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"wavyte.dev/wavyte/color"
	"wavyte.dev/wavyte/internal/werror"
)

// decodeImage decodes raster image bytes (PNG/JPEG/GIF, whichever the
// registered stdlib codecs plus bild's thin imgio.Decode wrapper
// recognize) into a premultiplied RGBA8 buffer.
func decodeImage(raw []byte) (PreparedImage, error) {
	img, err := imgio.Decode(bytes.NewReader(raw))
	if err != nil {
		return PreparedImage{}, werror.Evaluationf("assets: decode image: %v", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, w*h*4)

	nrgba, ok := img.(*image.NRGBA)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a uint8
			if ok {
				i := nrgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				r, g, b, a = nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3]
			} else {
				rr, gg, bb, aa := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				r, g, b, a = uint8(rr>>8), uint8(gg>>8), uint8(bb>>8), uint8(aa>>8)
			}
			p := color.FromStraightRGBA8(r, g, b, a)
			i := (y*w + x) * 4
			out[i], out[i+1], out[i+2], out[i+3] = p.R, p.G, p.B, p.A
		}
	}

	return PreparedImage{Width: w, Height: h, Rgba8Premul: out}, nil
}
