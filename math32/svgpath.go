// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParsePathD parses an SVG path "d" attribute into a BezPath. It
// supports the M/L/H/V/C/S/Q/T/Z commands, both absolute and relative
// forms; arcs ("A"/"a") are not supported and produce an error, since
// spec.md's Asset.Path is a first-party geometry format, not a general
// SVG import surface.
func ParsePathD(d string) (BezPath, error) {
	toks := tokenizePathD(d)
	i := 0
	next := func() (float32, error) {
		if i >= len(toks) {
			return 0, fmt.Errorf("path data: unexpected end of tokens")
		}
		v, err := strconv.ParseFloat(toks[i], 32)
		i++
		if err != nil {
			return 0, fmt.Errorf("path data: %w", err)
		}
		return float32(v), nil
	}
	nextPt := func() (Vector2, error) {
		x, err := next()
		if err != nil {
			return Vector2{}, err
		}
		y, err := next()
		if err != nil {
			return Vector2{}, err
		}
		return Vec2(x, y), nil
	}

	var path BezPath
	var cur, start, lastCtrl Vector2
	var lastCmd byte
	haveLastCtrl := false

	for i < len(toks) {
		cmd := toks[i][0]
		if !isPathCmd(cmd) {
			return nil, fmt.Errorf("path data: expected command, got %q", toks[i])
		}
		i++
		rel := unicode.IsLower(rune(cmd))
		upper := byte(unicode.ToUpper(rune(cmd)))
		switch upper {
		case 'M':
			p, err := nextPt()
			if err != nil {
				return nil, err
			}
			if rel {
				p = cur.Add(p)
			}
			path.MoveTo(p)
			cur, start = p, p
		case 'L':
			p, err := nextPt()
			if err != nil {
				return nil, err
			}
			if rel {
				p = cur.Add(p)
			}
			path.LineTo(p)
			cur = p
		case 'H':
			x, err := next()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			p := Vec2(x, cur.Y)
			path.LineTo(p)
			cur = p
		case 'V':
			y, err := next()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			p := Vec2(cur.X, y)
			path.LineTo(p)
			cur = p
		case 'C':
			c1, err := nextPt()
			if err != nil {
				return nil, err
			}
			c2, err := nextPt()
			if err != nil {
				return nil, err
			}
			p, err := nextPt()
			if err != nil {
				return nil, err
			}
			if rel {
				c1, c2, p = cur.Add(c1), cur.Add(c2), cur.Add(p)
			}
			path.CubeTo(c1, c2, p)
			cur, lastCtrl, haveLastCtrl = p, c2, true
		case 'S':
			c2, err := nextPt()
			if err != nil {
				return nil, err
			}
			p, err := nextPt()
			if err != nil {
				return nil, err
			}
			if rel {
				c2, p = cur.Add(c2), cur.Add(p)
			}
			c1 := cur
			if haveLastCtrl && (lastCmd == 'C' || lastCmd == 'S') {
				c1 = cur.MulScalar(2).Sub(lastCtrl)
			}
			path.CubeTo(c1, c2, p)
			cur, lastCtrl, haveLastCtrl = p, c2, true
		case 'Q':
			ctrl, err := nextPt()
			if err != nil {
				return nil, err
			}
			p, err := nextPt()
			if err != nil {
				return nil, err
			}
			if rel {
				ctrl, p = cur.Add(ctrl), cur.Add(p)
			}
			path.QuadTo(ctrl, p)
			cur, lastCtrl, haveLastCtrl = p, ctrl, true
		case 'T':
			p, err := nextPt()
			if err != nil {
				return nil, err
			}
			if rel {
				p = cur.Add(p)
			}
			ctrl := cur
			if haveLastCtrl && (lastCmd == 'Q' || lastCmd == 'T') {
				ctrl = cur.MulScalar(2).Sub(lastCtrl)
			}
			path.QuadTo(ctrl, p)
			cur, lastCtrl, haveLastCtrl = p, ctrl, true
		case 'Z':
			path.Close()
			cur = start
		default:
			return nil, fmt.Errorf("path data: unsupported command %q", string(cmd))
		}
		lastCmd = upper
	}
	return path, nil
}

func isPathCmd(b byte) bool {
	switch unicode.ToUpper(rune(b)) {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'Z':
		return true
	}
	return false
}

// tokenizePathD splits a path data string into command letters and
// numeric tokens, handling the no-whitespace-required SVG number
// grammar (e.g. "1.5-2.3" is two numbers).
func tokenizePathD(d string) []string {
	var toks []string
	n := len(d)
	i := 0
	for i < n {
		c := d[i]
		switch {
		case c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isPathCmd(c):
			toks = append(toks, string(c))
			i++
		default:
			j := i
			if d[j] == '+' || d[j] == '-' {
				j++
			}
			for j < n && (unicode.IsDigit(rune(d[j])) || d[j] == '.') {
				j++
			}
			if j < n && (d[j] == 'e' || d[j] == 'E') {
				j++
				if j < n && (d[j] == '+' || d[j] == '-') {
					j++
				}
				for j < n && unicode.IsDigit(rune(d[j])) {
					j++
				}
			}
			if j == i {
				i++
				continue
			}
			toks = append(toks, d[i:j])
			i = j
		}
	}
	return toks
}

// JoinPathTokens is a small helper that re-joins path tokens into a
// normalized path string; exported for golden-path diagnostics.
func JoinPathTokens(toks []string) string {
	return strings.Join(toks, " ")
}
