// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-text/typesetting/font"
	"wavyte.dev/wavyte/internal/werror"
)

// FontDB resolves a TextAsset's font_source to font bytes plus a parsed
// face, scanning system font directories and the asset root's fonts/
// and assets/ directories once and caching the result (spec.md §4.1:
// "font database initialized from system fonts plus recursive fonts/
// and assets/ directories"). An empty font_source selects the bundled
// fallback (go-fonts/latin-modern), matching how PathAsset and ImageAsset
// never need network or system lookup: font resolution is the one asset
// kind that does.
type FontDB struct {
	assetsRoot string

	mu      sync.Mutex
	byPath  map[string]fontEntry
	scanned bool
	index   map[string]string // base filename (lowercased, no ext) -> absolute path
}

type fontEntry struct {
	bytes []byte
	face  *font.Font
}

// NewFontDB constructs a FontDB rooted at assetsRoot.
func NewFontDB(assetsRoot string) *FontDB {
	return &FontDB{assetsRoot: assetsRoot, byPath: map[string]fontEntry{}}
}

// Resolve loads font_source (empty selects the bundled fallback),
// returning its raw bytes and parsed face. Results are cached by the
// font_source string as given.
func (db *FontDB) Resolve(fontSource string) ([]byte, *font.Font, string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if fontSource == "" {
		return db.fallback()
	}

	if e, ok := db.byPath[fontSource]; ok {
		return e.bytes, e.face, fontSource, nil
	}

	path, err := db.locate(fontSource)
	if err != nil {
		return nil, nil, "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", werror.Evaluationf("assets: read font %q: %v", path, err)
	}
	face, err := font.ParseTTF(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, "", werror.Evaluationf("assets: parse font %q: %v", path, err)
	}
	db.byPath[fontSource] = fontEntry{bytes: raw, face: face}
	return raw, face, path, nil
}

const fallbackFontPath = "<bundled:latin-modern-roman>"

func (db *FontDB) fallback() ([]byte, *font.Font, string, error) {
	if e, ok := db.byPath[fallbackFontPath]; ok {
		return e.bytes, e.face, fallbackFontPath, nil
	}
	raw := lmroman10regular.TTF
	face, err := font.ParseTTF(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, "", werror.Evaluationf("assets: parse bundled fallback font: %v", err)
	}
	db.byPath[fallbackFontPath] = fontEntry{bytes: raw, face: face}
	return raw, face, fallbackFontPath, nil
}

// locate resolves fontSource either as a path relative to assetsRoot or
// as a family/file name to find within the system font directories and
// the asset root's fonts/ and assets/ subtrees, scanned recursively and
// indexed by base filename on first use.
func (db *FontDB) locate(fontSource string) (string, error) {
	if candidate := filepath.Join(db.assetsRoot, filepath.FromSlash(fontSource)); fileExists(candidate) {
		return candidate, nil
	}

	db.ensureScanned()
	key := strings.ToLower(strings.TrimSuffix(filepath.Base(fontSource), filepath.Ext(fontSource)))
	if path, ok := db.index[key]; ok {
		return path, nil
	}
	return "", werror.Evaluationf("assets: font %q not found in assets_root or system fonts", fontSource)
}

func (db *FontDB) ensureScanned() {
	if db.scanned {
		return
	}
	db.scanned = true
	db.index = map[string]string{}

	dirs := append([]string{}, systemFontDirs()...)
	dirs = append(dirs, filepath.Join(db.assetsRoot, "fonts"), filepath.Join(db.assetsRoot, "assets"))

	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d == nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" && ext != ".ttc" {
				return nil
			}
			key := strings.ToLower(strings.TrimSuffix(d.Name(), ext))
			if _, exists := db.index[key]; !exists {
				db.index[key] = path
			}
			return nil
		})
	}
}

func systemFontDirs() []string {
	return []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		filepath.Join(os.Getenv("HOME"), ".fonts"),
		filepath.Join(os.Getenv("HOME"), ".local/share/fonts"),
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
