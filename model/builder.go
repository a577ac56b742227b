// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "wavyte.dev/wavyte/foundation"

// Builder assembles a Composition incrementally and validates it on
// Build, mirroring the teacher's widget-tree builder idiom adapted to
// a data value instead of a UI tree: callers append tracks and assets,
// then Build returns an immutable, already-validated Composition.
type Builder struct {
	comp Composition
}

// NewBuilder starts a Composition with the given canvas, fps, duration
// and seed; assets and tracks are added with AddAsset/AddTrack.
func NewBuilder(canvas foundation.Canvas, fps foundation.Fps, duration foundation.FrameIndex, seed uint64) *Builder {
	return &Builder{comp: Composition{
		Fps:      fps,
		Canvas:   canvas,
		Duration: duration,
		Seed:     seed,
		Assets:   map[string]Asset{},
	}}
}

// AddAsset registers an asset under key, preserving first-insertion
// order in AssetKeys. Re-adding an existing key overwrites its value
// but keeps its original position.
func (b *Builder) AddAsset(key string, asset Asset) *Builder {
	if _, exists := b.comp.Assets[key]; !exists {
		b.comp.AssetKeys = append(b.comp.AssetKeys, key)
	}
	b.comp.Assets[key] = asset
	return b
}

// AddTrack appends a track.
func (b *Builder) AddTrack(track Track) *Builder {
	b.comp.Tracks = append(b.comp.Tracks, track)
	return b
}

// Build runs Validate and returns the assembled Composition.
func (b *Builder) Build() (Composition, error) {
	if err := b.comp.Validate(); err != nil {
		return Composition{}, err
	}
	return b.comp, nil
}

// Validate checks every invariant from spec.md §3: fps/canvas/duration
// sanity, asset-key references, range bounds, and per-clip/per-asset
// validation, recursively.
func (c *Composition) Validate() error {
	if c.Fps.Num == 0 || c.Fps.Den == 0 {
		return validationf("composition: fps must have num>0 and den>0")
	}
	if c.Canvas.Width == 0 || c.Canvas.Height == 0 {
		return validationf("composition: canvas width/height must be > 0")
	}
	if c.Duration == 0 {
		return validationf("composition: duration must be > 0 frames")
	}

	for key, asset := range c.Assets {
		if err := asset.Validate(); err != nil {
			return validationf("asset %q: %w", key, err)
		}
	}

	seenIDs := map[string]bool{}
	for _, track := range c.Tracks {
		for _, clip := range track.Clips {
			if seenIDs[clip.ID] {
				return validationf("duplicate clip id %q", clip.ID)
			}
			seenIDs[clip.ID] = true
			if _, ok := c.Assets[clip.Asset]; !ok {
				return validationf("clip %q references missing asset key %q", clip.ID, clip.Asset)
			}
			if clip.Range.Start > clip.Range.End {
				return validationf("clip %q has invalid range (start > end)", clip.ID)
			}
			if clip.Range.End > c.Duration {
				return validationf("clip %q range exceeds composition duration", clip.ID)
			}
			if clip.TransitionIn != nil {
				if err := clip.TransitionIn.Validate(); err != nil {
					return validationf("clip %q transition_in: %w", clip.ID, err)
				}
			}
			if clip.TransitionOut != nil {
				if err := clip.TransitionOut.Validate(); err != nil {
					return validationf("clip %q transition_out: %w", clip.ID, err)
				}
			}
			for _, fx := range clip.Effects {
				if trimEmpty(fx.Kind) {
					return validationf("clip %q has an effect with an empty kind", clip.ID)
				}
			}
		}
	}

	return nil
}
