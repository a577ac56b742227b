// Copyright (c) 2026, The Wavyte Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"sort"

	"wavyte.dev/wavyte/internal/fnvhash"
)

// ID content-addresses one PreparedAsset: two assets with the same
// kind, normalized path, and canonical params always get the same ID,
// letting the render executor cache by ID across frames without
// re-deriving it.
type ID uint64

// Key is the (kind, path, params) tuple an ID is derived from. Params
// are sorted by key at construction so callers never need to think
// about insertion order (spec.md §4.1: "sorted_param_list").
type Key struct {
	NormPath string
	Params   []KV
}

// KV is one canonical key/value parameter pair.
type KV struct {
	K, V string
}

// NewKey builds a Key, sorting params by key.
func NewKey(normPath string, params []KV) Key {
	sorted := append([]KV(nil), params...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].K < sorted[j].K })
	return Key{NormPath: normPath, Params: sorted}
}

// hashID derives an ID from a kind tag byte and a Key, folding
// (kind, path, NUL, param pairs each NUL-terminated) through one
// FNV-1a64 hasher, matching the original asset store's
// hash_id_for_key exactly.
func hashID(kindTag byte, key Key) ID {
	h := fnvhash.New(fnvhash.OffsetBasis)
	h.WriteByte(kindTag)
	h.WriteBytes([]byte(key.NormPath))
	h.WriteByte(0)
	for _, kv := range key.Params {
		h.WriteBytes([]byte(kv.K))
		h.WriteByte(0)
		h.WriteBytes([]byte(kv.V))
		h.WriteByte(0)
	}
	return ID(h.Sum())
}
