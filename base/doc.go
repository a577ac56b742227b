// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package base contains a collection of low-level infrastructure
// packages shared across the wavyte render pipeline.
package base
