// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package region implements set algebra over integer rectangles.
//
// A [Region] describes an area of an output or a surface (damage, clip,
// opaque or visible areas) as a list of non-overlapping rectangles.
// Union, intersection and subtraction are pure value transforms:
//
//	damage := region.FromRect(region.XYWH(0, 0, 800, 480))
//	repaint := view.Intersect(damage).Subtract(clip)
//	if repaint.NotEmpty() {
//	    for _, r := range repaint.Rects() {
//	        // ...
//	    }
//	}
package region
