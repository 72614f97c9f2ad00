// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package region

import (
	"slices"
)

// setOp decides whether a piece of the plane belongs to the result given
// its membership in the two operands.
type setOp func(inA, inB bool) bool

func opUnion(inA, inB bool) bool     { return inA || inB }
func opIntersect(inA, inB bool) bool { return inA && inB }
func opSubtract(inA, inB bool) bool  { return inA && !inB }

// span is a half-open horizontal interval [l, r).
type span struct {
	l, r int
}

// combine sweeps the plane band by band. Band boundaries are every distinct
// top/bottom edge of both operands, so each input rectangle either covers a
// band entirely or not at all.
func combine(a, b []Rect, op setOp) []Rect {
	ys := make([]int, 0, 2*(len(a)+len(b)))
	for _, rc := range a {
		if !rc.Empty() {
			ys = append(ys, rc.Top, rc.Bottom)
		}
	}
	for _, rc := range b {
		if !rc.Empty() {
			ys = append(ys, rc.Top, rc.Bottom)
		}
	}
	if len(ys) == 0 {
		return nil
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	var (
		out       []Rect
		prevSpans []span
		prevStart = -1 // index in out where the previous band begins
		prevBot   int
	)
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		spans := combineSpans(bandSpans(a, y0, y1), bandSpans(b, y0, y1), op)
		if len(spans) == 0 {
			prevSpans = nil
			prevStart = -1
			continue
		}

		// Coalesce with the band directly above when the spans match.
		if prevStart >= 0 && prevBot == y0 && slices.Equal(spans, prevSpans) {
			for j := prevStart; j < len(out); j++ {
				out[j].Bottom = y1
			}
			prevBot = y1
			continue
		}

		prevStart = len(out)
		prevBot = y1
		prevSpans = spans
		for _, s := range spans {
			out = append(out, Rect{Left: s.l, Top: y0, Right: s.r, Bottom: y1})
		}
	}
	return out
}

// bandSpans returns the merged x-intervals of rects that cover [y0, y1).
func bandSpans(rects []Rect, y0, y1 int) []span {
	var spans []span
	for _, rc := range rects {
		if rc.Empty() || rc.Top > y0 || rc.Bottom < y1 {
			continue
		}
		spans = append(spans, span{rc.Left, rc.Right})
	}
	if len(spans) < 2 {
		return spans
	}
	slices.SortFunc(spans, func(p, q span) int { return p.l - q.l })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.l <= last.r {
			last.r = max(last.r, s.r)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// combineSpans applies op to two sorted, merged interval lists.
func combineSpans(a, b []span, op setOp) []span {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	xs := make([]int, 0, 2*(len(a)+len(b)))
	for _, s := range a {
		xs = append(xs, s.l, s.r)
	}
	for _, s := range b {
		xs = append(xs, s.l, s.r)
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)

	var out []span
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		if !op(covers(a, x0, x1), covers(b, x0, x1)) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].r == x0 {
			out[n-1].r = x1
			continue
		}
		out = append(out, span{x0, x1})
	}
	return out
}

func covers(spans []span, x0, x1 int) bool {
	for _, s := range spans {
		if s.l <= x0 && s.r >= x1 {
			return true
		}
		if s.l >= x1 {
			break
		}
	}
	return false
}
