package g2d

import (
	"github.com/gogpu/g2d/region"
)

// FrameStage is a step of the repaint cycle.
type FrameStage int

// Frame stages, in the order a repaint enters them.
const (
	StageIdle FrameStage = iota
	StageEvaluateMode
	StageAccumulateDamage
	StageCompositeViews
	StageFinishHardwareOps
	StagePublishDamage
	StageCopyFlip
	StageSwapBufferIndex
)

var stageNames = [...]string{
	StageIdle:              "idle",
	StageEvaluateMode:      "evaluate-mode",
	StageAccumulateDamage:  "accumulate-damage",
	StageCompositeViews:    "composite-views",
	StageFinishHardwareOps: "finish-hardware-ops",
	StagePublishDamage:     "publish-damage",
	StageCopyFlip:          "copy-flip",
	StageSwapBufferIndex:   "swap-buffer-index",
}

func (s FrameStage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Stage returns the stage the output is in. Frame observers see
// StagePublishDamage.
func (o *Output) Stage() FrameStage {
	return o.stage
}

func (o *Output) enter(s FrameStage) {
	o.stage = s
	Logger().Debug("g2d: frame stage", "stage", s.String(), "generation", o.currentBuffer)
}

// RepaintOutput composites one frame of views, given back to front, onto
// the output.
//
// damage is the new damage of this frame in global coordinates. It is
// extended in place with the damage still pending for the buffer
// generation being drawn, and the result is what gets repainted.
//
// Blit failures are logged and do not stop the frame. An error is only
// returned for a destroyed renderer or output.
func (r *Renderer) RepaintOutput(o *Output, views []*View, damage *region.Region) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if o.destroyed {
		return ErrOutputDestroyed
	}

	o.enter(StageEvaluateMode)
	o.useOutput(views)

	o.enter(StageAccumulateDamage)
	for i := range o.bufferDamage {
		o.bufferDamage[i] = o.bufferDamage[i].Union(*damage)
	}
	*damage = damage.Union(o.bufferDamage[o.currentBuffer])

	o.enter(StageCompositeViews)
	r.repaintViews(o, views, *damage)

	o.enter(StageFinishHardwareOps)
	r.finish()

	o.enter(StagePublishDamage)
	o.previousDamage = damage.Clone()
	o.frameSignal.Emit(o)

	if !r.config.DRM {
		o.enter(StageCopyFlip)
		r.copyToFramebuffer(o)
	}

	o.enter(StageSwapBufferIndex)
	o.currentBuffer ^= 1
	o.enter(StageIdle)
	return nil
}

// useOutput decides whether a single-buffer output composites straight
// into its hardware buffer: when exactly one view is visible, or when more
// than one visible view covers the whole output.
func (o *Output) useOutput(views []*View) {
	if o.bufferCount != 1 {
		return
	}
	visible, fullscreen := 0, 0
	for _, v := range views {
		if v.Plane != PlanePrimary || !v.Visible() {
			continue
		}
		visible++
		if v.Surface.Width == o.width && v.Surface.Height == o.height {
			bb := v.BoundingBox.Rects()
			if len(bb) == 1 && bb[0].Left == 0 && bb[0].Top == 0 {
				fullscreen++
			}
		}
	}
	o.directBlit = visible == 1 || fullscreen > 1
	Logger().Debug("g2d: output mode", "visible", visible, "fullscreen", fullscreen, "direct", o.directBlit)
}
