// Package lightbox implements the image viewer's state: open/closed, the
// zoom scale, and the pan offset, clamped so a zoomed image cannot be
// dragged further than half its overflow past the viewport on either axis.
package lightbox

import (
	"math"
	"strconv"
)

const (
	// ZoomFill is the fraction of the viewport width a zoomed image spans.
	ZoomFill = 0.9
	// PanFactor scales wheel deltas into pixel offsets.
	PanFactor = 0.5
)

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Target identifies what a click on the open lightbox landed on.
type Target int

const (
	// TargetBackdrop is the dimmed area around the image.
	TargetBackdrop Target = iota
	// TargetImage is the displayed image itself.
	TargetImage
	// TargetCaption is the caption text or any other child of the box.
	TargetCaption
)

// Viewer is the lightbox state machine. Create one with New.
type Viewer struct {
	open    bool
	src     string
	caption string
	image   Size // displayed image size at scale 1

	scale   float64
	offsetX float64
	offsetY float64
}

// New returns a closed viewer.
func New() *Viewer {
	return &Viewer{scale: 1}
}

// Open shows src with caption and resets scale and offset.
func (v *Viewer) Open(src, caption string, image Size) {
	v.open = true
	v.src = src
	v.caption = caption
	v.image = image
	v.reset()
}

// Measure records the displayed image size at scale 1 once layout knows it
// and re-clamps the offset against it.
func (v *Viewer) Measure(image Size, viewport Size) {
	if !v.open {
		return
	}
	v.image = image
	v.clamp(viewport)
}

// Close hides the viewer.
func (v *Viewer) Close() {
	v.open = false
}

// Click handles a click inside the open lightbox. Clicking the backdrop
// closes it; clicks on the image are zoom toggles handled by ToggleZoom and
// never reach here. It reports whether the viewer closed.
func (v *Viewer) Click(target Target) bool {
	if !v.open || target != TargetBackdrop {
		return false
	}
	v.Close()
	return true
}

// ToggleZoom switches between natural size and a zoom that fills ZoomFill of
// the viewport width, never below natural size. Offsets reset either way.
func (v *Viewer) ToggleZoom(viewport Size) {
	if !v.open {
		return
	}
	if v.scale == 1 {
		v.scale = ZoomScale(v.image.Width, viewport.Width)
	} else {
		v.scale = 1
	}
	v.offsetX, v.offsetY = 0, 0
	v.clamp(viewport)
}

// Pan moves a zoomed image by a wheel delta. At natural scale it does
// nothing.
func (v *Viewer) Pan(deltaX, deltaY float64, viewport Size) {
	if !v.open || v.scale == 1 {
		return
	}
	v.offsetX -= deltaX * PanFactor
	v.offsetY -= deltaY * PanFactor
	v.clamp(viewport)
}

// Resize re-clamps the offset after the viewport changes.
func (v *Viewer) Resize(viewport Size) {
	if v.open {
		v.clamp(viewport)
	}
}

// IsOpen reports whether the viewer is visible.
func (v *Viewer) IsOpen() bool { return v.open }

// Src is the image shown in the viewer.
func (v *Viewer) Src() string { return v.src }

// Caption is the caption text copied from the source image.
func (v *Viewer) Caption() string { return v.caption }

// Scale is the current zoom factor, 1 at natural size.
func (v *Viewer) Scale() float64 { return v.scale }

// Zoomed mirrors the "zoomed" class on the lightbox image.
func (v *Viewer) Zoomed() bool { return v.scale != 1 }

// Offset is the pan translation in CSS pixels, already clamped.
func (v *Viewer) Offset() (x, y float64) { return v.offsetX, v.offsetY }

// Transform is the CSS transform for the current state.
func (v *Viewer) Transform() string {
	return "translate(" + px(v.offsetX) + ", " + px(v.offsetY) + ") scale(" + num(v.scale) + ")"
}

func (v *Viewer) reset() {
	v.scale = 1
	v.offsetX, v.offsetY = 0, 0
}

func (v *Viewer) clamp(viewport Size) {
	v.offsetX, v.offsetY = Clamp(v.offsetX, v.offsetY, v.scale, v.image, viewport)
}

// ZoomScale is the zoom-in scale for an image of naturalWidth shown in a
// viewport of viewportWidth, floored at 1.
func ZoomScale(naturalWidth, viewportWidth float64) float64 {
	if naturalWidth <= 0 {
		return 1
	}
	s := viewportWidth * ZoomFill / naturalWidth
	if s < 1 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// Clamp bounds an offset so the scaled image moves at most half its
// overflow past the viewport on each axis.
func Clamp(x, y, scale float64, image, viewport Size) (float64, float64) {
	maxX := MaxOffset(image.Width*scale, viewport.Width)
	maxY := MaxOffset(image.Height*scale, viewport.Height)
	return clampAbs(x, maxX), clampAbs(y, maxY)
}

// MaxOffset is max(0, (scaled-viewport)/2).
func MaxOffset(scaled, viewport float64) float64 {
	return math.Max(0, (scaled-viewport)/2)
}

func clampAbs(v, limit float64) float64 {
	v = math.Min(math.Max(v, -limit), limit)
	if v == 0 {
		return 0 // normalise -0
	}
	return v
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func px(f float64) string {
	return num(f) + "px"
}
