package portal

import "github.com/chewxy/math32"

// ClampPixelRatio returns min(dpr, limit). Non-positive ratios count as 1.
func ClampPixelRatio(dpr, limit float32) float32 {
	if dpr <= 0 {
		dpr = 1
	}
	if dpr > limit {
		return limit
	}
	return dpr
}

// DrawingBufferSize is the viewport in device pixels: the framebuffer when
// known, otherwise the window size scaled by the clamped pixel ratio.
func (vp Viewport) DrawingBufferSize(limit float32) (width, height int) {
	if vp.FramebufferWidth > 0 && vp.FramebufferHeight > 0 {
		return vp.FramebufferWidth, vp.FramebufferHeight
	}
	pr := ClampPixelRatio(vp.PixelRatio, limit)
	return int(math32.Floor(float32(vp.Width) * pr)), int(math32.Floor(float32(vp.Height) * pr))
}

// Resize applies a new viewport: camera aspect, the renderer viewport over
// the whole framebuffer, and the clamped pixel ratio on the fireflies
// uPixelRatio. Applying the same viewport again changes nothing.
func (a *App) Resize(vp Viewport) {
	a.viewport = vp

	a.Camera.UpdateAspectRatio(float32(vp.Width), float32(vp.Height))
	a.Camera.GetProjectionMatrix()
	a.Controls.SetViewportHeight(float32(vp.Height))

	a.renderer.SetDrawingBufferSize(vp.DrawingBufferSize(a.maxPixelRatio))

	pr := ClampPixelRatio(vp.PixelRatio, a.maxPixelRatio)
	a.pixelRatio = pr
	a.Materials.Fireflies.Uniforms.SetFloat(UniformPixelRatio, pr)
}
