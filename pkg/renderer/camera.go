// Package renderer hosts the camera, film, and scheduling machinery that
// sits above the integrators: turning film coordinates into primary rays,
// accumulating per-pixel radiance across samples, and driving the
// tile/worker scheduling that spec.md §5 describes. Grounded on the
// teacher's pkg/renderer (camera.go, progressive.go, tile_renderer.go):
// the thin-lens math below generalizes the teacher's fixed 16:9 pinhole
// camera into a configurable perspective camera with depth of field and
// the area/solid-angle pdf pair BDPT's camera-connection strategy needs.
package renderer

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// CameraConfig describes a thin-lens perspective camera (spec.md §4.D).
type CameraConfig struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	AspectRatio   float64
	VFov          float64 // vertical field of view, in degrees
	Aperture      float64 // lens diameter; 0 disables depth of field
	FocusDistance float64 // 0 means "focus at LookAt"
}

// Camera is a thin-lens perspective camera implementing core.Camera.
type Camera struct {
	center        core.Vec3
	forward       core.Vec3
	right         core.Vec3
	up            core.Vec3
	width         float64
	height        float64
	halfWidth     float64 // tan(hfov/2), at unit distance from the lens
	halfHeight    float64 // tan(vfov/2), at unit distance from the lens
	lensRadius    float64
	focusDistance float64
}

// NewCamera builds a Camera from a CameraConfig, deriving the right/up
// basis from Center/LookAt/Up and resolving FocusDistance of 0 to the
// distance to LookAt (pinhole-equivalent focus).
func NewCamera(config CameraConfig) *Camera {
	height := float64(config.Width) / config.AspectRatio

	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
		if focusDistance <= 0 {
			focusDistance = 1.0
		}
	}

	halfHeight := math.Tan(config.VFov * math.Pi / 180.0 / 2.0)
	halfWidth := halfHeight * config.AspectRatio

	return &Camera{
		center:        config.Center,
		forward:       forward,
		right:         right,
		up:            up,
		width:         float64(config.Width),
		height:        height,
		halfWidth:     halfWidth,
		halfHeight:    halfHeight,
		lensRadius:    config.Aperture / 2.0,
		focusDistance: focusDistance,
	}
}

// Forward returns the camera's optical axis direction.
func (c *Camera) Forward() core.Vec3 { return c.forward }

// Position returns the camera's lens center (the aperture's midpoint).
func (c *Camera) Position() core.Vec3 { return c.center }

// imagePlaneExtent returns the half-width and half-height, in world units,
// of the image plane at the focus distance.
func (c *Camera) imagePlaneExtent() (halfW, halfH float64) {
	return c.halfWidth * c.focusDistance, c.halfHeight * c.focusDistance
}

// GenerateRay maps a continuous film coordinate (filmX in [0,width],
// filmY in [0,height], Y growing downward) and a lens sample into a world
// ray, jittering the ray origin over the lens disk for depth of field.
func (c *Camera) GenerateRay(filmX, filmY float64, lensSample core.Vec2) core.Ray {
	ndcX := (2.0*filmX/c.width - 1.0)
	ndcY := (1.0 - 2.0*filmY/c.height)

	halfW, halfH := c.imagePlaneExtent()
	pointOnPlane := c.center.
		Add(c.forward.Multiply(c.focusDistance)).
		Add(c.right.Multiply(ndcX * halfW)).
		Add(c.up.Multiply(ndcY * halfH))

	origin := c.center
	if c.lensRadius > 0 {
		lens := core.SampleUniformDiskConcentric(lensSample)
		origin = origin.
			Add(c.right.Multiply(lens.X * c.lensRadius)).
			Add(c.up.Multiply(lens.Y * c.lensRadius))
	}

	return core.NewRay(origin, pointOnPlane.Subtract(origin).Normalize())
}

// WorldToFilm projects a world point back onto the film plane, the
// inverse of GenerateRay's pinhole projection (it ignores lens jitter,
// projecting through the lens center). ok is false for points behind the
// camera or outside the visible frustum.
func (c *Camera) WorldToFilm(point core.Vec3) (filmX, filmY float64, ok bool) {
	toPoint := point.Subtract(c.center)
	zCam := toPoint.Dot(c.forward)
	if zCam <= 1e-9 {
		return 0, 0, false
	}

	xCam := toPoint.Dot(c.right) / zCam
	yCam := toPoint.Dot(c.up) / zCam

	ndcX := xCam / c.halfWidth
	ndcY := yCam / c.halfHeight

	filmX = (ndcX + 1.0) / 2.0 * c.width
	filmY = (1.0 - ndcY) / 2.0 * c.height

	if filmX < 0 || filmX > c.width || filmY < 0 || filmY > c.height {
		return 0, 0, false
	}
	return filmX, filmY, true
}

// PdfWe returns the (positional, directional) pdf pair of the camera
// having generated ray, in the area/solid-angle measure BDPT's camera
// connection and t=1 strategy need. Positional pdf is measured over the
// focal plane's world-space area; directional pdf carries the cos^3
// falloff of a flat sensor viewed from the lens (higher on-axis, lower
// toward the frustum edges, matching the concentration of a real lens).
func (c *Camera) PdfWe(ray core.Ray) (pdfPos, pdfDir float64) {
	cosTheta := ray.Direction.Normalize().Dot(c.forward)
	if cosTheta <= 0 {
		return 0, 0
	}

	halfW, halfH := c.imagePlaneExtent()
	planeArea := 4.0 * halfW * halfH
	if planeArea <= 0 {
		return 0, 0
	}

	pdfPos = 1.0 / planeArea
	pdfDir = cosTheta * cosTheta * cosTheta
	return pdfPos, pdfDir
}

// SampleLens draws a point on the lens aperture for a t=1 BDPT
// camera-connection strategy, along with the pdf of having sampled it
// w.r.t. lens area (1 for a pinhole, whose lens is a single point).
// Mirrors the teacher's SampleCameraFromPoint, used by the light tracer
// and BDPT to connect a light-subpath vertex to the camera through a
// randomly chosen lens point instead of always the lens center, so depth
// of field renders correctly from light-carried paths too.
func (c *Camera) SampleLens(lensSample core.Vec2) (point core.Vec3, pdfArea float64) {
	if c.lensRadius <= 0 {
		return c.center, 1.0
	}
	lens := core.SampleUniformDiskConcentric(lensSample)
	point = c.center.
		Add(c.right.Multiply(lens.X * c.lensRadius)).
		Add(c.up.Multiply(lens.Y * c.lensRadius))
	pdfArea = 1.0 / (math.Pi * c.lensRadius * c.lensRadius)
	return point, pdfArea
}
