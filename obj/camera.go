package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilechains/common"
)

const (
	minZoom = 0.25
	maxZoom = 8
)

// Camera is a pannable, zoomable view over a level. PosX/PosY is the world
// pixel at the center of the screen.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	zoom    float64
	off     *ebiten.Image

	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

// NewCamera creates a camera with the given logical screen size and initial zoom.
func NewCamera(screenW, screenH int, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{
		screenW: screenW,
		screenH: screenH,
		zoom:    zoom,
		PosX:    float64(screenW) / 2.0,
		PosY:    float64(screenH) / 2.0,
	}
}

// SetZoom updates the camera zoom, clamped to a sane range.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.zoom = common.Clamp(z, minZoom, maxZoom)
	c.clampToWorld()
}

// ZoomBy multiplies the zoom by f.
func (c *Camera) ZoomBy(f float64) {
	c.SetZoom(c.zoom * f)
}

// Zoom returns the current camera zoom.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetScreenSize updates the logical screen size used by the camera.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if c.screenW == w && c.screenH == h {
		return
	}
	c.screenW = w
	c.screenH = h
	c.off = nil
}

// SetWorldBounds sets the world pixel dimensions for clamping camera position.
func (c *Camera) SetWorldBounds(w, h int) {
	c.worldW = float64(w)
	c.worldH = float64(h)
	c.clampToWorld()
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	viewW := float64(c.screenW) / c.zoom
	viewH := float64(c.screenH) / c.zoom
	return c.PosX - viewW/2.0, c.PosY - viewH/2.0
}

// ScreenToWorld maps a screen pixel to a world pixel.
func (c *Camera) ScreenToWorld(sx, sy int) (float64, float64) {
	left, top := c.ViewTopLeft()
	return left + float64(sx)/c.zoom, top + float64(sy)/c.zoom
}

// Pan moves the camera by dx, dy screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.PosX += dx / c.zoom
	c.PosY += dy / c.zoom
	c.clampToWorld()
}

// SnapTo centers the camera on a world coordinate.
func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.clampToWorld()
}

func (c *Camera) clampToWorld() {
	// snap position to 1/zoom grid to align source texels to integer screen pixels
	c.PosX = math.Round(c.PosX*c.zoom) / c.zoom
	c.PosY = math.Round(c.PosY*c.zoom) / c.zoom

	halfW := float64(c.screenW) / c.zoom / 2.0
	halfH := float64(c.screenH) / c.zoom / 2.0
	if c.worldW > 0 {
		if c.worldW < 2*halfW {
			// world smaller than view: center on world
			c.PosX = c.worldW / 2.0
		} else {
			c.PosX = common.Clamp(c.PosX, halfW, c.worldW-halfW)
		}
	}
	if c.worldH > 0 {
		if c.worldH < 2*halfH {
			c.PosY = c.worldH / 2.0
		} else {
			c.PosY = common.Clamp(c.PosY, halfH, c.worldH-halfH)
		}
	}
}

// Render clears an offscreen view, lets drawWorld fill it, then copies it
// to screen. The caller draws with offsets from ViewTopLeft().
func (c *Camera) Render(screen *ebiten.Image, drawWorld func(world *ebiten.Image)) {
	if c.off == nil {
		c.off = ebiten.NewImage(c.screenW, c.screenH)
	}
	c.off.Clear()
	if drawWorld != nil {
		drawWorld(c.off)
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(c.off, op)
}
