package obj

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const panSpeed = 8.0

// Input holds the viewer controls sampled once per frame.
type Input struct {
	// PanX/PanY are -1, 0 or +1 per axis.
	PanX float64
	PanY float64
	// ZoomDelta is positive to zoom in, negative to zoom out.
	ZoomDelta float64
	// DropPressed is true on the frame a probe should be dropped.
	DropPressed bool
	// ClearPressed removes every probe.
	ClearPressed bool
	// ReloadPressed re-reads the level and extraction spec.
	ReloadPressed bool
	// DebugToggled flips the physics overlay.
	DebugToggled bool
	// MouseWorldX/Y are the mouse cursor position in world coordinates (pixels).
	MouseWorldX float64
	MouseWorldY float64
	// MouseOverUI suppresses world clicks while the cursor is on the HUD.
	MouseOverUI bool

	camera *Camera
}

func NewInput(camera *Camera) *Input {
	return &Input{camera: camera}
}

// Update polls keyboard, mouse and the first gamepad.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	mx, my := ebiten.CursorPosition()
	i.MouseWorldX, i.MouseWorldY = i.camera.ScreenToWorld(mx, my)

	var panX, panY float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		panX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		panX += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		panY -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		panY += 1
	}

	_, wheel := ebiten.Wheel()
	zoom := wheel
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		zoom += 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		zoom -= 1
	}

	var gpDrop, gpClear bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		leftY := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if leftX < -0.3 {
			panX = -1
		} else if leftX > 0.3 {
			panX = 1
		}
		if leftY < -0.3 {
			panY = -1
		} else if leftY > 0.3 {
			panY = 1
		}
		gpDrop = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpClear = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightLeft)
	}

	i.PanX, i.PanY = panX, panY
	i.ZoomDelta = zoom
	i.DropPressed = (inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !i.MouseOverUI) || gpDrop
	i.ClearPressed = inpututil.IsKeyJustPressed(ebiten.KeyC) || gpClear
	i.ReloadPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.DebugToggled = inpututil.IsKeyJustPressed(ebiten.KeyTab)
}

// ApplyToCamera pans and zooms the camera from the sampled state.
func (i *Input) ApplyToCamera() {
	if i.PanX != 0 || i.PanY != 0 {
		i.camera.Pan(i.PanX*panSpeed, i.PanY*panSpeed)
	}
	if i.ZoomDelta > 0 {
		i.camera.ZoomBy(1.1)
	} else if i.ZoomDelta < 0 {
		i.camera.ZoomBy(1 / 1.1)
	}
}
