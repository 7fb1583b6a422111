// Package ebitenview shows a viewer.Screen in a desktop window.
package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smazurov/v4lgrab/internal/viewer"
)

// Window renders the current frame of a screen, scaled to fit.
type Window struct {
	screen *viewer.Screen
	image  *ebiten.Image
}

// New creates a window for screen.
func New(screen *viewer.Screen) *Window {
	return &Window{screen: screen}
}

// Run opens the window and blocks until it is closed or Escape or Q is
// pressed. Must be called from the main goroutine.
func (w *Window) Run(title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	frame := w.screen.Frame()
	if frame == nil {
		return
	}

	fw, fh := frame.Rect.Dx(), frame.Rect.Dy()
	if w.image == nil || w.image.Bounds().Dx() != fw || w.image.Bounds().Dy() != fh {
		w.image = ebiten.NewImage(fw, fh)
	}
	w.image.WritePixels(frame.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := viewer.AspectFit(float64(sw), float64(sh), float64(fw), float64(fh))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(w.image, op)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
