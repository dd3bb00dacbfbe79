package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"strconv"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/session"
	"github.com/marben/mandelzoom/ui/zoomview"
)

// statusDelay is how long "Rendering..." stays up before the render starts.
const statusDelay = 100 * time.Millisecond

// mainWindow is the viewer window.
type mainWindow struct {
	fyne.Window
	sess *session.Session

	view      *zoomview.ZoomView
	statusBar *widget.Label
	viewLabel *widget.Label

	maxIter  *widget.Entry
	colors   [3]*widget.Entry
	landmark *widget.Select

	// a new render cancels the one still running
	renderMu sync.Mutex
	cancel   context.CancelFunc
}

func newMainWindow(fyneApp fyne.App, sess *session.Session) *mainWindow {
	mw := &mainWindow{
		Window: fyneApp.NewWindow(appTitle),
		sess:   sess,
	}
	mw.setupUI()
	mw.showSettings(sess.Settings())
	return mw
}

// setupUI creates the main UI layout.
func (mw *mainWindow) setupUI() {
	mw.view = zoomview.New(mw.sess.Size())
	mw.view.OnTap(mw.onTap)
	mw.view.OnHover(mw.onHover)

	mw.statusBar = widget.NewLabel("Ready")
	mw.viewLabel = widget.NewLabel("")

	bottom := container.NewVBox(
		mw.createSettingsBar(),
		container.NewHBox(mw.statusBar, mw.viewLabel),
	)
	content := container.NewBorder(mw.createToolbar(), bottom, nil, nil, mw.view)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with view controls.
func (mw *mainWindow) createToolbar() fyne.CanvasObject {
	renderBtn := widget.NewButton("Render", func() {
		mw.render()
	})
	resetBtn := widget.NewButton("Reset view", func() {
		mw.apply(mw.sess.Reset)
	})
	mw.landmark = widget.NewSelect(mandel.LandmarkNames(), func(name string) {
		v, ok := mandel.Landmark(name)
		if !ok {
			return
		}
		mw.apply(func() error { return mw.sess.SetViewport(v) })
	})
	mw.landmark.PlaceHolder = "Go to..."

	return container.NewHBox(renderBtn, resetBtn, mw.landmark)
}

// createSettingsBar creates the iteration and palette inputs.
func (mw *mainWindow) createSettingsBar() fyne.CanvasObject {
	mw.maxIter = widget.NewEntry()
	for i := range mw.colors {
		mw.colors[i] = widget.NewEntry()
	}
	applyBtn := widget.NewButton("Apply", mw.onApplySettings)
	resetBtn := widget.NewButton("Reset settings", func() {
		mw.apply(mw.sess.ResetSettings)
		mw.showSettings(mw.sess.Settings())
	})

	return container.NewHBox(
		widget.NewLabel("Iterations:"), mw.maxIter,
		widget.NewLabel("Interior:"), mw.colors[0],
		widget.NewLabel("Even:"), mw.colors[1],
		widget.NewLabel("Odd:"), mw.colors[2],
		applyBtn, resetBtn,
	)
}

func (mw *mainWindow) showSettings(rs mandel.RenderSettings) {
	mw.maxIter.SetText(strconv.Itoa(rs.MaxIter))
	hex := rs.Palette.Hex()
	for i, c := range hex {
		mw.colors[i].SetText(c)
	}
}

func (mw *mainWindow) onApplySettings() {
	n, err := strconv.Atoi(mw.maxIter.Text)
	if err != nil {
		mw.updateStatus(fmt.Sprintf("Iterations: %v", err))
		return
	}
	p, err := mandel.ParsePalette([]string{mw.colors[0].Text, mw.colors[1].Text, mw.colors[2].Text})
	if err != nil {
		mw.updateStatus(err.Error())
		return
	}
	mw.apply(func() error { return mw.sess.UpdateSettings(n, p) })
}

func (mw *mainWindow) onTap(p image.Point) {
	_, done, err := mw.sess.Click(p)
	if err != nil {
		mw.updateStatus(err.Error())
		return
	}
	if done {
		mw.render()
		return
	}
	mw.repaint()
}

func (mw *mainWindow) onHover(p image.Point) {
	mw.sess.Hover(p)
	if mw.sess.Selection().Phase == mandel.CornerPicked {
		mw.repaint()
	}
}

// apply runs a session change and renders the result.
func (mw *mainWindow) apply(change func() error) {
	if err := change(); err != nil {
		mw.updateStatus(err.Error())
		return
	}
	mw.render()
}

// repaint shows the cached raster with the current selection echo. It
// runs on the UI goroutine and never renders; while a render is pending
// the echo shows up with its frame.
func (mw *mainWindow) repaint() {
	f, ok := mw.sess.Cached()
	if !ok {
		return
	}
	mw.view.SetImage(f.Image)
}

// render shows the rendering status, then renders in the background,
// cancelling any render still running.
func (mw *mainWindow) render() {
	ctx, cancel := context.WithCancel(context.Background())
	mw.renderMu.Lock()
	if mw.cancel != nil {
		mw.cancel()
	}
	mw.cancel = cancel
	mw.renderMu.Unlock()

	mw.updateStatus("Rendering...")
	go func() {
		select {
		case <-time.After(statusDelay):
		case <-ctx.Done():
			return
		}

		f, err := mw.sess.Render(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("render: %v", err)
			mw.updateStatus(err.Error())
			return
		}
		mw.view.SetImage(f.Image)
		mw.viewLabel.SetText(f.Viewport.String())
		if f.Elapsed > 0 {
			mw.updateStatus(fmt.Sprintf("render took %s", f.Elapsed.Round(time.Millisecond)))
		} else {
			mw.updateStatus("Ready")
		}
	}()
}

func (mw *mainWindow) updateStatus(msg string) {
	mw.statusBar.SetText(msg)
}
