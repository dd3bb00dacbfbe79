//go:build js && wasm

package main

import (
	"image"
	"syscall/js"
	"time"
)

// displayImage puts img on the canvas
func displayImage(img *image.RGBA) {
	start := time.Now()
	// 1. Get the Canvas element and its 2D context
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	ctx := canvas.Call("getContext", "2d")

	// 2. Copy the pixels into a JS TypedArray (width * height * 4 bytes)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	// 3. Create ImageData and put it on the canvas
	imageData := js.Global().Get("ImageData").New(jsData, img.Rect.Dx(), img.Rect.Dy())
	ctx.Call("putImageData", imageData, 0, 0)
	hudSet("drawMs", time.Since(start).Milliseconds())
}

// initCanvas sizes the canvas and fills it with color until the first frame arrives.
func initCanvas(width, height int, color string) {
	canvas := js.Global().Get("document").Call("getElementById", "myCanvas")
	canvas.Set("width", width)
	canvas.Set("height", height)

	ctx := canvas.Call("getContext", "2d")
	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, width, height)
}

// canvasPoint converts a mouse event to canvas pixel coordinates.
func canvasPoint(canvas, event js.Value) image.Point {
	rect := canvas.Call("getBoundingClientRect")
	sx := canvas.Get("width").Float() / rect.Get("width").Float()
	sy := canvas.Get("height").Float() / rect.Get("height").Float()
	x := (event.Get("clientX").Float() - rect.Get("left").Float()) * sx
	y := (event.Get("clientY").Float() - rect.Get("top").Float()) * sy
	return image.Pt(int(x), int(y))
}
