package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/mandelzoom"
)

func testFrame(t *testing.T) *image.RGBA {
	t.Helper()
	r, err := mandel.Render(mandel.DefaultViewport, mandel.CanvasSize{W: 40, H: 30}, mandel.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return r.Image(mandel.DefaultPalette, color.White)
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"mandel.png":  PNG,
		"out/Z.BMP":   BMP,
		"deep.tif":    TIFF,
		"deeper.tiff": TIFF,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("FormatFromPath(%q): expected %s, got %s (%v)", path, want, got, err)
		}
	}
	if _, err := FormatFromPath("mandel.gif"); err == nil {
		t.Fatal("expected error for gif")
	}
}

func TestEncodeDecodes(t *testing.T) {
	frame := testFrame(t)
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		PNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		BMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		TIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}
	for f, decode := range decoders {
		var buf bytes.Buffer
		if err := Encode(&buf, frame, f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		img, err := decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("%s: decode: %v", f, err)
		}
		if img.Bounds() != frame.Bounds() {
			t.Fatalf("%s: expected bounds %s, got %s", f, frame.Bounds(), img.Bounds())
		}
		r1, g1, b1, _ := img.At(20, 15).RGBA()
		r2, g2, b2, _ := frame.At(20, 15).RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 {
			t.Fatalf("%s: pixel (20, 15) differs after round trip", f)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bmp")
	if err := WriteFile(path, testFrame(t)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty file")
	}
}

func TestThumbnail(t *testing.T) {
	frame := testFrame(t)
	thumb := Thumbnail(frame, 20, 20)
	if thumb.Bounds().Dx() != 20 || thumb.Bounds().Dy() != 15 {
		t.Fatalf("expected 20x15 thumbnail, got %s", thumb.Bounds())
	}
	same := Thumbnail(frame, 400, 400)
	if same.Bounds().Size() != frame.Bounds().Size() {
		t.Fatalf("expected no upscaling, got %s", same.Bounds())
	}
}

func TestDecodePNG(t *testing.T) {
	img := testFrame(t)
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodePNG(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, img.Pix) {
		t.Fatalf("expected decoded frame to match the rendered one")
	}

	if _, err := DecodePNG([]byte("not a png")); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
