package preview

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"

	"mu-bmd-pose/internal/mathutil"
	"mu-bmd-pose/internal/track"
)

func testRows() []track.Summary {
	q1 := mathutil.EulerToQuaternion(0, 0.5, 0)
	q2 := mathutil.EulerToQuaternion(0.3, 1.0, 0.2)
	lock := mathutil.NewQuaternion(0.5, 0.5, 0.5, 0.5)
	return []track.Summary{
		{Name: "Root", Keys: 1, Euler: []track.KeyEuler{{Rotation: q1, Euler: q1.ToEuler()}}},
		{Name: "ArmWithAVeryLongBoneName", Keys: 3, Euler: []track.KeyEuler{
			{Rotation: q1, Euler: q1.ToEuler()},
			{Rotation: lock, Euler: lock.ToEuler(), Radians: true},
			{Rotation: q2, Euler: q2.ToEuler()},
		}},
		{Name: "Empty"},
	}
}

func TestRenderSize(t *testing.T) {
	img := Render(testRows(), Options{Width: 300, RowHeight: 40, Supersample: 2})
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 120 {
		t.Fatalf("Render bounds = %v, want 300x120", b)
	}

	// Defaults apply to zero options and an empty row list still yields a row.
	img = Render(nil, Options{})
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 48 {
		t.Fatalf("Render(nil) bounds = %v, want 512x48", b)
	}
}

func TestRenderDrawsCurves(t *testing.T) {
	img := Render(testRows(), Options{Width: 300, RowHeight: 40, Supersample: 1})
	bg := 0
	other := 0
	for y := 40; y < 80; y++ {
		for x := labelWidth; x < 300; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i] == background.R && img.Pix[i+1] == background.G && img.Pix[i+2] == background.B {
				bg++
			} else {
				other++
			}
		}
	}
	if bg == 0 || other == 0 {
		t.Fatalf("row 1 plot area: %d background pixels, %d drawn pixels", bg, other)
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	dst := Downsample(src, 4, 4)
	if b := dst.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("Downsample bounds = %v, want 4x4", b)
	}
	if p := dst.NRGBAAt(2, 2); p.R != 0xff || p.A != 0xff {
		t.Fatalf("Downsample(white) pixel = %v, want opaque white", p)
	}
	if same := Downsample(src, 8, 8); same != src {
		t.Fatal("Downsample to the same size should return the input")
	}
}

func TestEncode(t *testing.T) {
	img := Render(testRows()[:1], Options{Width: 200, RowHeight: 20})

	var webp bytes.Buffer
	if err := Encode(&webp, img, "WEBP"); err != nil {
		t.Fatalf("Encode(webp): %v", err)
	}
	if b := webp.Bytes(); len(b) < 12 || string(b[:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Fatalf("Encode(webp) header = %q", webp.Bytes()[:12])
	}

	var out bytes.Buffer
	if err := Encode(&out, img, "tga"); err != nil {
		t.Fatalf("Encode(tga): %v", err)
	}
	back, err := tga.Decode(&out)
	if err != nil {
		t.Fatalf("tga.Decode: %v", err)
	}
	if back.Bounds().Dx() != 200 || back.Bounds().Dy() != 20 {
		t.Fatalf("tga round trip bounds = %v", back.Bounds())
	}

	if err := Encode(&out, img, "png"); !errors.Is(err, ErrFormat) {
		t.Fatalf("Encode(png) = %v, want ErrFormat", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	img := Render(testRows(), Options{Width: 200, RowHeight: 20})

	path := filepath.Join(dir, "7", "sword.webp")
	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("WriteFile output: %v, %v", fi, err)
	}

	bad := filepath.Join(dir, "sword.bmp")
	if err := WriteFile(bad, img); !errors.Is(err, ErrFormat) {
		t.Fatalf("WriteFile(.bmp) = %v, want ErrFormat", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatal("WriteFile left a partial file behind")
	}
}
