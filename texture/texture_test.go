package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	src := writeTestImage(t, dir, "wall.png", 4, 4)

	a := NewAsset("wall.png", src)
	a.SampleChannel(ChannelGreen)
	a.SampleChannel(ChannelRed)
	if a.OutputCount() != 3 {
		t.Fatal("output count: ", a.OutputCount())
	}

	names, err := (&Exporter{OutDir: out, Overwrite: true}).Export(a)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"wall.png", "wall_r.png", "wall_g.png"}
	if len(names) != len(want) {
		t.Fatal("names: ", names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Error("name order: ", names)
		}
		if _, err := os.Stat(filepath.Join(out, n)); err != nil {
			t.Error("missing output: ", n)
		}
	}

	f, err := os.Open(filepath.Join(out, "wall_r.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != g || g != b {
		t.Error("channel texture must be grayscale: ", r, g, b)
	}
	if r>>8 != 200 {
		t.Error("red channel value: ", r>>8)
	}
}

func TestExportSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	src := writeTestImage(t, dir, "wall.png", 2, 2)

	existing := filepath.Join(out, "wall.png")
	if err := os.WriteFile(existing, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := (&Exporter{OutDir: out}).Export(NewAsset("wall.png", src)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "keep me" {
		t.Error("existing file must not be overwritten")
	}
}

func TestExportResolutionLimit(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	src := writeTestImage(t, dir, "big.png", 16, 8)

	e := &Exporter{OutDir: out, Overwrite: true, ResolutionLimit: 4}
	if _, err := e.Export(NewAsset("big.png", src)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(out, "big.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Error("bounds: ", img.Bounds())
	}
}

func TestMergeSampledChannels(t *testing.T) {
	a := NewAsset("t.png", "")
	a.SampleChannel(ChannelRed)
	b := NewAsset("t.png", "")
	b.SampleChannel(ChannelAlpha)
	a.MergeSampledChannels(b)
	got := a.SampledChannels()
	if len(got) != 2 || got[0] != ChannelRed || got[1] != ChannelAlpha {
		t.Error("channels: ", got)
	}
}
