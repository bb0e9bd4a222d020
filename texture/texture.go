// Package texture converts source texture images into PNG assets under a
// scene's Textures/ directory. Materials that sample a single color channel
// get one extra single-channel texture per sampled channel, since the target
// material system has no per-channel sampling.
package texture

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	pkgerrors "github.com/pkg/errors"
)

type Channel int

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	ChannelAlpha
)

var channelSuffixes = map[Channel]string{
	ChannelRed:   "r",
	ChannelGreen: "g",
	ChannelBlue:  "b",
	ChannelAlpha: "a",
}

// Asset is one source texture plus the set of color channels that materials
// sample individually.
type Asset struct {
	Name       string // texture name, e.g. "wall.png"
	SourcePath string

	sampled [4]bool
}

func NewAsset(name, sourcePath string) *Asset {
	return &Asset{Name: name, SourcePath: sourcePath}
}

func (a *Asset) SampleChannel(ch Channel) {
	a.sampled[ch] = true
}

func (a *Asset) SampledChannels() []Channel {
	var out []Channel
	for ch := ChannelRed; ch <= ChannelAlpha; ch++ {
		if a.sampled[ch] {
			out = append(out, ch)
		}
	}
	return out
}

func (a *Asset) HasSampledChannels() bool {
	return len(a.SampledChannels()) > 0
}

// MergeSampledChannels adds rhs's sampled channels to a. Two materials may
// reference the same texture with different channels.
func (a *Asset) MergeSampledChannels(rhs *Asset) {
	for i, s := range rhs.sampled {
		if s {
			a.sampled[i] = true
		}
	}
}

// OutputCount is the number of files Export will produce: the full texture
// plus one per sampled channel.
func (a *Asset) OutputCount() int {
	return 1 + len(a.SampledChannels())
}

// Exporter writes texture assets as PNG into OutDir.
type Exporter struct {
	OutDir    string
	Overwrite bool

	// ResolutionLimit caps the longer image side; 0 means unlimited.
	ResolutionLimit int
}

// Export converts the asset and its sampled channels, returning the names of
// the files written (or kept, when Overwrite is off and they already exist).
func (e *Exporter) Export(a *Asset) ([]string, error) {
	img, err := loadImage(a.SourcePath)
	if err != nil {
		return nil, err
	}
	img = e.limitResolution(img)

	names := []string{pngName(a.Name)}
	if err := e.writePNG(names[0], img); err != nil {
		return nil, err
	}
	for _, ch := range a.SampledChannels() {
		name := channelName(a.Name, ch)
		if err := e.writePNG(name, extractChannel(img, ch)); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// loadImage decodes a source image, retrying headerless TGA files that the
// registered decoders cannot identify.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "texture: open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil && strings.ToLower(filepath.Ext(path)) == ".tga" {
		// retry
		f.Seek(0, io.SeekStart)
		img, err = tga.Decode(f)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "texture: decode %s", path)
	}
	return img, nil
}

func (e *Exporter) writePNG(name string, img image.Image) error {
	dst := filepath.Join(e.OutDir, name)
	if !e.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
	}
	f, err := os.Create(dst)
	if err != nil {
		return pkgerrors.Wrapf(err, "texture: create %s", dst)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return pkgerrors.Wrapf(err, "texture: encode %s", dst)
	}
	return nil
}

func (e *Exporter) limitResolution(img image.Image) image.Image {
	if e.ResolutionLimit <= 0 {
		return img
	}
	rect := img.Bounds()
	longer := rect.Dx()
	if rect.Dy() > longer {
		longer = rect.Dy()
	}
	if longer <= e.ResolutionLimit {
		return img
	}
	scale := float64(e.ResolutionLimit) / float64(longer)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(rect.Dx())*scale), int(float64(rect.Dy())*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
	return dst
}

func extractChannel(img image.Image, ch Channel) image.Image {
	rect := img.Bounds()
	dst := image.NewGray16(rect)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			v := [4]uint32{r, g, b, a}[ch]
			dst.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}
	return dst
}

// pngName swaps the extension for .png.
func pngName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
}

// channelName is the single-channel variant name, e.g. wall.png -> wall_r.png.
func channelName(name string, ch Channel) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_" + channelSuffixes[ch] + ".png"
}
