package gekko

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Image is a decoded RGBA8 texture.
type Image struct {
	ID     uuid.UUID
	Path   string
	Width  uint32
	Height uint32
	// Pixels holds non-premultiplied RGBA rows, top row first.
	Pixels []uint8
}

func (img *Image) id() string {
	if img == nil {
		return ""
	}
	return img.ID.String()
}

// NewImage copies src into an RGBA8 image.
func NewImage(src image.Image, path string) *Image {
	bounds := src.Bounds()
	rgba, ok := src.(*image.NRGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*bounds.Dx() {
		rgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}
	return &Image{
		ID:     uuid.New(),
		Path:   path,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Pixels: rgba.Pix,
	}
}

type imageDecoder func(r io.Reader) (image.Image, error)

// Decoders are picked by extension; tga has no magic number so sniffing
// through image.Decode is not reliable.
var imageDecoders = map[string]imageDecoder{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// SupportedImageExtension reports whether ReadImage can decode files with
// the given extension.
func SupportedImageExtension(ext string) bool {
	_, ok := imageDecoders[strings.ToLower(ext)]
	return ok
}

// ReadImage locates name through options and decodes it. Images read with
// a SharedObjects cache are shared by resolved path.
func ReadImage(name string, options *Options) (*Image, error) {
	path, ok := options.FindFile(name)
	if !ok {
		return nil, fmt.Errorf("read image %s: file not found", name)
	}

	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := imageDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("read image %s: unsupported extension %q", name, ext)
	}

	load := func() (*Image, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", name, err)
		}
		defer file.Close()

		img, err := decode(file)
		if err != nil {
			return nil, fmt.Errorf("read image %s: decode: %w", name, err)
		}
		options.logger().Debugf("read image %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
		return NewImage(img, path), nil
	}

	if options != nil && options.SharedObjects != nil {
		return options.SharedObjects.image(path, load)
	}
	return load()
}
