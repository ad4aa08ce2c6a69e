package transformers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/disintegration/gift"

	// Decoders for the formats accepted as image uploads. WebP, BMP and TIFF
	// decode fine but their results are re-encoded as JPEG below.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/pkg/config"
	"medialib/transform"
)

const jpegQuality = 90

// ResizeImage scales an image to the configured box and stores the result.
//
// Config keys:
//
//	size {w, h}    target box in pixels (at least one required); the flat
//	               width/height keys are accepted as well
//	fit            crop to fill the box exactly instead of fitting inside it
//	aspect         keep the source aspect ratio (default true); false forces
//	               an exact resize to the box
//	upsize         allow growing images smaller than the box (default true)
type ResizeImage struct {
	name    string
	cfg     config.TransformerConfig
	store   ports.StoragePort
	paths   ports.PathGenerator
	tempDir string
}

// NewResizeImageFactory returns the registry factory for "image.resize".
func NewResizeImageFactory(store ports.StoragePort, paths ports.PathGenerator, tempDir string) transform.TransformerFactory {
	return func(name string, cfg config.TransformerConfig) (ports.Transformer, error) {
		if w, h := resizeBox(cfg); w <= 0 && h <= 0 {
			return nil, fmt.Errorf("transformer %q: a target width or height is required", name)
		}
		return &ResizeImage{
			name:    name,
			cfg:     cfg,
			store:   store,
			paths:   paths,
			tempDir: tempDir,
		}, nil
	}
}

func (t *ResizeImage) Transform(ctx context.Context, file *models.File) (*ports.TransformResult, error) {
	if !file.IsImage() {
		return ports.Skipped("file is not an image"), nil
	}

	path, cleanup, err := transform.LocalCopy(ctx, t.store, t.paths, file, t.tempDir)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	src, format, err := decodeImage(path)
	if err != nil {
		// Undecodable bytes will not decode on a retry either.
		return ports.Skipped(fmt.Sprintf("cannot decode image: %v", err)), nil
	}

	dst := t.resize(src)

	encoded, mimeType, extension, err := encodeImage(dst, format)
	if err != nil {
		return nil, fmt.Errorf("transformer %q: encode result: %w", t.name, err)
	}

	result := &models.Transformation{
		Name:      t.name,
		Type:      models.TypeImage,
		MimeType:  mimeType,
		Extension: extension,
		Size:      int64(encoded.Len()),
		Width:     dst.Bounds().Dx(),
		Height:    dst.Bounds().Dy(),
		Completed: true,
	}
	result.FileID = file.ID

	key := t.paths.Path(file, result)
	if t.cfg.Bool("default", false) {
		// A default resize replaces the upload itself.
		key = t.paths.Path(file, nil)
	}

	if err := t.store.Put(ctx, file.Disk, key, encoded, mimeType); err != nil {
		return nil, fmt.Errorf("transformer %q: store result: %w", t.name, err)
	}

	return ports.Done(result), nil
}

// resizeBox reads the target dimensions from the "size" block, falling back
// to the flat width/height keys.
func resizeBox(cfg config.TransformerConfig) (int, int) {
	if size := cfg.Sub("size"); size != nil {
		return size.Int("w", 0), size.Int("h", 0)
	}
	return cfg.Int("width", 0), cfg.Int("height", 0)
}

func (t *ResizeImage) resize(src image.Image) image.Image {
	width, height := resizeBox(t.cfg)
	fit := t.cfg.Bool("fit", false)
	aspect := t.cfg.Bool("aspect", true)
	upsize := t.cfg.Bool("upsize", true)

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	var filter gift.Filter
	switch {
	case fit && width > 0 && height > 0:
		cropW, cropH := fillCrop(srcW, srcH, width, height)
		if !upsize && (cropW < width || cropH < height) {
			// Scaling the crop up to the box is off; trim the source to
			// the box ratio and leave its size alone.
			filter = gift.CropToSize(cropW, cropH, gift.CenterAnchor)
		} else {
			filter = gift.ResizeToFill(width, height, gift.LanczosResampling, gift.CenterAnchor)
		}
	case !aspect && width > 0 && height > 0:
		if !upsize && fitsWithin(srcW, srcH, width, height) {
			return src
		}
		filter = gift.Resize(width, height, gift.LanczosResampling)
	default:
		if !upsize && fitsWithin(srcW, srcH, width, height) {
			return src
		}
		// A zero dimension scales proportionally to the other.
		w, h := aspectFit(srcW, srcH, width, height)
		filter = gift.Resize(w, h, gift.LanczosResampling)
	}

	g := gift.New(filter)
	dst := image.NewRGBA(g.Bounds(bounds))
	g.Draw(dst, src)
	return dst
}

// fillCrop returns the largest rectangle with the box's aspect ratio that
// fits inside the source.
func fillCrop(srcW, srcH, width, height int) (int, int) {
	if srcW*height >= srcH*width {
		return srcH * width / height, srcH
	}
	return srcW, srcW * height / width
}

// aspectFit picks the constraining box dimension so the resize preserves the
// source aspect ratio. Boxes with a single dimension pass through untouched.
func aspectFit(srcW, srcH, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 {
		return maxW, maxH
	}
	if srcW*maxH >= srcH*maxW {
		return maxW, 0
	}
	return 0, maxH
}

// fitsWithin reports whether the source already fits inside the target box.
// Unset target dimensions do not constrain.
func fitsWithin(srcW, srcH, maxW, maxH int) bool {
	if maxW > 0 && srcW > maxW {
		return false
	}
	if maxH > 0 && srcH > maxH {
		return false
	}
	return true
}

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return image.Decode(f)
}

// encodeImage writes the image back in its source format. Formats without an
// encoder (webp, bmp, tiff) come back as JPEG.
func encodeImage(img image.Image, format string) (*bytes.Buffer, string, string, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", "", err
		}
		return &buf, "image/png", "png", nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", "", err
		}
		return &buf, "image/gif", "gif", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", "", err
		}
		return &buf, "image/jpeg", "jpg", nil
	}
}
