// Package assets validates, resizes, uploads, and deletes card images in
// object storage. It is independent of the card store: nothing links a card
// row to an uploaded object.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxFileSize is the largest accepted upload (2 MiB).
	MaxFileSize = 2 << 20

	// MaxDimension bounds both sides of a processed image.
	MaxDimension = 300

	// JPEGQuality is used for every processed image.
	JPEGQuality = 90

	// maxImagePixels caps decoded size to keep small compressed files from
	// expanding into huge bitmaps.
	maxImagePixels = 40_000_000
)

// AllowedExtensions lists accepted file extensions (lower case).
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".svg"}

// File is an uploaded file. Content is owned by whoever consumes it.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// ObjectStore is the storage contract the uploader depends on.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

// Uploader writes assets to an ObjectStore.
type Uploader struct {
	Store ObjectStore

	// Now and NewID are swappable for tests.
	Now   func() time.Time
	NewID func() string
	Log   zerolog.Logger
}

// NewUploader returns an Uploader backed by store.
func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{
		Store: store,
		Now:   time.Now,
		NewID: uuid.NewString,
		Log:   log.Logger.With().Str("component", "assets").Logger(),
	}
}

// Validate checks the extension (case-insensitive) and the declared size.
func Validate(f File) error {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !slices.Contains(AllowedExtensions, ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if f.Size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size)
	}
	return nil
}

// Process decodes data, drops any alpha channel or palette, shrinks the image
// so both sides fit in MaxDimension (keeping the aspect ratio), and encodes it
// as JPEG. Images already within bounds keep their size. The standard library
// encoder always writes default Huffman tables; there is no optimize pass.
func Process(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", ErrImageProcessing, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: image too large: %dx%d", ErrImageProcessing, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrImageProcessing, err)
	}

	src := opaque(img)
	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), MaxDimension)
	var out image.Image = src
	if w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrImageProcessing, err)
	}
	return buf.Bytes(), nil
}

// opaque copies img into an RGBA canvas with every pixel fully opaque. Color
// channels are taken unpremultiplied, so transparent areas keep their stored
// color instead of turning black.
func opaque(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

// fit scales (w, h) down so neither side exceeds limit.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	scale := math.Min(float64(limit)/float64(w), float64(limit)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	return min(nw, limit), min(nh, limit)
}

// Normalize reads f, processes it, and returns a JPEG file named after the
// original. f.Content is closed.
func Normalize(f File) (File, error) {
	defer f.Content.Close()
	data, err := io.ReadAll(io.LimitReader(f.Content, MaxFileSize+1))
	if err != nil {
		return File{}, fmt.Errorf("%w: read: %v", ErrImageProcessing, err)
	}
	if len(data) > MaxFileSize {
		return File{}, ErrFileTooLarge
	}
	out, err := Process(data)
	if err != nil {
		return File{}, err
	}
	name := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + ".jpg"
	return File{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(out)),
		Content:     io.NopCloser(bytes.NewReader(out)),
	}, nil
}

// Key builds <folder>/<YYYYMMDD_HHMMSS>_<8 hex chars><ext> for filename.
func (u *Uploader) Key(folder, filename string) string {
	id := strings.ReplaceAll(u.NewID(), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	name := u.Now().Format("20060102_150405") + "_" + id + filepath.Ext(filename)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// Upload stores the raw bytes of f under a fresh key and returns the public
// URL. f.Content is always closed.
func (u *Uploader) Upload(ctx context.Context, f File, folder string) (string, error) {
	defer f.Content.Close()

	data, err := io.ReadAll(f.Content)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrUpload, err)
	}
	key := u.Key(folder, f.Filename)
	if err := u.Store.Upload(ctx, key, f.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return u.Store.FileURL(key), nil
}

// Delete removes the object behind rawURL. An empty URL counts as deleted.
// Failures are logged and reported as false.
func (u *Uploader) Delete(ctx context.Context, rawURL string) bool {
	if rawURL == "" {
		return true
	}
	key, ok := u.Store.ExtractKey(rawURL)
	if !ok {
		u.Log.Warn().Str("url", rawURL).Msg("cannot derive object key from url")
		return false
	}
	if err := u.Store.Delete(ctx, key); err != nil {
		u.Log.Warn().Err(err).Str("key", key).Msg("delete asset failed")
		return false
	}
	return true
}
