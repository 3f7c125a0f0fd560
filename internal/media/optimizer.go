// Package media optimizes and stores resolution photos uploaded by zone
// authorities.
package media

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Defaults for the optimizer.
const (
	DefaultUploadDir = "uploads"
	DefaultMaxWidth  = 1280
	DefaultMaxHeight = 720
	DefaultQuality   = 85

	timestampLayout = "20060102_150405"
	dirPerm         = 0o755
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidImage is returned when an upload cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")
)

// Config holds the optimizer configuration.
type Config struct {
	UploadDir string `env:"MEDIA_UPLOAD_DIR"   yaml:"upload_dir"`
	MaxWidth  int    `env:"MEDIA_MAX_WIDTH"    yaml:"max_width"`
	MaxHeight int    `env:"MEDIA_MAX_HEIGHT"   yaml:"max_height"`
	Quality   int    `env:"MEDIA_JPEG_QUALITY" yaml:"jpeg_quality"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
}

// Optimizer downsizes photos and writes them under the upload directory.
type Optimizer struct {
	cfg Config
	now func() time.Time
}

// NewOptimizer creates an optimizer.
func NewOptimizer(cfg Config) *Optimizer {
	cfg.SetDefaults()
	return &Optimizer{cfg: cfg, now: time.Now}
}

// Optimize fits img within the configured bounds keeping its aspect ratio
// and flattens transparency onto white. Smaller images keep their size.
func (o *Optimizer) Optimize(img image.Image) *image.NRGBA {
	fitted := imaging.Fit(img, o.cfg.MaxWidth, o.cfg.MaxHeight, imaging.Lanczos)
	b := fitted.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, fitted, image.Pt(0, 0), 1.0)
}

// Stored describes a saved photo.
type Stored struct {
	Path           string `json:"path"`
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// Save decodes an upload named filename, optimizes it and writes it as
// complaint_{id}_{timestamp}.{ext}. The extension of filename selects the
// output format.
func (o *Optimizer) Save(complaintID int64, filename string, r io.Reader) (*Stored, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	format, err := imaging.FormatFromExtension(ext)
	if err != nil || (format != imaging.JPEG && format != imaging.PNG) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	optimized := o.Optimize(src)

	if mkErr := os.MkdirAll(o.cfg.UploadDir, dirPerm); mkErr != nil {
		return nil, fmt.Errorf("create upload dir: %w", mkErr)
	}

	path := o.uniquePath(complaintID, ext)
	if saveErr := imaging.Save(optimized, path, imaging.JPEGQuality(o.cfg.Quality)); saveErr != nil {
		return nil, fmt.Errorf("save image: %w", saveErr)
	}

	return &Stored{
		Path:           path,
		OriginalWidth:  src.Bounds().Dx(),
		OriginalHeight: src.Bounds().Dy(),
		Width:          optimized.Bounds().Dx(),
		Height:         optimized.Bounds().Dy(),
	}, nil
}

// FileName returns the stored name of a photo taken at t.
func FileName(complaintID int64, ext string, t time.Time) string {
	return fmt.Sprintf("complaint_%d_%s.%s", complaintID, t.Format(timestampLayout), ext)
}

// uniquePath adds a short suffix when two uploads land in the same second.
func (o *Optimizer) uniquePath(complaintID int64, ext string) string {
	path := filepath.Join(o.cfg.UploadDir, FileName(complaintID, ext, o.now()))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	base := strings.TrimSuffix(path, "."+ext)
	return base + "_" + uuid.NewString()[:8] + "." + ext
}
