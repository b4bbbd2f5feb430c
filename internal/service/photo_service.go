package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"projecthub/internal/config"
	"projecthub/internal/models"
	"projecthub/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultPhotoUploadDir       = "/tmp/projecthub/photos"
	DefaultPhotoMaxUploadSizeMB = 5
	PhotoSize                   = 256
	PhotoWebPQuality            = 75
	PhotoURLPrefix              = "/media/photos"
	// PhotoMaxPixels caps the decoded canvas; headers are checked before
	// any pixel data is allocated.
	PhotoMaxPixels = 40_000_000
)

// PhotoUpload is a raw profile photo as received from a client.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// PhotoService normalizes profile photos to a square webp and stores them on disk.
type PhotoService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewPhotoService(cfg *config.Config) *PhotoService {
	uploadDir := DefaultPhotoUploadDir
	maxUploadSizeMB := DefaultPhotoMaxUploadSizeMB

	if cfg != nil {
		if cfg.PhotoUploadDir != "" {
			uploadDir = cfg.PhotoUploadDir
		}
		if cfg.PhotoMaxUploadMB > 0 {
			maxUploadSizeMB = cfg.PhotoMaxUploadMB
		}
	}

	return &PhotoService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir is the directory photos are written under.
func (s *PhotoService) UploadDir() string {
	return s.uploadDir
}

// Store decodes, crops, resizes and writes the photo, returning its public path.
func (s *PhotoService) Store(ctx context.Context, userID uint, in PhotoUpload) (string, error) {
	if userID == 0 {
		return "", models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > PhotoMaxPixels {
		return "", models.NewValidationError(fmt.Sprintf("Image dimensions too large (max %d pixels)", PhotoMaxPixels))
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return "", models.NewValidationError("Image content type mismatch")
	}

	square := cropToSquare(decoded)
	thumb := resizeToFit(square, PhotoSize, PhotoSize)

	encoded, err := encodeWebP(thumb, PhotoWebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	name := photoHash(userID, encoded) + ".webp"
	rel := filepath.Join(fmt.Sprint(userID), name)
	if err := writeBytesToFile(filepath.Join(s.uploadDir, rel), encoded); err != nil {
		return "", models.NewInternalError(err)
	}

	observability.Ctx(ctx).Info().
		Uint("photo_user_id", userID).
		Str("filename", in.Filename).
		Int("bytes", len(encoded)).
		Msg("stored profile photo")

	return PhotoURLPrefix + "/" + filepath.ToSlash(rel), nil
}

// cropToSquare keeps the centered square of src.
func cropToSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < side {
		side = h
	}
	if side <= 0 || (w == h && b.Min == image.Point{}) {
		return src
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func photoHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
