package service

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projecthub/internal/config"
	"projecthub/internal/models"
	"projecthub/internal/testutil"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoServiceStoreCropsAndResizes(t *testing.T) {
	cfg := &config.Config{PhotoUploadDir: t.TempDir(), PhotoMaxUploadMB: 1}
	svc := NewPhotoService(cfg)

	path, err := svc.Store(context.Background(), 42, PhotoUpload{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Content:     testutil.TinyPNG(t, 1200, 800),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/media/photos/42/"), path)
	assert.True(t, strings.HasSuffix(path, ".webp"), path)

	onDisk := filepath.Join(cfg.PhotoUploadDir, strings.TrimPrefix(path, PhotoURLPrefix+"/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, PhotoSize, PhotoSize), img.Bounds())
}

func TestPhotoServiceSmallImageKeepsSize(t *testing.T) {
	svc := NewPhotoService(&config.Config{PhotoUploadDir: t.TempDir()})

	path, err := svc.Store(context.Background(), 1, PhotoUpload{Content: testutil.TinyPNG(t, 40, 60)})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(svc.UploadDir(), strings.TrimPrefix(path, PhotoURLPrefix+"/")))
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}

func TestPhotoServiceRejectsBadInput(t *testing.T) {
	svc := NewPhotoService(&config.Config{PhotoUploadDir: t.TempDir(), PhotoMaxUploadMB: 1})
	ctx := context.Background()

	tests := []struct {
		name   string
		userID uint
		in     PhotoUpload
	}{
		{"no user", 0, PhotoUpload{Content: testutil.TinyPNG(t, 4, 4)}},
		{"empty", 1, PhotoUpload{}},
		{"not an image", 1, PhotoUpload{Content: []byte("hello world, not an image")}},
		{"too large", 1, PhotoUpload{Content: bytes.Repeat([]byte{0x89}, 2*1024*1024)}},
		{"type mismatch", 1, PhotoUpload{ContentType: "image/gif", Content: testutil.TinyPNG(t, 4, 4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Store(ctx, tt.userID, tt.in)
			assert.True(t, models.HasCode(err, models.CodeValidation), "got %v", err)
		})
	}
}

func TestPhotoServiceRejectsHugeCanvasBeforeDecoding(t *testing.T) {
	svc := NewPhotoService(&config.Config{PhotoUploadDir: t.TempDir(), PhotoMaxUploadMB: 1})

	content := testutil.PNGHeader(100_000, 100_000)
	require.Less(t, len(content), 64)

	_, err := svc.Store(context.Background(), 1, PhotoUpload{ContentType: "image/png", Content: content})
	require.True(t, models.HasCode(err, models.CodeValidation), "got %v", err)
	assert.Contains(t, err.Error(), "dimensions")
}

func TestCropToSquareCentersLongSide(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 30, 10))
	out := cropToSquare(src)
	assert.Equal(t, 10, out.Bounds().Dx())
	assert.Equal(t, 10, out.Bounds().Dy())
}
