package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func writeTestBMP(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "test.png", 40, 30)
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("Unexpected dimensions: %v", img.Bounds())
	}

	// Second load comes from cache even after the file disappears.
	if err := os.Remove(path); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Errorf("Expected cached load to succeed, got %v", err)
	}

	// After eviction the load must hit the (missing) disk file.
	cache.Evict(path)
	if _, err := cache.Load(path); err == nil {
		t.Error("Expected load after eviction to fail for a missing file")
	}
}

func TestImageCache_LoadBMP(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBMP(t, dir, "scan.bmp", 16, 16)
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed for BMP: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("Unexpected BMP width: %d", img.Bounds().Dx())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/image.png"); err == nil {
		t.Error("Expected error for missing file")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Expected error for undecodable file")
	}
}

func TestImageCache_Clear(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "test.png", 10, 10)
	cache := NewImageCache()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	cache.Clear()
	if _, err := cache.Load(path); err == nil {
		t.Error("Expected load after Clear to fail for a missing file")
	}
}

func TestLoadImageInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "info.png", 64, 48)
	cache := NewImageCache()

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("Unexpected dimensions: %dx%d", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Expected format png, got %s", info.Format)
	}
	if info.FileSizeBytes == 0 {
		t.Error("Expected a nonzero file size")
	}
}

func TestGetDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "dims.png", 25, 35)
	cache := NewImageCache()

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 25 || dims.Height != 35 {
		t.Errorf("Unexpected dimensions: %+v", dims)
	}
}
