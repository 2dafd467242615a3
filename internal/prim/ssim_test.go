package prim

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestSSIMSameImage(t *testing.T) {
	image := makeRandomImage(100, 100)
	ssim, err := SSIM(image, image)
	if err != nil {
		t.Fatal(err)
	}
	if ssim < 0.999 {
		t.Errorf("SSIM is %f, want ~1.0", ssim)
	}
}

func TestSSIMDifferentImages(t *testing.T) {
	image1 := makeRandomImage(100, 100)
	image2 := makeRandomImage(100, 100)
	ssim, err := SSIM(image1, image2)
	if err != nil {
		t.Fatal(err)
	}
	if ssim > 0.999 {
		t.Errorf("SSIM is %f, want some number < 1.0", ssim)
	}
}

func TestSSIMSizeMismatch(t *testing.T) {
	image1 := makeRandomImage(100, 100)
	image2 := makeRandomImage(50, 100)
	if _, err := SSIM(image1, image2); err == nil {
		t.Error("SSIM accepted differently sized images")
	}
}

func makeRandomImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rand.Intn(256)),
				G: uint8(rand.Intn(256)),
				B: uint8(rand.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// Run benchmarks with:
// go test ./internal/prim -run ^$ -bench . -cpuprofile=/tmp/cpu.prof
// go tool pprof -http=:8080 /tmp/cpu.prof

func BenchmarkSSIM(b *testing.B) {
	const width = 1000
	const height = 1000

	img1 := makeRandomImage(width, height)
	img2 := makeRandomImage(width, height)

	for b.Loop() {
		SSIM(img1, img2)
	}
}
