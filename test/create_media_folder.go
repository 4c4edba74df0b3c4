package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"
)

func createTestImage(width, height int, seed uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			b := uint8((x+y)%255) + seed
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return img
}

func writeJPEG(path string, seed uint8) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Saved without EXIF so names fall back to mtime and content hash
	return jpeg.Encode(file, createTestImage(400, 300, seed), &jpeg.Options{Quality: 85})
}

// Builds a scratch folder for trying find-duplicates and rename by hand:
// untagged photos, one byte-identical copy, a dummy video and non-media clutter.
func main() {
	dir := "sample_media"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	base := time.Date(2024, 3, 15, 14, 30, 22, 0, time.Local)
	photos := []string{
		"IMG_0001.JPG",
		"IMG_0002.jpg",
		"IMG-20240315-WA0001.jpeg",
		"signal_20240315_143022.jpg",
	}

	for i, name := range photos {
		path := filepath.Join(dir, name)
		if err := writeJPEG(path, uint8(i*40)); err != nil {
			fmt.Printf("Error encoding %s: %v\n", name, err)
			continue
		}
		mtime := base.Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, mtime, mtime)
		fmt.Printf("Created photo: %s\n", path)
	}

	data, err := os.ReadFile(filepath.Join(dir, photos[0]))
	if err == nil {
		dup := filepath.Join(dir, "IMG_0001 (copy).jpg")
		if err := os.WriteFile(dup, data, 0644); err == nil {
			fmt.Printf("Created duplicate: %s\n", dup)
		}
	}

	others := map[string]string{
		"video1.mov":  "dummy content for video1.mov",
		"notes.txt":   "not a media file",
		"desktop.ini": "[.ShellClassInfo]",
		"archive.zip": "PK",
	}
	for name, content := range others {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Printf("Error creating %s: %v\n", name, err)
			continue
		}
		fmt.Printf("Created file: %s\n", path)
	}

	fmt.Printf("\nSample folder ready. Try:\n  memorylane find-duplicates %s\n  memorylane rename --dry-run %s\n", dir, dir)
}
