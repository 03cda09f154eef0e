// Command imagemanifest пересобирает event-images.json для галереи.
//
//	imagemanifest [-dir web/images/events]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"tgpcet-it/internal/assets"
)

func main() {
	logger := log.New(os.Stdout, "MANIFEST : ", log.LstdFlags)

	dir := flag.String("dir", filepath.Join("web", "images", "events"), "Directory with event images.")
	flag.Parse()

	images, err := assets.WriteManifest(*dir)
	if err != nil {
		logger.Fatalf("error: %s", err)
	}

	logger.Printf("%s updated successfully", assets.ManifestName)
	logger.Printf("found %d image(s):", len(images))
	for _, img := range images {
		logger.Printf("   - %s", img)
	}
}
