// Package assets — список картинок галереи мероприятий.
package assets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const ManifestName = "event-images.json"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// BuildManifest возвращает отсортированные имена картинок каталога.
func BuildManifest(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}

	images := []string{}
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		images = append(images, e.Name())
	}
	sort.Strings(images)
	return images, nil
}

// WriteManifest пересобирает event-images.json в том же каталоге.
func WriteManifest(dir string) ([]string, error) {
	images, err := BuildManifest(dir)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(images, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return nil, errors.Wrap(err, "write manifest")
	}
	return images, nil
}

// ReadManifest читает готовый список; нет файла — пустой список.
func ReadManifest(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var images []string
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, errors.Wrap(err, "decode manifest")
	}
	return images, nil
}
