package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrNoImages = errors.New("no supported image files")

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".webp"}

// FromDir enumerates one unit per supported image file, in lexicographic
// filename order.
func FromDir(path string) ([]Unit, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var units []Unit
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(imageExtensions, ext) {
			continue
		}
		file := filepath.Join(path, e.Name())
		units = append(units, Unit{
			Index: len(units),
			Label: e.Name(),
			Data:  func() (string, error) { return readImage(file) },
		})
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, path)
	}
	return units, nil
}
