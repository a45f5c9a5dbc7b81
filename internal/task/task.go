package task

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Unit is one indivisible piece of input work: a PDF page or an image file.
// Index is its position in the final document; Data produces the encoded
// payload and is only invoked right before the remote call, so cache hits
// never pay for rendering or file reads.
type Unit struct {
	Index int
	Label string
	Data  func() (string, error)
}

func DataURI(data []byte, mediaType string) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromImage wraps a single image file as one unit.
func FromImage(path string) (Unit, error) {
	if _, err := os.Stat(path); err != nil {
		return Unit{}, err
	}
	name := filepath.Base(path)
	return Unit{
		Index: 0,
		Label: name,
		Data:  func() (string, error) { return readImage(path) },
	}, nil
}

func readImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DataURI(data, mediaType(path)), nil
}

func mediaType(path string) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = "image/png"
	}
	return mt
}
