package task

import (
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
	rpdf "rsc.io/pdf"
)

// Pages render at 2x the PDF base resolution of 72 DPI.
const renderDPI = 144

// FromPDF enumerates one unit per page. Page count comes from a cheap pure-Go
// read; rasterization is deferred to each unit's Data call.
func FromPDF(path string) ([]Unit, error) {
	n, err := pageCount(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	units := make([]Unit, 0, n)
	for i := 0; i < n; i++ {
		page := i
		units = append(units, Unit{
			Index: i,
			Label: fmt.Sprintf("Page %d", i+1),
			Data:  func() (string, error) { return renderPage(path, page) },
		})
	}
	return units, nil
}

func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	doc, err := rpdf.NewReader(f, fi.Size())
	if err != nil {
		return 0, err
	}
	return doc.NumPage(), nil
}

// renderPage opens its own document handle: fitz documents are not safe for
// concurrent use, and a handle per render keeps the worker pool lock-free.
func renderPage(path string, page int) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	png, err := doc.ImagePNG(page, renderDPI)
	if err != nil {
		return "", err
	}
	return DataURI(png, "image/png"), nil
}
