package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"glmocr/internal/batch"
	"glmocr/internal/cache"
	"glmocr/internal/ocr"
	"glmocr/internal/task"
	"glmocr/internal/text"
)

type Config struct {
	Engine      ocr.Engine
	Concurrency int

	// WorkDir hosts the cache directory and the result file; the current
	// directory when empty.
	WorkDir string

	// Output receives progress lines; discarded when nil.
	Output io.Writer
}

type Result struct {
	Markdown   string
	Usage      ocr.Usage
	OutputPath string

	Units  int
	Failed int
}

// Run converts the file or directory at input into one Markdown document,
// written as <stem>_ocr_result.md under the working directory.
func Run(ctx context.Context, input string, cfg Config) (*Result, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}

	switch {
	case info.IsDir():
		return runBatch(ctx, input, filepath.Base(input), true, cfg, out)
	case strings.EqualFold(filepath.Ext(input), ".pdf"):
		return runBatch(ctx, input, stem(input), false, cfg, out)
	default:
		return runImage(ctx, input, cfg, out)
	}
}

func runBatch(ctx context.Context, input, name string, labeled bool, cfg Config, out io.Writer) (*Result, error) {
	var units []task.Unit
	var err error

	if labeled {
		units, err = task.FromDir(input)
		if err == nil {
			fmt.Fprintf(out, "📸 folder mode: %s, %d image(s)\n", name, len(units))
		}
	} else {
		units, err = task.FromPDF(input)
		if err == nil {
			fmt.Fprintf(out, "🚀 pdf mode: %s, %d page(s)\n", name, len(units))
		}
	}
	if err != nil {
		return nil, err
	}

	store, err := cache.Dir(filepath.Join(cfg.WorkDir, "."+name+"_cache"))
	if err != nil {
		return nil, err
	}

	results, usages := batch.Run(ctx, units, batch.Options{
		Engine:      cfg.Engine,
		Cache:       store,
		Concurrency: cfg.Concurrency,
		Output:      out,
	})

	var md string
	if labeled {
		labels := make([]string, len(units))
		for i, u := range units {
			labels[i] = u.Label
		}
		md = text.MergeLabeled(results, labels)
	} else {
		md = text.MergeFlow(results)
	}

	res := &Result{
		Markdown: md,
		Usage:    ocr.TotalUsage(usages),
		Units:    len(units),
		Failed:   len(units) - len(usages),
	}
	if err := writeResult(res, name, cfg.WorkDir); err != nil {
		return nil, err
	}
	return res, nil
}

// runImage converts a single image directly, without the cache layer.
func runImage(ctx context.Context, input string, cfg Config, out io.Writer) (*Result, error) {
	unit, err := task.FromImage(input)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "🔍 recognizing image %s...\n", unit.Label)

	dataURI, err := unit.Data()
	if err != nil {
		return nil, err
	}
	r, err := cfg.Engine.Recognize(ctx, dataURI)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Markdown: text.Normalize(r.Markdown),
		Usage:    r.Usage,
		Units:    1,
	}
	if err := writeResult(res, stem(input), cfg.WorkDir); err != nil {
		return nil, err
	}
	return res, nil
}

func writeResult(res *Result, name, dir string) error {
	res.OutputPath = filepath.Join(dir, name+"_ocr_result.md")
	return os.WriteFile(res.OutputPath, []byte(res.Markdown), 0o644)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
