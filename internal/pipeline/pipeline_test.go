package pipeline_test

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"glmocr/internal/ocr"
	"glmocr/internal/pipeline"
)

type engineFunc func(ctx context.Context, dataURI string) (*ocr.Result, error)

func (f engineFunc) Recognize(ctx context.Context, dataURI string) (*ocr.Result, error) {
	return f(ctx, dataURI)
}

// echoEngine transcribes an image to "text of <payload>" so tests can assert
// on document content without a real OCR service.
func echoEngine() engineFunc {
	return func(ctx context.Context, dataURI string) (*ocr.Result, error) {
		return &ocr.Result{
			Markdown: "text of " + payload(dataURI),
			Usage:    ocr.Usage{PromptTokens: 2, CompletionTokens: 1, TotalTokens: 3},
		}, nil
	}
}

// payload runs inside worker goroutines, so it cannot use require.
func payload(dataURI string) string {
	_, b64, ok := strings.Cut(dataURI, ";base64,")
	if !ok {
		panic("not a data uri: " + dataURI)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func imageDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scans")
	require.NoError(t, os.Mkdir(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestRunDirectory(t *testing.T) {
	input := imageDir(t, map[string]string{"b.png": "B", "a.png": "A"})
	work := t.TempDir()

	res, err := pipeline.Run(context.Background(), input, pipeline.Config{
		Engine:  echoEngine(),
		WorkDir: work,
	})
	require.NoError(t, err)

	want := "### a.png\n\ntext of A\n\n---\n\n### b.png\n\ntext of B"
	require.Equal(t, want, res.Markdown)
	require.Equal(t, 2, res.Units)
	require.Zero(t, res.Failed)
	require.Equal(t, ocr.Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6}, res.Usage)

	written, err := os.ReadFile(filepath.Join(work, "scans_ocr_result.md"))
	require.NoError(t, err)
	require.Equal(t, want, string(written))
}

func TestRunDirectoryPartialFailure(t *testing.T) {
	input := imageDir(t, map[string]string{"a.png": "A", "b.png": "B", "c.png": "C"})
	work := t.TempDir()

	engine := engineFunc(func(ctx context.Context, dataURI string) (*ocr.Result, error) {
		if payload(dataURI) == "C" {
			return nil, errors.New("service unavailable")
		}
		return echoEngine()(ctx, dataURI)
	})

	res, err := pipeline.Run(context.Background(), input, pipeline.Config{
		Engine:  engine,
		WorkDir: work,
	})
	require.NoError(t, err)

	require.Equal(t, "### a.png\n\ntext of A\n\n---\n\n### b.png\n\ntext of B", res.Markdown)
	require.Equal(t, 1, res.Failed)
	// only the two successful units contribute usage
	require.Equal(t, ocr.Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6}, res.Usage)
}

func TestRunRerunsFromCache(t *testing.T) {
	input := imageDir(t, map[string]string{"a.png": "A", "b.png": "B"})
	work := t.TempDir()

	cfg := pipeline.Config{Engine: echoEngine(), WorkDir: work}

	first, err := pipeline.Run(context.Background(), input, cfg)
	require.NoError(t, err)

	// second run with the network gone must reproduce the document from cache
	cfg.Engine = engineFunc(func(ctx context.Context, dataURI string) (*ocr.Result, error) {
		return nil, errors.New("network unreachable")
	})

	second, err := pipeline.Run(context.Background(), input, cfg)
	require.NoError(t, err)
	require.Equal(t, first.Markdown, second.Markdown)
	require.Equal(t, first.Usage, second.Usage)
	require.Zero(t, second.Failed)
}

func TestRunSingleImage(t *testing.T) {
	dir := imageDir(t, map[string]string{"photo.png": "P"})
	work := t.TempDir()

	res, err := pipeline.Run(context.Background(), filepath.Join(dir, "photo.png"), pipeline.Config{
		Engine:  echoEngine(),
		WorkDir: work,
	})
	require.NoError(t, err)
	require.Equal(t, "text of P", res.Markdown)
	require.Equal(t, filepath.Join(work, "photo_ocr_result.md"), res.OutputPath)

	// single images bypass the cache layer
	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRunEmptyDirectory(t *testing.T) {
	input := imageDir(t, nil)

	_, err := pipeline.Run(context.Background(), input, pipeline.Config{
		Engine:  echoEngine(),
		WorkDir: t.TempDir(),
	})
	require.Error(t, err)
}

func TestRunMissingPath(t *testing.T) {
	_, err := pipeline.Run(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), pipeline.Config{
		Engine: echoEngine(),
	})
	require.Error(t, err)
}
