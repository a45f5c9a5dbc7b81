package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"glmocr/internal/cache"
	"glmocr/internal/ocr"
	"glmocr/internal/task"
	"glmocr/internal/text"
)

const DefaultConcurrency = 10

type Options struct {
	Engine ocr.Engine
	Cache  cache.Store

	// Concurrency bounds the worker pool; DefaultConcurrency when zero.
	Concurrency int

	// Output receives progress lines; discarded when nil.
	Output io.Writer
}

// Run fans units out to a bounded pool and collects completions in arrival
// order. The returned slice holds each unit's normalized text at its own
// index; a failed unit leaves its slot empty and the run continues. Each slot
// has exactly one writer, so only the usage list needs a lock.
func Run(ctx context.Context, units []task.Unit, opts Options) ([]string, []ocr.Usage) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	results := make([]string, len(units))

	var mu sync.Mutex
	var usages []ocr.Usage

	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)

	for _, u := range units {
		g.Go(func() error {
			md, usage, err := runUnit(ctx, u, len(units), opts, out)
			if err != nil {
				slog.Warn("unit failed", "label", u.Label, "error", err)
				fmt.Fprintf(out, "❌ %s failed: %v\n", u.Label, err)
				return nil
			}
			results[u.Index] = md
			mu.Lock()
			usages = append(usages, usage)
			mu.Unlock()
			fmt.Fprintf(out, "✅ %s done\n", u.Label)
			return nil
		})
	}

	// Unit errors never leave their worker, so Wait cannot fail.
	_ = g.Wait()

	return results, usages
}

func runUnit(ctx context.Context, u task.Unit, total int, opts Options, out io.Writer) (string, ocr.Usage, error) {
	if opts.Cache != nil {
		if e, ok := opts.Cache.Lookup(u.Index); ok {
			fmt.Fprintf(out, "♻️  %s read from cache\n", u.Label)
			return e.Text, e.Usage, nil
		}
	}

	dataURI, err := u.Data()
	if err != nil {
		return "", ocr.Usage{}, fmt.Errorf("load data: %w", err)
	}

	fmt.Fprintf(out, "⏳ recognizing %d/%d (%s)...\n", u.Index+1, total, u.Label)

	res, err := opts.Engine.Recognize(ctx, dataURI)
	if err != nil {
		return "", ocr.Usage{}, err
	}

	md := text.Normalize(res.Markdown)

	if opts.Cache != nil {
		if err := opts.Cache.Store(u.Index, &cache.Entry{Text: md, Usage: res.Usage}); err != nil {
			return "", ocr.Usage{}, fmt.Errorf("persist result: %w", err)
		}
	}

	return md, res.Usage, nil
}
