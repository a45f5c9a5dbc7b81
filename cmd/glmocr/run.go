package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"glmocr/internal/config"
	"glmocr/internal/ocr"
	"glmocr/internal/ocr/gemini"
	"glmocr/internal/ocr/zhipu"
	"glmocr/internal/pipeline"
)

func runCmd() *cobra.Command {
	var configPath string
	var concurrency int
	var provider string

	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Recognize a PDF, an image, or a folder of images into one Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if concurrency > 0 {
				cfg.MaxConcurrency = concurrency
			}
			if provider != "" {
				cfg.Provider = provider
			}

			if err := checkWritable("."); err != nil {
				return err
			}

			engine, err := buildEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), args[0], pipeline.Config{
				Engine:      engine,
				Concurrency: cfg.MaxConcurrency,
				Output:      cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n📝 OCR finished")
			fmt.Fprintf(out, "📊 token usage: prompt=%d completion=%d total=%d\n",
				res.Usage.PromptTokens, res.Usage.CompletionTokens, res.Usage.TotalTokens)
			if res.Failed > 0 {
				fmt.Fprintf(out, "⚠️  %d of %d unit(s) failed and were left out of the document\n", res.Failed, res.Units)
			}
			fmt.Fprintf(out, "✅ result saved to %s\n", res.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "override max_concurrency from the config")
	cmd.Flags().StringVar(&provider, "provider", "", "override the OCR provider: zhipu|gemini")
	return cmd
}

func buildEngine(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
	switch cfg.Provider {
	case "zhipu":
		return zhipu.New(cfg.APIEndpoint,
			zhipu.WithToken(cfg.APIKey),
			zhipu.WithModel(cfg.ModelName),
			zhipu.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		)
	case "gemini":
		return gemini.New(ctx, cfg.APIKey, cfg.ModelName)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// checkWritable replaces the original tool's environment preflight: the cache
// and result files land in the working directory, so fail before any network
// work if it cannot be written.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".glmocr-*")
	if err != nil {
		return fmt.Errorf("working directory is not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
