package ocr

import "context"

// Engine recognizes a single image, passed as a data URI, and returns its
// Markdown transcription together with the token usage of the call.
type Engine interface {
	Recognize(ctx context.Context, dataURI string) (*Result, error)
}

type Result struct {
	Markdown string
	Usage    Usage
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TotalUsage sums token counters across all calls of a run. Counters absent
// from a source decode as zero and contribute nothing.
func TotalUsage(usages []Usage) Usage {
	var total Usage
	for _, u := range usages {
		total.PromptTokens += u.PromptTokens
		total.CompletionTokens += u.CompletionTokens
		total.TotalTokens += u.TotalTokens
	}
	return total
}
