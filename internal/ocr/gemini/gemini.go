package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"glmocr/internal/ocr"
)

const transcribePrompt = `Transcribe this page into clean Markdown. ` +
	`Preserve headings, lists and tables. Return ONLY the Markdown content - ` +
	"DO NOT wrap your response in ```markdown or ``` code fences."

var _ ocr.Engine = &Client{}

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing api key")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Client{client: c, model: model}, nil
}

func (c *Client) Recognize(ctx context.Context, dataURI string) (*ocr.Result, error) {
	mediaType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	content := &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: transcribePrompt},
			{InlineData: &genai.Blob{MIMEType: mediaType, Data: data}},
		},
	}
	res, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{content}, nil)
	if err != nil {
		return nil, err
	}

	var usage ocr.Usage
	if m := res.UsageMetadata; m != nil {
		usage = ocr.Usage{
			PromptTokens:     int(m.PromptTokenCount),
			CompletionTokens: int(m.CandidatesTokenCount),
			TotalTokens:      int(m.TotalTokenCount),
		}
	}
	return &ocr.Result{Markdown: stripCodeFences(res.Text()), Usage: usage}, nil
}

func decodeDataURI(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri: %.32q", s)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri: %.32q", s)
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	if mediaType == "" {
		mediaType = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mediaType, data, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
