package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"glmocr/internal/ocr"
)

var _ ocr.Engine = &Client{}

type Client struct {
	client *http.Client

	url   string
	token string

	model string
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("missing api endpoint")
	}

	c := &Client{
		client: &http.Client{Timeout: defaultTimeout},

		url: url,

		model: "glm-ocr",
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

type request struct {
	Model string `json:"model"`
	File  string `json:"file"`
}

type response struct {
	Results string    `json:"md_results"`
	Usage   ocr.Usage `json:"usage"`
}

func (c *Client) Recognize(ctx context.Context, dataURI string) (*ocr.Result, error) {
	body, _ := json.Marshal(request{Model: c.model, File: dataURI})

	req, _ := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var r response

	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}

	return &ocr.Result{Markdown: r.Results, Usage: r.Usage}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return fmt.Errorf("request failed [%d]: %s", resp.StatusCode, data)
}
