package udparser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/relation-engine/internal/platform/envutil"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

// Client talks to a UDPipe-compatible sidecar that turns raw section text
// into a CoNLL-U dependency annotation. The engine core never calls this;
// it runs once per unannotated section before pair processing starts.
type Client interface {
	Parse(ctx context.Context, text, language string) (string, error)
}

type httpClient struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
	model   string
}

// NewFromEnv returns nil (not an error) when UDPARSER_URL is unset, in
// which case only pre-annotated sections can be processed.
func NewFromEnv(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("udparser: logger required")
	}
	base := envutil.Str("UDPARSER_URL", "")
	if base == "" {
		return nil, nil
	}
	timeout := time.Duration(envutil.Int("UDPARSER_TIMEOUT_SECONDS", 30)) * time.Second
	return &httpClient{
		log:     log.With("client", "UDParser"),
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(base, "/"),
		model:   envutil.Str("UDPARSER_MODEL", ""),
	}, nil
}

type parseResponse struct {
	Result string `json:"result"`
}

func (c *httpClient) Parse(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("udparser: empty text")
	}

	form := url.Values{}
	form.Set("data", text)
	form.Set("tokenizer", "ranges")
	form.Set("tagger", "")
	form.Set("parser", "")
	model := c.model
	if model == "" && language != "" {
		model = language
	}
	if model != "" {
		form.Set("model", model)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("udparser: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("udparser: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("udparser: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out parseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("udparser: decode response: %w", err)
	}
	if strings.TrimSpace(out.Result) == "" {
		return "", fmt.Errorf("udparser: empty parse result")
	}
	return out.Result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
