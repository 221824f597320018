package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Piston runs code on the public emkc.org Piston instance. The endpoint is
// rate-limited for anonymous clients, so requests carry the same headers
// the emkc website itself sends.
type Piston struct {
	url    string
	client *http.Client
}

func NewPiston(url string, timeout time.Duration) *Piston {
	return &Piston{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Piston) Name() string { return "piston" }

type pistonFile struct {
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
}

type pistonResponse struct {
	Run *struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Output string `json:"output"`
	} `json:"run"`
	Message string `json:"message"`
}

func (p *Piston) Run(ctx context.Context, language, source string) (*Result, error) {
	payload, err := json.Marshal(pistonRequest{
		Language: language,
		Version:  "*",
		Files:    []pistonFile{{Content: source}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://emkc.org/")
	req.Header.Set("Origin", "https://emkc.org")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("piston: unexpected status %d", resp.StatusCode)
	}

	var body pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("piston: decode response: %w", err)
	}
	if body.Run == nil {
		return nil, fmt.Errorf("piston: malformed response: %s", body.Message)
	}

	stdout := body.Run.Stdout
	if stdout == "" {
		stdout = body.Run.Output
	}
	return &Result{Stdout: stdout, Stderr: body.Run.Stderr}, nil
}
