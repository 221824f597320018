package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Paiza runs code on api.paiza.io's guest API. The remote side is
// asynchronous: create a job, then poll get_details until it completes or
// the attempt budget runs out.
type Paiza struct {
	baseURL      string
	pollInterval time.Duration
	pollAttempts int
	client       *http.Client
}

func NewPaiza(baseURL string, pollInterval time.Duration, pollAttempts int, timeout time.Duration) *Paiza {
	return &Paiza{
		baseURL:      baseURL,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		client:       &http.Client{Timeout: timeout},
	}
}

func (p *Paiza) Name() string { return "paiza" }

type paizaCreateResponse struct {
	ID string `json:"id"`
}

type paizaDetailsResponse struct {
	Status      string `json:"status"`
	Stdout      string `json:"stdout"`
	Stderr      string `json:"stderr"`
	BuildStderr string `json:"build_stderr"`
}

func (p *Paiza) Run(ctx context.Context, language, source string) (*Result, error) {
	lang := language
	if lang == "javascript" {
		lang = "nodejs"
	}

	payload, err := json.Marshal(map[string]string{
		"source_code": source,
		"language":    lang,
		"api_key":     "guest",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/runners/create", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created paizaCreateResponse
	if err := p.do(req, &created); err != nil {
		return nil, fmt.Errorf("paiza create: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("paiza create: no runner id in response")
	}

	for i := 0; i < p.pollAttempts; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}

		detailsURL := fmt.Sprintf("%s/runners/get_details?id=%s&api_key=guest", p.baseURL, url.QueryEscape(created.ID))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
		if err != nil {
			return nil, err
		}

		var details paizaDetailsResponse
		if err := p.do(req, &details); err != nil {
			return nil, fmt.Errorf("paiza poll: %w", err)
		}
		if details.Status == "completed" {
			return normalizePaiza(details), nil
		}
	}

	return nil, fmt.Errorf("paiza: job %s not completed after %d polls", created.ID, p.pollAttempts)
}

func (p *Paiza) do(req *http.Request, out interface{}) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func normalizePaiza(d paizaDetailsResponse) *Result {
	stdout := d.Stdout
	if stdout == "" {
		if d.Stderr != "" {
			stdout = d.Stderr
		} else {
			stdout = d.BuildStderr
		}
	}
	stderr := d.Stderr
	if stderr == "" {
		stderr = d.BuildStderr
	}
	return &Result{Stdout: stdout, Stderr: stderr}
}
