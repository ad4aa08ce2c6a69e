package conversion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"medialib/pkg/config"
	"medialib/pkg/logger"
)

// ErrConversionFailed reports that the remote service rejected the document.
// The input will not convert on a retry either.
var ErrConversionFailed = errors.New("conversion: document conversion failed")

const (
	defaultTimeout      = 10 * time.Minute
	defaultPollInterval = 2 * time.Second
)

// Client talks to the external document conversion service. A document is
// uploaded, the job is polled until it settles, and the converted bytes are
// streamed back.
type Client struct {
	baseURL      string
	apiKey       string
	timeout      time.Duration
	pollInterval time.Duration
	http         *http.Client
}

func NewClient(cfg config.ConversionConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		timeout:      timeout,
		pollInterval: interval,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

type jobStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"` // pending, processing, finished, failed
	Error  string `json:"error,omitempty"`
}

// Convert uploads the file at path and returns the converted document. The
// caller owns the returned reader. ErrConversionFailed means the input is bad;
// any other error is worth retrying.
func (c *Client) Convert(ctx context.Context, path, targetExtension string) (io.ReadCloser, error) {
	job, err := c.submit(ctx, path, targetExtension)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx, job); err != nil {
		return nil, err
	}

	return c.download(ctx, job)
}

func (c *Client) submit(ctx context.Context, path, targetExtension string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("conversion: open input: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("target", targetExtension); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", pr)
	if err != nil {
		return "", fmt.Errorf("conversion: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("conversion: submit job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("conversion: submit job: unexpected status %d", resp.StatusCode)
	}

	var job jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("conversion: decode job: %w", err)
	}
	if job.ID == "" {
		return "", errors.New("conversion: service returned no job id")
	}
	return job.ID, nil
}

// wait polls the job until it finishes, fails, or the deadline passes.
func (c *Client) wait(ctx context.Context, jobID string) error {
	deadline := time.Now().Add(c.timeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.status(ctx, jobID)
		if err != nil {
			return err
		}

		switch status.Status {
		case "finished":
			return nil
		case "failed":
			logger.Warn("conversion rejected document", "job_id", jobID, "reason", status.Error)
			return ErrConversionFailed
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("conversion: job %s did not finish within %s", jobID, c.timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) status(ctx context.Context, jobID string) (*jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("conversion: build status request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion: poll job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversion: poll job: unexpected status %d", resp.StatusCode)
	}

	var status jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("conversion: decode status: %w", err)
	}
	return &status, nil
}

func (c *Client) download(ctx context.Context, jobID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID+"/result", nil)
	if err != nil {
		return nil, fmt.Errorf("conversion: build result request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion: fetch result: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("conversion: fetch result: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
