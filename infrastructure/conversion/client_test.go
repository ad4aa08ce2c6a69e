package conversion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"medialib/pkg/config"
)

func testDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.docx")
	if err := os.WriteFile(path, []byte("document bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestClient(serverURL string) *Client {
	return NewClient(config.ConversionConfig{
		BaseURL:      serverURL,
		APIKey:       "test-key",
		Timeout:      2 * time.Second,
		PollInterval: 10 * time.Millisecond,
	})
}

func TestConvertSuccess(t *testing.T) {
	var polls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/convert":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			if got := r.FormValue("target"); got != "pdf" {
				t.Errorf("target = %q, want pdf", got)
			}
			json.NewEncoder(w).Encode(jobStatus{ID: "job-1", Status: "pending"})
		case r.URL.Path == "/jobs/job-1":
			status := "pending"
			if polls.Add(1) >= 2 {
				status = "finished"
			}
			json.NewEncoder(w).Encode(jobStatus{ID: "job-1", Status: status})
		case r.URL.Path == "/jobs/job-1/result":
			w.Write([]byte("%PDF-1.7 converted"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	out, err := client.Convert(context.Background(), testDocument(t), "pdf")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	defer out.Close()

	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "%PDF-1.7 converted" {
		t.Errorf("converted bytes = %q", got)
	}
}

func TestConvertRejectedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/convert":
			json.NewEncoder(w).Encode(jobStatus{ID: "job-2", Status: "pending"})
		case r.URL.Path == "/jobs/job-2":
			json.NewEncoder(w).Encode(jobStatus{ID: "job-2", Status: "failed", Error: "encrypted document"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Convert(context.Background(), testDocument(t), "pdf")
	if !errors.Is(err, ErrConversionFailed) {
		t.Errorf("Convert error = %v, want ErrConversionFailed", err)
	}
}

func TestConvertTimeoutIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/convert":
			json.NewEncoder(w).Encode(jobStatus{ID: "job-3", Status: "pending"})
		case r.URL.Path == "/jobs/job-3":
			// Never finishes.
			json.NewEncoder(w).Encode(jobStatus{ID: "job-3", Status: "processing"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(config.ConversionConfig{
		BaseURL:      server.URL,
		Timeout:      50 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	})

	_, err := client.Convert(context.Background(), testDocument(t), "pdf")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.Is(err, ErrConversionFailed) {
		t.Errorf("timeout reported as permanent failure: %v", err)
	}
}

func TestConvertServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Convert(context.Background(), testDocument(t), "pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrConversionFailed) {
		t.Errorf("server error reported as permanent failure: %v", err)
	}
}
