package transformers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/generators"
	"medialib/infrastructure/conversion"
	"medialib/pkg/config"
	"medialib/transform"
)

type stubConverter struct {
	output []byte
	err    error
}

func (c *stubConverter) Convert(ctx context.Context, path, targetExtension string) (io.ReadCloser, error) {
	if c.err != nil {
		return nil, c.err
	}
	return io.NopCloser(bytes.NewReader(c.output)), nil
}

func documentFixture(t *testing.T, store *memStore) *models.File {
	t.Helper()
	file := &models.File{
		ID:        uuid.New(),
		Type:      models.TypeDocument,
		Disk:      "local",
		Extension: "docx",
		MimeType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	key := generators.NewFlatPath().Path(file, nil)
	if err := store.Put(context.Background(), "local", key, bytes.NewReader([]byte("docx bytes")), file.MimeType); err != nil {
		t.Fatal(err)
	}
	return file
}

func newDocumentConvert(t *testing.T, store *memStore, converter Converter, cfg config.TransformerConfig) ports.Transformer {
	t.Helper()
	classifier := transform.NewClassifier([]config.FileTypeConfig{
		{Type: "document", Mimes: map[string][]string{"pdf": {"application/pdf"}}},
	})
	factory := NewDocumentConvertFactory(store, generators.NewFlatPath(), converter, classifier, t.TempDir())
	tr, err := factory("preview", cfg)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestDocumentConvertSuccess(t *testing.T) {
	store := newMemStore()
	file := documentFixture(t, store)
	converted := []byte("%PDF-1.7 output")

	tr := newDocumentConvert(t, store, &stubConverter{output: converted}, nil)

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if result.IsSkipped() {
		t.Fatalf("Transform skipped: %s", result.SkipReason)
	}

	got := result.Transformation
	if got.Extension != "pdf" || got.MimeType != "application/pdf" {
		t.Errorf("result format = %s/%s, want pdf", got.MimeType, got.Extension)
	}
	if got.Type != "document" {
		t.Errorf("result type = %q, want document", got.Type)
	}
	if got.Size != int64(len(converted)) || !got.Completed {
		t.Errorf("result size=%d completed=%v", got.Size, got.Completed)
	}

	key := generators.NewFlatPath().Path(file, got)
	stored, err := store.Get(context.Background(), "local", key)
	if err != nil {
		t.Fatalf("result not stored at %s: %v", key, err)
	}
	defer stored.Close()
	data, _ := io.ReadAll(stored)
	if !bytes.Equal(data, converted) {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestDocumentConvertRejectedIsSkipped(t *testing.T) {
	store := newMemStore()
	file := documentFixture(t, store)

	tr := newDocumentConvert(t, store, &stubConverter{err: conversion.ErrConversionFailed}, nil)

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatalf("rejected document must skip, not fail: %v", err)
	}
	if !result.IsSkipped() {
		t.Error("rejected document was not skipped")
	}
}

func TestDocumentConvertTransientFailure(t *testing.T) {
	store := newMemStore()
	file := documentFixture(t, store)

	tr := newDocumentConvert(t, store, &stubConverter{err: errors.New("service unreachable")}, nil)

	if _, err := tr.Transform(context.Background(), file); err == nil {
		t.Error("transient converter failure did not propagate")
	}
}

func TestDocumentConvertCustomExtension(t *testing.T) {
	store := newMemStore()
	file := documentFixture(t, store)

	tr := newDocumentConvert(t, store, &stubConverter{output: []byte("text")}, config.TransformerConfig{"extension": "txt"})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Transformation.Extension; got != "txt" {
		t.Errorf("extension = %q, want txt", got)
	}
}
