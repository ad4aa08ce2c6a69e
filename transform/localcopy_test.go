package transform

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/generators"
)

// copySourceStore serves one object's bytes for LocalCopy tests.
type copySourceStore struct {
	data    []byte
	readErr error // surfaced mid-stream when set
}

func (s *copySourceStore) Put(ctx context.Context, disk, key string, r io.Reader, contentType string) error {
	return nil
}

func (s *copySourceStore) Get(ctx context.Context, disk, key string) (io.ReadCloser, error) {
	if s.data == nil {
		return nil, ports.ErrObjectNotFound
	}
	if s.readErr != nil {
		return io.NopCloser(&brokenReader{err: s.readErr}), nil
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *copySourceStore) Size(ctx context.Context, disk, key string) (int64, error) {
	return int64(len(s.data)), nil
}

func (s *copySourceStore) Delete(ctx context.Context, disk, key string) error { return nil }

func (s *copySourceStore) DeleteAll(ctx context.Context, disk, prefix string) error { return nil }

type brokenReader struct {
	err error
}

func (r *brokenReader) Read(p []byte) (int, error) { return 0, r.err }

func copyFixtureFile() *models.File {
	return &models.File{
		ID:        uuid.New(),
		Type:      models.TypeImage,
		Disk:      "local",
		Extension: "png",
	}
}

func TestLocalCopyMaterializesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	store := &copySourceStore{data: []byte("upload bytes")}
	file := copyFixtureFile()

	path, cleanup, err := LocalCopy(context.Background(), store, generators.NewFlatPath(), file, dir)
	if err != nil {
		t.Fatalf("LocalCopy returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp copy: %v", err)
	}
	if string(got) != "upload bytes" {
		t.Errorf("temp copy holds %q", got)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("temp copy %q does not keep the source extension", path)
	}

	cleanup()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp copy %q still present after cleanup", path)
	}
}

func TestLocalCopyRemovesTempFileOnCopyFailure(t *testing.T) {
	dir := t.TempDir()
	store := &copySourceStore{data: []byte("x"), readErr: errors.New("stream reset")}
	file := copyFixtureFile()

	if _, _, err := LocalCopy(context.Background(), store, generators.NewFlatPath(), file, dir); err == nil {
		t.Fatal("LocalCopy succeeded on a broken source stream")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir holds %d leftover files after failed copy", len(entries))
	}
}

func TestLocalCopyMissingSource(t *testing.T) {
	store := &copySourceStore{}
	file := copyFixtureFile()

	_, _, err := LocalCopy(context.Background(), store, generators.NewFlatPath(), file, t.TempDir())
	if !errors.Is(err, ports.ErrObjectNotFound) {
		t.Errorf("err = %v, want ErrObjectNotFound", err)
	}
}
