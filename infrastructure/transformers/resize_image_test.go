package transformers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/google/uuid"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/generators"
	"medialib/pkg/config"
)

// memStore is an in-memory ports.StoragePort for transformer tests.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) key(disk, key string) string { return disk + "\x00" + key }

func (s *memStore) Put(ctx context.Context, disk, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[s.key(disk, key)] = data
	return nil
}

func (s *memStore) Get(ctx context.Context, disk, key string) (io.ReadCloser, error) {
	data, ok := s.objects[s.key(disk, key)]
	if !ok {
		return nil, ports.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Size(ctx context.Context, disk, key string) (int64, error) {
	data, ok := s.objects[s.key(disk, key)]
	if !ok {
		return 0, ports.ErrObjectNotFound
	}
	return int64(len(data)), nil
}

func (s *memStore) Delete(ctx context.Context, disk, key string) error {
	delete(s.objects, s.key(disk, key))
	return nil
}

func (s *memStore) DeleteAll(ctx context.Context, disk, prefix string) error {
	for k := range s.objects {
		if len(k) >= len(disk)+1+len(prefix) && k[:len(disk)+1+len(prefix)] == disk+"\x00"+prefix {
			delete(s.objects, k)
		}
	}
	return nil
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func imageFixture(t *testing.T, store *memStore, width, height int) *models.File {
	t.Helper()
	file := &models.File{
		ID:        uuid.New(),
		Type:      models.TypeImage,
		Disk:      "local",
		Extension: "png",
		MimeType:  "image/png",
		Width:     width,
		Height:    height,
	}
	key := generators.NewFlatPath().Path(file, nil)
	if err := store.Put(context.Background(), "local", key, bytes.NewReader(pngBytes(t, width, height)), "image/png"); err != nil {
		t.Fatal(err)
	}
	return file
}

func newResize(t *testing.T, store *memStore, cfg config.TransformerConfig) ports.Transformer {
	t.Helper()
	factory := NewResizeImageFactory(store, generators.NewFlatPath(), t.TempDir())
	tr, err := factory("thumb", cfg)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestResizeImageFit(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 400, 300)

	tr := newResize(t, store, config.TransformerConfig{"width": 100, "height": 50, "fit": true})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if result.IsSkipped() {
		t.Fatalf("Transform skipped: %s", result.SkipReason)
	}

	got := result.Transformation
	if got.Width != 100 || got.Height != 50 {
		t.Errorf("result dimensions = %dx%d, want 100x50", got.Width, got.Height)
	}
	if got.MimeType != "image/png" || got.Extension != "png" {
		t.Errorf("result format = %s/%s, want png", got.MimeType, got.Extension)
	}
	if got.Size <= 0 || !got.Completed {
		t.Errorf("result size=%d completed=%v", got.Size, got.Completed)
	}

	key := generators.NewFlatPath().Path(file, got)
	if _, err := store.Size(context.Background(), "local", key); err != nil {
		t.Errorf("result not stored at %s: %v", key, err)
	}
}

func TestResizeImageBounded(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 400, 300)

	tr := newResize(t, store, config.TransformerConfig{"width": 100, "height": 100})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	got := result.Transformation
	if got.Width != 100 || got.Height != 75 {
		t.Errorf("result dimensions = %dx%d, want 100x75 (aspect preserved)", got.Width, got.Height)
	}
}

func TestResizeImageNoUpsize(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 200, 150)

	tr := newResize(t, store, config.TransformerConfig{"width": 800, "height": 800, "upsize": false})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	got := result.Transformation
	if got.Width != 200 || got.Height != 150 {
		t.Errorf("small image was upsized to %dx%d", got.Width, got.Height)
	}
}

func TestResizeImageUpsizesByDefault(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 100, 100)

	// The stock thumb shape: fill a 250x250 box, no upsize key.
	tr := newResize(t, store, config.TransformerConfig{
		"fit":  true,
		"size": map[string]any{"w": 250, "h": 250},
	})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	got := result.Transformation
	if got.Width != 250 || got.Height != 250 {
		t.Errorf("result dimensions = %dx%d, want 250x250 (small sources grow unless upsize is off)", got.Width, got.Height)
	}
}

func TestResizeImageExactWithoutAspect(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 400, 100)

	tr := newResize(t, store, config.TransformerConfig{
		"aspect": false,
		"size":   map[string]any{"w": 200, "h": 200},
	})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	got := result.Transformation
	if got.Width != 200 || got.Height != 200 {
		t.Errorf("result dimensions = %dx%d, want exact 200x200", got.Width, got.Height)
	}
}

func TestResizeImageFitWithoutUpsizeCrops(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 150, 100)

	tr := newResize(t, store, config.TransformerConfig{
		"fit":    true,
		"upsize": false,
		"size":   map[string]any{"w": 200, "h": 100},
	})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	// The box ratio still applies, but the crop is not scaled up.
	got := result.Transformation
	if got.Width != 150 || got.Height != 75 {
		t.Errorf("result dimensions = %dx%d, want 150x75", got.Width, got.Height)
	}
}

func TestResizeImageDefaultOverwritesUpload(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 400, 300)
	uploadKey := generators.NewFlatPath().Path(file, nil)
	before, _ := store.Size(context.Background(), "local", uploadKey)

	tr := newResize(t, store, config.TransformerConfig{"width": 100, "height": 100, "default": true})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	after, err := store.Size(context.Background(), "local", uploadKey)
	if err != nil {
		t.Fatal(err)
	}
	if after == before {
		t.Error("default resize did not overwrite the upload key")
	}
	if after != result.Transformation.Size {
		t.Errorf("stored %d bytes, result reports %d", after, result.Transformation.Size)
	}
}

func TestResizeImageSkipsNonImages(t *testing.T) {
	store := newMemStore()
	tr := newResize(t, store, config.TransformerConfig{"width": 100})

	file := &models.File{ID: uuid.New(), Type: models.TypeDocument, Disk: "local", Extension: "pdf"}

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsSkipped() {
		t.Error("non-image was not skipped")
	}
}

func TestResizeImageSkipsUndecodableBytes(t *testing.T) {
	store := newMemStore()
	file := &models.File{
		ID: uuid.New(), Type: models.TypeImage, Disk: "local",
		Extension: "png", MimeType: "image/png",
	}
	key := generators.NewFlatPath().Path(file, nil)
	if err := store.Put(context.Background(), "local", key, bytes.NewReader([]byte("not an image")), "image/png"); err != nil {
		t.Fatal(err)
	}

	tr := newResize(t, store, config.TransformerConfig{"width": 100})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatalf("undecodable bytes must skip, not fail: %v", err)
	}
	if !result.IsSkipped() {
		t.Error("undecodable image was not skipped")
	}
}

func TestResizeImageMissingSourceIsTransient(t *testing.T) {
	store := newMemStore()
	tr := newResize(t, store, config.TransformerConfig{"width": 100})

	file := &models.File{ID: uuid.New(), Type: models.TypeImage, Disk: "local", Extension: "png"}

	if _, err := tr.Transform(context.Background(), file); err == nil {
		t.Error("missing source bytes did not fail")
	}
}

func TestResizeImageSizeBlock(t *testing.T) {
	store := newMemStore()
	file := imageFixture(t, store, 400, 300)

	tr := newResize(t, store, config.TransformerConfig{
		"fit":  true,
		"size": map[string]any{"w": 250, "h": 250},
	})

	result, err := tr.Transform(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}

	got := result.Transformation
	if got.Width != 250 || got.Height != 250 {
		t.Errorf("result dimensions = %dx%d, want 250x250", got.Width, got.Height)
	}
}

func TestResizeImageFactoryRequiresDimensions(t *testing.T) {
	factory := NewResizeImageFactory(newMemStore(), generators.NewFlatPath(), t.TempDir())

	if _, err := factory("thumb", config.TransformerConfig{}); err == nil {
		t.Error("factory accepted a config without dimensions")
	}
}
