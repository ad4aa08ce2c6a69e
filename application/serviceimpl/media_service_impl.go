package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	// Dimension probing accepts the same formats the resize transformer does.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/domain/repositories"
	"medialib/domain/services"
	"medialib/pkg/config"
	"medialib/transform"
)

// requester is the slice of the dispatcher the service needs.
type requester interface {
	Request(ctx context.Context, file *models.File, name string) error
	RequestAll(ctx context.Context, file *models.File) error
}

type MediaServiceImpl struct {
	cfg             *config.Config
	files           repositories.FileRepository
	transformations repositories.TransformationRepository
	store           ports.StoragePort
	paths           ports.PathGenerator
	urls            ports.URLGenerator
	queue           ports.JobQueuePort
	dispatcher      requester
	classifier      *transform.Classifier
	http            *http.Client
	log             *slog.Logger
}

func NewMediaService(
	cfg *config.Config,
	files repositories.FileRepository,
	transformations repositories.TransformationRepository,
	store ports.StoragePort,
	paths ports.PathGenerator,
	urls ports.URLGenerator,
	queue ports.JobQueuePort,
	dispatcher *transform.Dispatcher,
	classifier *transform.Classifier,
) services.MediaService {
	return &MediaServiceImpl{
		cfg:             cfg,
		files:           files,
		transformations: transformations,
		store:           store,
		paths:           paths,
		urls:            urls,
		queue:           queue,
		dispatcher:      dispatcher,
		classifier:      classifier,
		http:            http.DefaultClient,
		log:             slog.Default().With("component", "media-service"),
	}
}

func (s *MediaServiceImpl) Upload(ctx context.Context, upload *ports.Upload, opts services.UploadOptions) (*models.File, error) {
	extension := normalizeExtension(filepath.Ext(upload.OriginalName))

	fileType, mimeType, ok := s.classify(upload, extension)
	if !ok {
		return nil, fmt.Errorf("%w: mime %q, extension %q",
			services.ErrUnsupportedFileType, upload.DetectedMime, extension)
	}

	disk := opts.Disk
	if disk == "" {
		disk = s.cfg.DefaultDisk
	}
	if _, ok := s.cfg.Disk(disk); !ok {
		return nil, fmt.Errorf("media: unknown disk %q", disk)
	}

	group := opts.Group
	if group == "" {
		group = models.DefaultGroup
	}

	baseName := strings.TrimSuffix(upload.OriginalName, filepath.Ext(upload.OriginalName))
	name := opts.Name
	if name == "" {
		name = baseName
	}

	file := &models.File{
		ID:        uuid.New(),
		Type:      fileType,
		Disk:      disk,
		Name:      name,
		Filename:  slug.Make(baseName),
		Extension: extension,
		MimeType:  mimeType,
		Group:     group,
		IsHidden:  opts.Hidden,
		OwnerID:   opts.OwnerID,
		UserID:    opts.UserID,
	}

	if file.IsImage() {
		s.probeDimensions(file, upload.Content)
	}

	key := s.paths.Path(file, nil)
	if err := s.store.Put(ctx, disk, key, upload.Content, mimeType); err != nil {
		return nil, fmt.Errorf("media: store upload: %w", err)
	}

	size, err := s.store.Size(ctx, disk, key)
	if err != nil {
		return nil, fmt.Errorf("media: verify upload: %w", err)
	}
	if size <= 1 {
		// Nothing usable landed in the store; remove the stub.
		if err := s.store.Delete(ctx, disk, key); err != nil {
			s.log.Warn("failed to remove empty upload", "key", key, "error", err)
		}
		return nil, services.ErrEmptyUpload
	}

	file.Size = size
	file.Completed = true

	if err := s.files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("media: save file record: %w", err)
	}

	s.log.Info("file uploaded",
		"file_id", file.ID,
		"type", file.Type,
		"mime", file.MimeType,
		"size", file.Size,
		"group", file.Group,
	)

	// Queued jobs retry on their own; immediate failures are logged and the
	// transformation can be re-requested later.
	if err := s.dispatcher.RequestAll(ctx, file); err != nil {
		s.log.Error("transformation group failed", "file_id", file.ID, "error", err)
	}

	return file, nil
}

func (s *MediaServiceImpl) UploadFromURL(ctx context.Context, rawURL, authToken string, opts services.UploadOptions) (*models.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("media: build download request: %w", err)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: download %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media: download %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(s.cfg.TempDir, "medialib-download-*")
	if err != nil {
		return nil, fmt.Errorf("media: create temp download: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("media: download %q: %w", rawURL, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("media: rewind download: %w", err)
	}

	detected, err := sniffMime(tmp)
	if err != nil {
		return nil, fmt.Errorf("media: sniff download: %w", err)
	}

	upload := &ports.Upload{
		OriginalName: path.Base(req.URL.Path),
		ClientMime:   mimeOnly(resp.Header.Get("Content-Type")),
		DetectedMime: detected,
		Size:         size,
		Content:      tmp,
	}

	return s.Upload(ctx, upload, opts)
}

func (s *MediaServiceImpl) Get(ctx context.Context, fileID uuid.UUID) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrFileNotFound
		}
		return nil, fmt.Errorf("media: load file %s: %w", fileID, err)
	}
	return file, nil
}

func (s *MediaServiceImpl) RequestTransformation(ctx context.Context, fileID uuid.UUID, name string) error {
	file, err := s.Get(ctx, fileID)
	if err != nil {
		return err
	}
	return s.dispatcher.Request(ctx, file, name)
}

func (s *MediaServiceImpl) FileURL(ctx context.Context, file *models.File, name string) (string, error) {
	if name == "" {
		if !file.Completed {
			// No fallback is configured for the upload itself.
			return "", nil
		}
		return s.urls.URL(ctx, file, nil, ports.URLOptions{})
	}

	t, err := s.transformations.GetByFileAndName(ctx, file.ID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.fallbackURL(file, name), nil
		}
		return "", fmt.Errorf("media: load transformation %q: %w", name, err)
	}
	if !t.Completed {
		return s.fallbackURL(file, name), nil
	}

	return s.urls.URL(ctx, file, t, ports.URLOptions{})
}

func (s *MediaServiceImpl) PreviewURL(ctx context.Context, file *models.File) (string, error) {
	if file.IsImage() {
		return s.urls.URL(ctx, file, nil, ports.URLOptions{})
	}
	return s.urls.URL(ctx, file, nil, ports.URLOptions{FullPreview: true})
}

func (s *MediaServiceImpl) DownloadURL(ctx context.Context, file *models.File) (string, error) {
	return s.urls.URL(ctx, file, nil, ports.URLOptions{Download: true})
}

func (s *MediaServiceImpl) Delete(ctx context.Context, fileID uuid.UUID) error {
	file, err := s.Get(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("media: delete file %s: %w", fileID, err)
	}

	// Storage cleanup runs asynchronously and is idempotent, so a crash
	// between the row delete and the publish only delays it.
	if err := s.queue.PublishDelete(ctx, &ports.DeleteJobData{
		FileID: fileID.String(),
		Disk:   file.Disk,
	}); err != nil {
		return fmt.Errorf("media: schedule cleanup for %s: %w", fileID, err)
	}

	s.log.Info("file deleted", "file_id", fileID, "disk", file.Disk)
	return nil
}

// classify resolves the logical type, trying MIME candidates in the
// configured trust order. The matched MIME is what gets persisted.
func (s *MediaServiceImpl) classify(upload *ports.Upload, extension string) (string, string, bool) {
	var candidates []string
	if s.cfg.TrustClientMime {
		candidates = []string{upload.ClientMime, upload.DetectedMime}
	} else {
		candidates = []string{upload.DetectedMime}
		if s.cfg.ClientMimeFallback {
			candidates = append(candidates, upload.ClientMime)
		}
	}

	for _, mimeType := range candidates {
		if mimeType == "" {
			continue
		}
		if fileType, ok := s.classifier.Classify(mimeType, extension); ok {
			return fileType, mimeType, true
		}
	}
	return "", "", false
}

// probeDimensions fills Width/Height from the image header. Probing is best
// effort; a file that classified as an image but does not decode keeps zero
// dimensions.
func (s *MediaServiceImpl) probeDimensions(file *models.File, content io.ReadSeeker) {
	cfg, _, err := image.DecodeConfig(content)
	if err != nil {
		s.log.Warn("cannot probe image dimensions", "file_id", file.ID, "error", err)
	} else {
		file.Width = cfg.Width
		file.Height = cfg.Height
	}

	if _, err := content.Seek(0, io.SeekStart); err != nil {
		s.log.Warn("cannot rewind upload after probing", "file_id", file.ID, "error", err)
	}
}

func (s *MediaServiceImpl) fallbackURL(file *models.File, name string) string {
	ft := s.cfg.FileType(file.Type)
	if ft == nil {
		return ""
	}
	return ft.Defaults[name]
}

func sniffMime(r io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := r.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mimeOnly(http.DetectContentType(head[:n])), nil
}

// mimeOnly strips parameters like "; charset=utf-8".
func mimeOnly(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
