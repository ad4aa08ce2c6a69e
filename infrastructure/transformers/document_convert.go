package transformers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"

	"medialib/domain/models"
	"medialib/domain/ports"
	"medialib/infrastructure/conversion"
	"medialib/pkg/config"
	"medialib/transform"
)

// Converter is the slice of the conversion client the transformer needs.
type Converter interface {
	Convert(ctx context.Context, path, targetExtension string) (io.ReadCloser, error)
}

// DocumentConvert sends a document to the external conversion service and
// stores the converted artifact.
//
// Config keys:
//
//	extension  target format (default "pdf")
type DocumentConvert struct {
	name       string
	cfg        config.TransformerConfig
	store      ports.StoragePort
	paths      ports.PathGenerator
	converter  Converter
	classifier *transform.Classifier
	tempDir    string
}

// NewDocumentConvertFactory returns the registry factory for "document.convert".
func NewDocumentConvertFactory(
	store ports.StoragePort,
	paths ports.PathGenerator,
	converter Converter,
	classifier *transform.Classifier,
	tempDir string,
) transform.TransformerFactory {
	return func(name string, cfg config.TransformerConfig) (ports.Transformer, error) {
		return &DocumentConvert{
			name:       name,
			cfg:        cfg,
			store:      store,
			paths:      paths,
			converter:  converter,
			classifier: classifier,
			tempDir:    tempDir,
		}, nil
	}
}

func (t *DocumentConvert) Transform(ctx context.Context, file *models.File) (*ports.TransformResult, error) {
	extension := t.cfg.String("extension", "pdf")

	path, cleanup, err := transform.LocalCopy(ctx, t.store, t.paths, file, t.tempDir)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	converted, err := t.converter.Convert(ctx, path, extension)
	if err != nil {
		if errors.Is(err, conversion.ErrConversionFailed) {
			// The service rejected the input; retrying cannot help.
			return ports.Skipped("conversion service rejected the document"), nil
		}
		return nil, fmt.Errorf("transformer %q: convert document: %w", t.name, err)
	}
	defer converted.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, converted); err != nil {
		return nil, fmt.Errorf("transformer %q: read converted document: %w", t.name, err)
	}

	mimeType := mime.TypeByExtension("." + extension)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileType := models.TypeDocument
	if classified, ok := t.classifier.Classify(mimeType, extension); ok {
		fileType = classified
	}

	result := &models.Transformation{
		Name:      t.name,
		Type:      fileType,
		MimeType:  mimeType,
		Extension: extension,
		Size:      int64(buf.Len()),
		Completed: true,
	}
	result.FileID = file.ID

	if err := t.store.Put(ctx, file.Disk, t.paths.Path(file, result), &buf, mimeType); err != nil {
		return nil, fmt.Errorf("transformer %q: store result: %w", t.name, err)
	}

	return ports.Done(result), nil
}
