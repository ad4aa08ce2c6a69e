package transform

import (
	"context"
	"fmt"
	"io"
	"os"

	"medialib/domain/models"
	"medialib/domain/ports"
)

// LocalCopy materializes the file's stored upload bytes into a temporary
// local file so transformers can work on a real path regardless of which
// disk backs the file. The returned cleanup func removes the temp file and
// must be called on every exit path.
func LocalCopy(ctx context.Context, store ports.StoragePort, paths ports.PathGenerator, file *models.File, tempDir string) (string, func(), error) {
	key := paths.Path(file, nil)

	src, err := store.Get(ctx, file.Disk, key)
	if err != nil {
		return "", nil, fmt.Errorf("local copy of file %s: %w", file.ID, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(tempDir, "medialib-*."+file.Extension)
	if err != nil {
		return "", nil, fmt.Errorf("local copy of file %s: %w", file.ID, err)
	}

	cleanup := func() { os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("local copy of file %s: %w", file.ID, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("local copy of file %s: %w", file.ID, err)
	}

	return tmp.Name(), cleanup, nil
}
