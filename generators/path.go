package generators

import (
	"fmt"

	"medialib/domain/models"
)

// FlatPath is the default key shape: {id}/upload.{ext} for the source and
// {id}/{name}.{ext} for transformations.
type FlatPath struct{}

func NewFlatPath() *FlatPath {
	return &FlatPath{}
}

func (FlatPath) Path(file *models.File, transformation *models.Transformation) string {
	if transformation == nil {
		return fmt.Sprintf("%s/upload.%s", file.ID, file.Extension)
	}
	return fmt.Sprintf("%s/%s.%s", file.ID, transformation.Name, transformation.Extension)
}

// MappedPath preserves the original filename slug in the key:
// {id}/upload/{filename}.{ext} and {id}/{name}/{filename}.{ext}.
type MappedPath struct{}

func NewMappedPath() *MappedPath {
	return &MappedPath{}
}

func (MappedPath) Path(file *models.File, transformation *models.Transformation) string {
	if transformation == nil {
		return fmt.Sprintf("%s/upload/%s.%s", file.ID, file.Filename, file.Extension)
	}
	return fmt.Sprintf("%s/%s/%s.%s", file.ID, transformation.Name, file.Filename, transformation.Extension)
}
