package generators

import (
	"testing"

	"github.com/google/uuid"

	"medialib/domain/models"
)

func TestPathGenerators(t *testing.T) {
	id := uuid.MustParse("235cf411-a2ab-4cc2-8da9-d7ddcb4b3b0f")
	file := &models.File{ID: id, Filename: "quarterly-report", Extension: "pdf"}
	preview := &models.Transformation{Name: "preview", Extension: "jpg"}

	tests := []struct {
		name           string
		generator      interface{ Path(*models.File, *models.Transformation) string }
		transformation *models.Transformation
		want           string
	}{
		{"flat upload", NewFlatPath(), nil,
			"235cf411-a2ab-4cc2-8da9-d7ddcb4b3b0f/upload.pdf"},
		{"flat transformation", NewFlatPath(), preview,
			"235cf411-a2ab-4cc2-8da9-d7ddcb4b3b0f/preview.jpg"},
		{"mapped upload", NewMappedPath(), nil,
			"235cf411-a2ab-4cc2-8da9-d7ddcb4b3b0f/upload/quarterly-report.pdf"},
		{"mapped transformation", NewMappedPath(), preview,
			"235cf411-a2ab-4cc2-8da9-d7ddcb4b3b0f/preview/quarterly-report.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.generator.Path(file, tt.transformation); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}
