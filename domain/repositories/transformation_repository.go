package repositories

import (
	"context"

	"github.com/google/uuid"

	"medialib/domain/models"
)

type TransformationRepository interface {
	// Upsert replaces any existing row with the same (file_id, name).
	Upsert(ctx context.Context, transformation *models.Transformation) error
	GetByFileAndName(ctx context.Context, fileID uuid.UUID, name string) (*models.Transformation, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*models.Transformation, error)
	DeleteByFile(ctx context.Context, fileID uuid.UUID) error
}
