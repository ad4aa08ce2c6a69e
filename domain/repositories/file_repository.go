package repositories

import (
	"context"

	"github.com/google/uuid"

	"medialib/domain/models"
)

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	Update(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByGroup(ctx context.Context, group string, offset, limit int) ([]*models.File, error)
	ListByType(ctx context.Context, fileType string, offset, limit int) ([]*models.File, error)
	Count(ctx context.Context) (int64, error)
}
