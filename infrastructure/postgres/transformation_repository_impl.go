package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medialib/domain/models"
	"medialib/domain/repositories"
)

type TransformationRepositoryImpl struct {
	db *gorm.DB
}

func NewTransformationRepository(db *gorm.DB) repositories.TransformationRepository {
	return &TransformationRepositoryImpl{db: db}
}

func (r *TransformationRepositoryImpl) Upsert(ctx context.Context, transformation *models.Transformation) error {
	// Re-running a transformation replaces the previous result for the same
	// (file_id, name) pair.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_id"}, {Name: "name"}},
		UpdateAll: true,
	}).Create(transformation).Error
}

func (r *TransformationRepositoryImpl) GetByFileAndName(ctx context.Context, fileID uuid.UUID, name string) (*models.Transformation, error) {
	var t models.Transformation
	err := r.db.WithContext(ctx).Where("file_id = ? AND name = ?", fileID, name).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransformationRepositoryImpl) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*models.Transformation, error) {
	var ts []*models.Transformation
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).Find(&ts).Error
	return ts, err
}

func (r *TransformationRepositoryImpl) DeleteByFile(ctx context.Context, fileID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&models.Transformation{}).Error
}
