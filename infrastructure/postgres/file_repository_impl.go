package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medialib/domain/models"
	"medialib/domain/repositories"
)

type FileRepositoryImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) repositories.FileRepository {
	return &FileRepositoryImpl{db: db}
}

func (r *FileRepositoryImpl) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Preload("Transformations").Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) Update(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Save(file).Error
}

func (r *FileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{}).Error
}

func (r *FileRepositoryImpl) ListByGroup(ctx context.Context, group string, offset, limit int) ([]*models.File, error) {
	var files []*models.File
	err := r.db.WithContext(ctx).Where("\"group\" = ?", group).Offset(offset).Limit(limit).Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) ListByType(ctx context.Context, fileType string, offset, limit int) ([]*models.File, error) {
	var files []*models.File
	err := r.db.WithContext(ctx).Where("type = ?", fileType).Offset(offset).Limit(limit).Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.File{}).Count(&count).Error
	return count, err
}
