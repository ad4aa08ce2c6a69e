package models

import (
	"time"

	"github.com/google/uuid"
)

// Transformation is a derived artifact belonging to exactly one File.
// (file_id, name) is unique; a row exists only once the artifact is fully
// materialized in the object store. In-progress state lives in the queue,
// never in this table.
type Transformation struct {
	ID        uint      `gorm:"primaryKey"`
	FileID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_transformation_file_name"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:ux_transformation_file_name"`
	Type      string    `gorm:"size:20;not null"`
	MimeType  string    `gorm:"size:127;not null"`
	Extension string    `gorm:"size:20;not null"`
	Size      int64     `gorm:"default:0"`
	Width     int       `gorm:"default:0"`
	Height    int       `gorm:"default:0"`
	Completed bool      `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Transformation) TableName() string {
	return "medialibrary_transformations"
}
