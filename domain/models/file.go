package models

import (
	"time"

	"github.com/google/uuid"
)

// Logical file types known to the classifier.
const (
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeDocument = "document"
	TypeAudio    = "audio"
)

// DefaultGroup is the transformation group used when none is given.
const DefaultGroup = "default"

// File represents one logical uploaded asset. Derived artifacts live in
// the transformations table; when a transformer is flagged "default" its
// result is merged back onto this record instead.
type File struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Type      string    `gorm:"size:20;not null;index"`
	Disk      string    `gorm:"size:50;not null"`
	Name      string    `gorm:"size:255"`
	Filename  string    `gorm:"size:255;not null"` // slugified original name, no extension
	Extension string    `gorm:"size:20;not null"`
	MimeType  string    `gorm:"size:127;not null"`
	Size      int64     `gorm:"default:0"`
	Width     int       `gorm:"default:0"` // images/video only
	Height    int       `gorm:"default:0"`
	Group     string    `gorm:"size:50;not null;default:'default';index"`
	IsHidden  bool      `gorm:"default:false"`
	Completed bool      `gorm:"default:false"`
	OwnerID   *string   `gorm:"size:64"`
	UserID    *string   `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Transformations []*Transformation `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
}

func (File) TableName() string {
	return "medialibrary_files"
}

// DisplayName returns the user-facing name, falling back to the filename slug.
func (f *File) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Filename
}

// IsImage reports whether the file classified as an image.
func (f *File) IsImage() bool {
	return f.Type == TypeImage
}

// MergeTransformation overwrites the file's primary metrics with the result
// of a "default" transformation run.
func (f *File) MergeTransformation(t *Transformation) {
	f.Size = t.Size
	f.Width = t.Width
	f.Height = t.Height
	f.MimeType = t.MimeType
	f.Extension = t.Extension
}
