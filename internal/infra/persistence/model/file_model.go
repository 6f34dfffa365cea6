package model

import (
	"time"
)

// FileModel mirrors the 'files' table. The primary key is generated by the
// application at store time, not by the database, so it can name the blob
// before the row exists.
type FileModel struct {
	ID           string `gorm:"type:varchar(64);primaryKey"`
	UserID       int64  `gorm:"not null;index"`
	OriginalName string `gorm:"type:varchar(512);not null"`
	StoredName   string `gorm:"type:varchar(512);not null;unique"`
	Size         int64  `gorm:"not null"`
	MimeType     string `gorm:"type:varchar(255)"`
	StoragePath  string `gorm:"type:varchar(512);not null"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (FileModel) TableName() string {
	return "files"
}
