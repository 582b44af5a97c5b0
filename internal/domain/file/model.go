package file

import (
	"io"
	"time"
)

const (
	MaxFilesPerGoal = 10
	MaxFileSize     = 10 << 20
	maxNameLength   = 255
	maxMimeLength   = 127
	defaultMimeType = "application/octet-stream"
	unnamedFile     = "unnamed"
)

type File struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	GoalID     string    `gorm:"type:uuid;not null;index"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	FilePath   string    `gorm:"type:text;not null"`
	FileSize   int64     `gorm:"not null"`
	MimeType   *string   `gorm:"type:varchar(127)"`
	UploadedBy string    `gorm:"type:uuid;not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func (File) TableName() string {
	return "goal_files"
}

type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Uploaded struct {
	File        File
	DownloadURL string
}

type Download struct {
	FileID      string
	FileName    string
	DownloadURL string
	ExpiresIn   int
}
