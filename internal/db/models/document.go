package models

import "time"

// Document is the metadata of a file stored in the blob store under Path.
type Document struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	GroupID  string `gorm:"size:36;index;not null" json:"groupId"`
	Name     string `gorm:"size:255;not null" json:"name"`
	URL      string `gorm:"size:2048" json:"url"`
	Path     string `gorm:"size:1024;not null" json:"path"`
	FileType string `gorm:"size:255" json:"fileType"`
	// Size in bytes as stored in the blob store.
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `gorm:"size:128" json:"uploadedBy"`

	UploaderName     string `gorm:"size:255" json:"uploaderName"`
	UploaderPhotoURL string `gorm:"size:1024" json:"uploaderPhotoURL"`

	Description string  `gorm:"type:text" json:"description"`
	ProjectID   *string `gorm:"size:36;index" json:"projectId"`
	TaskID      *string `gorm:"size:36;index" json:"taskId"`

	// DeletionPending marks a document whose blob delete has started but not finished.
	DeletionPending bool `gorm:"index;not null;default:false" json:"-"`
}

// TableName specifies the database table name for the Document model.
func (Document) TableName() string {
	return "documents"
}
