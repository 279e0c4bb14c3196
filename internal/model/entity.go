package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type File struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

type Query struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	FileID    *int64    `json:"file_id"`
	QueryText string    `json:"query_text"`
	Response  string    `json:"response"`
	ChartData *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON inlines the stored chart JSON instead of quoting it.
func (q Query) MarshalJSON() ([]byte, error) {
	type alias Query
	var chart json.RawMessage
	if q.ChartData != nil {
		chart = json.RawMessage(*q.ChartData)
	}
	return json.Marshal(struct {
		alias
		ChartData json.RawMessage `json:"chart_data"`
	}{alias(q), chart})
}

func (User) TableName() string  { return "users" }
func (File) TableName() string  { return "files" }
func (Query) TableName() string { return "queries" }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &File{}, &Query{})
}
