package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"file-insight/internal/logger"
	"file-insight/internal/model"
	"file-insight/internal/storage"

	"gorm.io/gorm"
)

// AllowedExtensions mirrors the upload picker: CSV, JSON, text and Excel.
var AllowedExtensions = map[string]bool{
	".csv": true, ".json": true, ".txt": true, ".xlsx": true, ".xls": true,
}

type FileService struct {
	db       *gorm.DB
	store    *storage.Store
	maxBytes int64
	now      func() time.Time
}

func NewFileService(db *gorm.DB, store *storage.Store, maxBytes int64) *FileService {
	return &FileService{db: db, store: store, maxBytes: maxBytes, now: time.Now}
}

// Upload stores the object first and then records its metadata. A failed
// insert removes the stored object again.
func (s *FileService) Upload(ctx context.Context, userID int64, name, contentType string, size int64, r io.Reader) (*model.File, error) {
	if !AllowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil, ErrFileType
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := storage.ObjectPath(userID, name, s.now())
	n, err := s.store.Put(path, r, s.maxBytes)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, ErrFileTooLarge
	}
	if err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	f := model.File{
		UserID: userID, Filename: filepath.Base(name), FileType: contentType,
		FileSize: n, StoragePath: path,
	}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		if derr := s.store.Delete(path); derr != nil {
			logger.Warn("file.upload: orphan object", "path", path, "err", derr)
		}
		return nil, fmt.Errorf("insert file: %w", err)
	}
	logger.Info("file.upload", "uid", userID, "file_id", f.ID, "name", f.Filename, "size", n)
	return &f, nil
}

func (s *FileService) List(ctx context.Context, userID int64) ([]model.File, error) {
	var files []model.File
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Get returns the user's file; another user's file is ErrNotFound.
func (s *FileService) Get(ctx context.Context, userID, id int64) (*model.File, error) {
	var f model.File
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query file: %w", err)
	}
	return &f, nil
}

// Content reads the whole object as text.
func (s *FileService) Content(ctx context.Context, userID, id int64) (*model.File, string, error) {
	f, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.ReadAll(f.StoragePath)
	if err != nil {
		return nil, "", fmt.Errorf("read object: %w", err)
	}
	return f, string(data), nil
}

func (s *FileService) Open(ctx context.Context, userID, id int64) (*model.File, io.ReadCloser, error) {
	f, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open object: %w", err)
	}
	return f, rc, nil
}

func (s *FileService) Delete(ctx context.Context, userID, id int64) error {
	f, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Query{}).Where("file_id = ?", f.ID).Update("file_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.File{}, f.ID).Error
	})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if err := s.store.Delete(f.StoragePath); err != nil {
		logger.Warn("file.delete: object not removed", "path", f.StoragePath, "err", err)
	}
	logger.Info("file.delete", "uid", userID, "file_id", id)
	return nil
}
