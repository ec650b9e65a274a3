package service

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/storage"
)

var ErrStorageUnavailable = errors.New("file storage is not configured")

// FileUpload describes an in-memory object to persist.
type FileUpload struct {
	UserID       string
	OwnerType    string
	OwnerID      string
	Type         string
	OriginalName string
	MimeType     string
	Ext          string
	Data         []byte
	Public       bool
}

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
	clock    Clock
}

// NewFileService accepts a nil storage; uploads then fail with
// ErrStorageUnavailable while cleanup becomes a no-op.
func NewFileService(fileRepo repository.FileRepository, storage storage.Storage, clock Clock) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
		clock:    clock,
	}
}

func (s *FileService) Available() bool {
	return s.storage != nil
}

// Upload stores the data and records a file row pointing at it.
func (s *FileService) Upload(in FileUpload) (*model.File, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	filename := uuid.New().String() + in.Ext

	prefix := "private"
	if in.Public {
		prefix = "public"
	}
	storagePath := path.Join(prefix, in.Type+"s", filename)

	err := s.storage.Save(storagePath, bytes.NewReader(in.Data), in.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	file := &model.File{
		ID:           uuid.New().String(),
		UserID:       in.UserID,
		OwnerType:    in.OwnerType,
		OwnerID:      in.OwnerID,
		Type:         in.Type,
		Filename:     filename,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Size:         int64(len(in.Data)),
		StoragePath:  storagePath,
		Public:       in.Public,
		CreatedAt:    s.clock.Now(),
	}

	err = s.fileRepo.Create(file)
	if err != nil {
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return file, nil
}

// URL returns a link to the file: long lived for public files, short lived otherwise.
func (s *FileService) URL(file *model.File) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}
	if file.Public {
		return s.storage.PublicURL(file.StoragePath), nil
	}
	return s.storage.PresignedURL(file.StoragePath)
}

func (s *FileService) Files(ownerType, ownerID string) ([]*model.File, error) {
	return s.fileRepo.Files(ownerType, ownerID)
}

func (s *FileService) Delete(fileID string) error {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if s.storage != nil {
		delErr := s.storage.Delete(file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
		}
	}

	err = s.fileRepo.Delete(fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}

// DeleteAllUserFilesFromStorage removes stored objects only. The rows are
// dropped by the cascade when the user goes.
func (s *FileService) DeleteAllUserFilesFromStorage(userID string) error {
	if s.storage == nil {
		return nil
	}

	files, err := s.fileRepo.AllUserFiles(userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		err = s.storage.Delete(file.StoragePath)
		if err != nil {
			slog.Warn("failed to delete file from storage", "storage_path", file.StoragePath, "error", err)
		}
	}

	return nil
}
