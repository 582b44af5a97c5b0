package file

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"goal-tracker-go/internal/domain/access"
	"goal-tracker-go/pkg/logger"
)

type Service struct {
	repo    Repository
	storage Storage
	goals   Goals
	ttl     time.Duration
	log     logger.Logger
}

func NewService(repo Repository, storage Storage, goals Goals, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		repo:    repo,
		storage: storage,
		goals:   goals,
		ttl:     ttl,
		log:     log,
	}
}

func (s *Service) List(ctx context.Context, goalID, userID string) ([]File, error) {
	if _, err := s.authorize(ctx, goalID, userID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListByGoal(ctx, goalID)
}

// Upload stores the blob first and then its metadata. When the metadata
// insert fails the blob is removed again.
func (s *Service) Upload(ctx context.Context, goalID, userID string, upload Upload) (*Uploaded, error) {
	if _, err := s.authorize(ctx, goalID, userID, access.ActionAttach); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if count >= MaxFilesPerGoal {
		return nil, ErrFileLimitReached
	}
	if upload.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if upload.Size <= 0 {
		return nil, ErrEmptyFile
	}

	name := strings.TrimSpace(upload.FileName)
	if name == "" {
		name = unnamedFile
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidFileName
	}
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = defaultMimeType
	}

	record := File{
		ID:         uuid.NewString(),
		GoalID:     goalID,
		FileName:   name,
		FilePath:   storageKey(goalID, name),
		FileSize:   upload.Size,
		UploadedBy: userID,
	}
	if len(contentType) <= maxMimeLength {
		record.MimeType = &contentType
	}

	if err := s.storage.Put(ctx, record.FilePath, contentType, upload.Body, upload.Size); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		if cleanupErr := s.storage.Delete(context.WithoutCancel(ctx), record.FilePath); cleanupErr != nil {
			s.log.InternalError("files.upload: remove orphaned blob failed", cleanupErr, "goal_id", goalID, "path", record.FilePath)
		}
		return nil, err
	}

	url, err := s.storage.SignedURL(ctx, record.FilePath, s.ttl)
	if err != nil {
		s.log.InternalError("files.upload: sign download url failed", err, "file_id", record.ID)
		url = ""
	}
	return &Uploaded{File: record, DownloadURL: url}, nil
}

func (s *Service) Download(ctx context.Context, goalID, fileID, userID string) (*Download, error) {
	if _, err := s.authorize(ctx, goalID, userID, access.ActionRead); err != nil {
		return nil, err
	}
	record, err := s.repo.GetByID(ctx, goalID, fileID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SignedURL(ctx, record.FilePath, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign download url: %w", err)
	}
	return &Download{
		FileID:      record.ID,
		FileName:    record.FileName,
		DownloadURL: url,
		ExpiresIn:   int(s.ttl / time.Second),
	}, nil
}

// Delete removes the blob before the row. A row left behind after the blob
// is gone is reported as an internal error. Only the uploader and the goal
// owner may delete, whether or not the uploader still shares a team.
func (s *Service) Delete(ctx context.Context, goalID, fileID, userID string) error {
	_, res, err := s.goals.Facts(ctx, goalID, userID)
	if err != nil {
		return err
	}
	record, err := s.repo.GetByID(ctx, goalID, fileID)
	if err != nil {
		return err
	}

	res.Kind = access.KindFile
	res.UploaderID = record.UploadedBy
	if !access.Can(userID, access.ActionDelete, res) {
		if access.Can(userID, access.ActionRead, res) {
			return ErrDeleteDenied
		}
		return ErrGoalAccessDenied
	}

	if err := s.storage.Delete(ctx, record.FilePath); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		s.log.InternalError("files.delete: blob removed but row delete failed", err, "file_id", record.ID, "path", record.FilePath)
		return fmt.Errorf("delete file row: %w", err)
	}
	return nil
}

// authorize loads the goal facts and checks the caller against the file
// policy. An existing goal the caller cannot reach is Forbidden.
func (s *Service) authorize(ctx context.Context, goalID, userID string, action access.Action) (access.Resource, error) {
	_, res, err := s.goals.Facts(ctx, goalID, userID)
	if err != nil {
		return access.Resource{}, err
	}

	fileRes := res
	fileRes.Kind = access.KindFile
	if access.Can(userID, action, fileRes) {
		return res, nil
	}
	if action == access.ActionAttach {
		return access.Resource{}, ErrUploadDenied
	}
	return access.Resource{}, ErrGoalAccessDenied
}

func storageKey(goalID, fileName string) string {
	key := goalID + "/" + uuid.NewString()
	if ext := path.Ext(fileName); ext != "" && ext != "." {
		key += strings.ToLower(ext)
	}
	return key
}
