package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExerciseInput struct {
	Name        string
	Description string
	VideoURL    string
}

// UploadURLResponse is a presigned PUT target for a demo video.
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

type ExerciseService interface {
	Create(ctx context.Context, caller *auth.Caller, in ExerciseInput) (*domain.Exercise, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, page repository.Page) ([]domain.Exercise, error)
	Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error

	// Demo video upload: request a URL, PUT the file to storage, then confirm the key.
	RequestVideoUpload(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmVideo(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, objectKey string) (*domain.Exercise, error)
	// VideoDownloadURL returns "" when the exercise has no uploaded video.
	VideoDownloadURL(ctx context.Context, exercise *domain.Exercise) (string, error)
}

type exerciseService struct {
	exercises   repository.ExerciseRepository
	fileStorage storage.FileStorage // nil when no bucket is configured
}

func NewExerciseService(exercises repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exercises:   exercises,
		fileStorage: fileStorage,
	}
}

func validateExercise(in ExerciseInput) error {
	var v fieldErrors
	v.required("name", in.Name, maxNameLength)
	v.maxLen("description", in.Description, maxDescriptionLength)
	v.optionalURL("video_url", in.VideoURL)
	return v.result()
}

func (s *exerciseService) Create(ctx context.Context, caller *auth.Caller, in ExerciseInput) (*domain.Exercise, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	if err := validateExercise(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := s.checkName(ctx, name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		VideoURL:    in.VideoURL,
	}
	if _, err := s.exercises.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return exercise, nil
}

// checkName rejects a name already used by a different exercise.
func (s *exerciseService) checkName(ctx context.Context, name string, self primitive.ObjectID) error {
	existing, err := s.exercises.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == self:
		return nil
	default:
		return ErrExerciseNameTaken
	}
}

func (s *exerciseService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) List(ctx context.Context, page repository.Page) ([]domain.Exercise, error) {
	return s.exercises.List(ctx, page)
}

func (s *exerciseService) Update(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	if err := validateExercise(in); err != nil {
		return nil, err
	}
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := s.checkName(ctx, name, id); err != nil {
		return nil, err
	}

	exercise.Name = name
	exercise.Description = strings.TrimSpace(in.Description)
	exercise.VideoURL = in.VideoURL
	if err := s.exercises.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrExerciseNameTaken
		}
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) error {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return err
	}
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.exercises.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrExerciseNotFound)
	}
	s.dropVideo(ctx, exercise.VideoKey)
	return nil
}

// RequestVideoUpload generates a pre-signed URL for uploading a demo video of an exercise.
func (s *exerciseService) RequestVideoUpload(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	// 1. Validate inputs
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	if s.fileStorage == nil {
		return nil, ErrVideoStorageDisabled
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return nil, newError(ErrValidation, "invalid or missing video content type")
	}

	// 2. The exercise must exist
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	// 3. Unique object key under the exercise prefix
	extension := strings.TrimPrefix(strings.ToLower(contentType), "video/")
	objectKey := path.Join(videoPrefix(id), fmt.Sprintf("%s.%s", uuid.NewString(), extension))

	// 4. Pre-signed PUT
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Errorf("presign upload for exercise %s: %s", id.Hex(), err)
		return nil, fmt.Errorf("generate upload url: %w", err)
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func videoPrefix(id primitive.ObjectID) string {
	return path.Join("exercises", id.Hex())
}

// ConfirmVideo stores the uploaded object key on the exercise and removes the previous video.
func (s *exerciseService) ConfirmVideo(ctx context.Context, caller *auth.Caller, id primitive.ObjectID, objectKey string) (*domain.Exercise, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleTrainer); err != nil {
		return nil, err
	}
	if s.fileStorage == nil {
		return nil, ErrVideoStorageDisabled
	}
	if !strings.HasPrefix(objectKey, videoPrefix(id)+"/") {
		return nil, newError(ErrValidation, "object_key does not belong to this exercise")
	}
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := exercise.VideoKey
	exercise.VideoKey = objectKey
	if err := s.exercises.Update(ctx, exercise); err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	if previous != objectKey {
		s.dropVideo(ctx, previous)
	}
	return exercise, nil
}

func (s *exerciseService) VideoDownloadURL(ctx context.Context, exercise *domain.Exercise) (string, error) {
	if exercise.VideoKey == "" || s.fileStorage == nil {
		return "", nil
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoKey, storage.DefaultPresignedURLExpiry)
}

// dropVideo deletes an orphaned object. Failures only leave garbage in the bucket.
func (s *exerciseService) dropVideo(ctx context.Context, key string) {
	if key == "" || s.fileStorage == nil {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		log.Warnf("delete video object %s: %s", key, err)
	}
}
