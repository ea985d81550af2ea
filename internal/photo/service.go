package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	photoDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/photo"
	"github.com/wirabuild/construction-management/internal/core/events"
	"github.com/wirabuild/construction-management/internal/storage"
)

// Repository is the data access surface for photo rows.
type Repository interface {
	CreatePhoto(record *photoDatamodel.Photo) error
	GetPhoto(id string) (*photoDatamodel.Photo, error)
	ListByProject(projectID string) ([]*photoDatamodel.Photo, error)
	DeletePhoto(id string) error
}

// UploadInput carries one multipart file into the service.
type UploadInput struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Caption     string
	TakenAt     *time.Time
}

// Service stores photo binaries in object storage and their metadata rows in
// the database. Images are stored as received; resizing is the client's job.
type Service struct {
	repo     Repository
	store    storage.ObjectStorage
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, store storage.ObjectStorage, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Upload writes the binary to object storage, then the metadata row. A failed
// row write rolls the object back out of storage.
func (s *Service) Upload(ctx context.Context, actor *auth.User, projectID string, input UploadInput) (*Photo, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if input.Reader == nil || input.Size <= 0 {
		return nil, internal.NewValidationError("file is required", internal.ErrCodeValidationFailed)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("photos/%s/%s/%s", *actor.CompanyID, projectID, id)

	if err := s.store.Put(ctx, key, input.Reader, input.Size, input.ContentType); err != nil {
		s.logger.Error("failed to upload photo object", "error", err, "key", key)
		return nil, internal.NewInternalError("failed to upload photo", err).
			WithDetails(internal.ErrCodeStorageUploadFailed)
	}

	takenAt := time.Now()
	if input.TakenAt != nil {
		takenAt = *input.TakenAt
	}

	record := &photoDatamodel.Photo{
		ID:             id,
		CompanyID:      *actor.CompanyID,
		ProjectID:      projectID,
		UploaderUserID: actor.ID,
		ObjectKey:      key,
		URL:            s.store.PublicURL(key),
		Caption:        input.Caption,
		ContentType:    input.ContentType,
		Size:           input.Size,
		TakenAt:        takenAt,
	}

	if err := s.repo.CreatePhoto(record); err != nil {
		s.logger.Error("failed to store photo row", "error", err, "photo_id", id)
		if cleanupErr := s.store.Delete(ctx, key); cleanupErr != nil {
			s.logger.Warn("failed to remove orphaned photo object", "error", cleanupErr, "key", key)
		}
		return nil, internal.NewInternalError("failed to store photo", err)
	}

	if s.eventBus != nil {
		event := events.NewPhotoUploadedEvent(id, projectID, actor.ID)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish photo event", "error", err, "photo_id", id)
		}
	}

	s.logger.Info("photo uploaded", "photo_id", id, "project_id", projectID, "size", input.Size)
	return FromDataModel(record), nil
}

// ListByProject returns the project's photos newest first, optionally grouped
// by month.
func (s *Service) ListByProject(ctx context.Context, actor *auth.User, projectID string) ([]*Photo, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}

	records, err := s.repo.ListByProject(projectID)
	if err != nil {
		s.logger.Error("failed to list photos", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to list photos", err)
	}

	photos := make([]*Photo, 0, len(records))
	for _, record := range records {
		if record.CompanyID != *actor.CompanyID {
			continue
		}
		photos = append(photos, FromDataModel(record))
	}
	return photos, nil
}

// ListGroupedByMonth returns the project's photos bucketed YYYY-MM, newest
// bucket first.
func (s *Service) ListGroupedByMonth(ctx context.Context, actor *auth.User, projectID string) ([]*MonthGroup, error) {
	photos, err := s.ListByProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	return GroupByMonth(photos), nil
}

// Delete removes the row and the stored object. The uploader or a project
// manager may delete.
func (s *Service) Delete(ctx context.Context, actor *auth.User, id string) error {
	if actor.CompanyID == nil {
		return internal.ErrNoCompany
	}

	record, err := s.repo.GetPhoto(id)
	if err != nil {
		return internal.NewInternalError("failed to load photo", err)
	}
	if record == nil || record.CompanyID != *actor.CompanyID {
		return internal.ErrPhotoNotFound
	}
	if record.UploaderUserID != actor.ID && !actor.Permissions.CanManageProjects {
		return internal.ErrUnauthorizedAccess
	}

	if err := s.repo.DeletePhoto(id); err != nil {
		s.logger.Error("failed to delete photo row", "error", err, "photo_id", id)
		return internal.NewInternalError("failed to delete photo", err)
	}
	if err := s.store.Delete(ctx, record.ObjectKey); err != nil {
		s.logger.Warn("failed to delete photo object", "error", err, "key", record.ObjectKey)
	}

	s.logger.Info("photo deleted", "photo_id", id, "actor_id", actor.ID)
	return nil
}
