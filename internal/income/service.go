package income

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	incomeDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/income"
	"github.com/wirabuild/construction-management/internal/project"
)

// Repository is the data access surface for incomes.
type Repository interface {
	CreateIncome(record *incomeDatamodel.Income) error
	GetIncome(id string) (*incomeDatamodel.Income, error)
	ListByProject(projectID string) ([]*incomeDatamodel.Income, error)
	DeleteIncome(id string) error
}

// ActualsRecomputer refreshes the denormalized project financials.
type ActualsRecomputer interface {
	RecomputeActuals(ctx context.Context, projectID string) (*project.Project, error)
}

// Service handles income records. Every write refreshes the project's
// denormalized revenue.
type Service struct {
	repo       Repository
	recomputer ActualsRecomputer
	logger     *slog.Logger
}

func NewService(repo Repository, recomputer ActualsRecomputer, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		recomputer: recomputer,
		logger:     logger,
	}
}

// Create records an income against a project. Admin only.
func (s *Service) Create(ctx context.Context, actor *auth.User, projectID string, dto CreateIncomeDTO) (*Income, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if !actor.Permissions.CanManageCompany {
		return nil, internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	receivedAt := time.Now()
	if dto.ReceivedAt != nil {
		receivedAt = *dto.ReceivedAt
	}

	record := &incomeDatamodel.Income{
		ID:          uuid.NewString(),
		CompanyID:   *actor.CompanyID,
		ProjectID:   projectID,
		Amount:      dto.Amount,
		Source:      dto.Source,
		Description: dto.Description,
		ReceivedAt:  receivedAt,
	}

	if err := s.repo.CreateIncome(record); err != nil {
		s.logger.Error("failed to create income", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to create income", err)
	}

	s.recompute(ctx, projectID)
	s.logger.Info("income recorded", "income_id", record.ID, "project_id", projectID, "amount", record.Amount)
	return FromDataModel(record), nil
}

// ListByProject returns the project's incomes.
func (s *Service) ListByProject(ctx context.Context, actor *auth.User, projectID string) ([]*Income, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}

	records, err := s.repo.ListByProject(projectID)
	if err != nil {
		s.logger.Error("failed to list incomes", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to list incomes", err)
	}

	out := make([]*Income, 0, len(records))
	for _, record := range records {
		if record.CompanyID != *actor.CompanyID {
			continue
		}
		out = append(out, FromDataModel(record))
	}
	return out, nil
}

// Delete removes an income record. Admin only.
func (s *Service) Delete(ctx context.Context, actor *auth.User, id string) error {
	if actor.CompanyID == nil {
		return internal.ErrNoCompany
	}
	if !actor.Permissions.CanManageCompany {
		return internal.ErrUnauthorizedAccess
	}

	record, err := s.repo.GetIncome(id)
	if err != nil {
		return internal.NewInternalError("failed to load income", err)
	}
	if record == nil || record.CompanyID != *actor.CompanyID {
		return internal.ErrIncomeNotFound
	}

	if err := s.repo.DeleteIncome(id); err != nil {
		s.logger.Error("failed to delete income", "error", err, "income_id", id)
		return internal.NewInternalError("failed to delete income", err)
	}

	s.recompute(ctx, record.ProjectID)
	s.logger.Info("income deleted", "income_id", id, "project_id", record.ProjectID)
	return nil
}

func (s *Service) recompute(ctx context.Context, projectID string) {
	if s.recomputer == nil {
		return
	}
	if _, err := s.recomputer.RecomputeActuals(ctx, projectID); err != nil {
		s.logger.Warn("failed to recompute project revenue", "error", err, "project_id", projectID)
	}
}
