package project

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wirabuild/construction-management/internal"
	"github.com/wirabuild/construction-management/internal/auth"
	projectDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/project"
)

// Repository is the data access surface for projects, including the
// aggregation queries RecomputeActuals needs.
type Repository interface {
	CreateProject(record *projectDatamodel.Project) error
	GetProject(id string) (*projectDatamodel.Project, error)
	ListProjects(companyID string) ([]*projectDatamodel.Project, error)
	UpdateProject(id string, updates map[string]interface{}) error
	DeleteProject(id string) error

	SumApprovedReimbursements(projectID string) (int64, error)
	SumAssignmentCosts(projectID string) (int64, error)
	SumIncomes(projectID string) (int64, error)
	SetActuals(projectID string, actualCost, revenue int64) error
}

// Service handles project business logic. Financial actuals are denormalized
// onto the project row and refreshed by RecomputeActuals.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create adds a project to the actor's company.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto CreateProjectDTO) (*Project, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}
	if !actor.Permissions.CanCreateProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := &projectDatamodel.Project{
		ID:          uuid.NewString(),
		CompanyID:   *actor.CompanyID,
		Name:        dto.Name,
		Description: dto.Description,
		Address:     dto.Address,
		Status:      string(StatusPlanning),
		Budget:      dto.Budget,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
	}

	if err := s.repo.CreateProject(record); err != nil {
		s.logger.Error("failed to create project", "error", err, "company_id", record.CompanyID)
		return nil, internal.NewInternalError("failed to create project", err)
	}

	s.logger.Info("project created", "project_id", record.ID, "company_id", record.CompanyID)
	return FromDataModel(record), nil
}

// Get returns a project, scoped to the actor's company.
func (s *Service) Get(ctx context.Context, actor *auth.User, projectID string) (*Project, error) {
	record, err := s.loadScoped(actor, projectID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

// List returns all projects in the actor's company.
func (s *Service) List(ctx context.Context, actor *auth.User) ([]*Project, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}

	records, err := s.repo.ListProjects(*actor.CompanyID)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err, "company_id", *actor.CompanyID)
		return nil, internal.NewInternalError("failed to list projects", err)
	}

	projects := make([]*Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, FromDataModel(record))
	}
	return projects, nil
}

// Update applies a partial edit to a project in the actor's company.
func (s *Service) Update(ctx context.Context, actor *auth.User, projectID string, dto UpdateProjectDTO) (*Project, error) {
	if !actor.Permissions.CanManageProjects {
		return nil, internal.ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.loadScoped(actor, projectID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Address != nil {
		updates["address"] = *dto.Address
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if dto.Budget != nil {
		updates["budget"] = *dto.Budget
	}
	if dto.StartDate != nil {
		updates["start_date"] = *dto.StartDate
	}
	if dto.EndDate != nil {
		updates["end_date"] = *dto.EndDate
	}

	if err := s.repo.UpdateProject(projectID, updates); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to update project", err)
	}

	record, err := s.repo.GetProject(projectID)
	if err != nil || record == nil {
		return nil, internal.ErrProjectNotFound
	}
	return FromDataModel(record), nil
}

// Delete removes a project. Admin only.
func (s *Service) Delete(ctx context.Context, actor *auth.User, projectID string) error {
	if !actor.Permissions.CanDeleteProjects {
		return internal.ErrUnauthorizedAccess
	}
	if _, err := s.loadScoped(actor, projectID); err != nil {
		return err
	}

	if err := s.repo.DeleteProject(projectID); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", projectID)
		return internal.NewInternalError("failed to delete project", err)
	}

	s.logger.Info("project deleted", "project_id", projectID, "actor_id", actor.ID)
	return nil
}

// RecomputeActuals refreshes the denormalized financials on the project row:
// actual_cost from approved reimbursements plus task assignment costs, and
// revenue from recorded incomes.
func (s *Service) RecomputeActuals(ctx context.Context, projectID string) (*Project, error) {
	record, err := s.repo.GetProject(projectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load project", err)
	}
	if record == nil {
		return nil, internal.ErrProjectNotFound
	}

	reimbursed, err := s.repo.SumApprovedReimbursements(projectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to sum reimbursements", err)
	}
	assignmentCost, err := s.repo.SumAssignmentCosts(projectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to sum assignment costs", err)
	}
	revenue, err := s.repo.SumIncomes(projectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to sum incomes", err)
	}

	actualCost := reimbursed + assignmentCost
	if err := s.repo.SetActuals(projectID, actualCost, revenue); err != nil {
		return nil, internal.NewInternalError("failed to store actuals", err)
	}

	record.ActualCost = actualCost
	record.Revenue = revenue
	s.logger.Info("project actuals recomputed",
		"project_id", projectID,
		"actual_cost", actualCost,
		"revenue", revenue)
	return FromDataModel(record), nil
}

func (s *Service) loadScoped(actor *auth.User, projectID string) (*projectDatamodel.Project, error) {
	if actor.CompanyID == nil {
		return nil, internal.ErrNoCompany
	}

	record, err := s.repo.GetProject(projectID)
	if err != nil {
		s.logger.Error("failed to load project", "error", err, "project_id", projectID)
		return nil, internal.NewInternalError("failed to load project", err)
	}
	if record == nil || record.CompanyID != *actor.CompanyID {
		return nil, internal.ErrProjectNotFound
	}
	return record, nil
}
